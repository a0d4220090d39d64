package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/constants"
	"github.com/shohruz/portfolio-backend-go/internal/service/content"
	apperrors "github.com/shohruz/portfolio-backend-go/pkg/errors"
)

const adminTokenHeader = "X-Admin-Token"

// adminHandlers drives the editor state machine over HTTP. A successful login
// issues a session token; the token is void once the editor closes (save or
// cancel), matching the one-editing-session-at-a-time model.
type adminHandlers struct {
	deps Deps

	mu    sync.Mutex
	token string
}

func newAdminHandlers(deps Deps) *adminHandlers {
	return &adminHandlers{deps: deps}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (a *adminHandlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
		return
	}

	editor := a.deps.Editor
	if editor.State() == content.StateClosed {
		if err := editor.Open(); err != nil {
			httpError(w, http.StatusConflict, "editor_busy", "%v", err)
			return
		}
	}

	if err := editor.Login(req.Login, req.Password); err != nil {
		a.deps.Logger.Warn("Admin login failed")
		httpError(w, http.StatusUnauthorized, "invalid_credentials", "%s", errorMessage(err))
		return
	}

	a.mu.Lock()
	a.token = uuid.NewString()
	token := a.token
	a.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

// requireSession guards the editing endpoints with the session token.
func (a *adminHandlers) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		token := a.token
		a.mu.Unlock()

		provided := r.Header.Get(adminTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *adminHandlers) closeSession() {
	a.mu.Lock()
	a.token = ""
	a.mu.Unlock()
}

func (a *adminHandlers) handleCancel(w http.ResponseWriter, r *http.Request) {
	a.deps.Editor.Cancel()
	a.closeSession()
	writeJSON(w, http.StatusOK, map[string]string{"state": string(a.deps.Editor.State())})
}

func (a *adminHandlers) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := a.deps.Editor.Draft()
	if err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (a *adminHandlers) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	var edits content.ProfileEdits
	if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
		return
	}
	if err := a.deps.Editor.ApplyProfileEdits(edits); err != nil {
		writeEditorError(w, err)
		return
	}
	a.handleGetDraft(w, r)
}

func (a *adminHandlers) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	if err := a.deps.Editor.AddSkill(); err != nil {
		writeEditorError(w, err)
		return
	}
	a.handleGetDraft(w, r)
}

func (a *adminHandlers) handleEditSkill(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var edits content.SkillEdits
	if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
		return
	}
	if err := a.deps.Editor.UpdateSkill(index, edits); err != nil {
		writeEditorError(w, err)
		return
	}
	a.handleGetDraft(w, r)
}

func (a *adminHandlers) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	if err := a.deps.Editor.RemoveSkill(index); err != nil {
		writeEditorError(w, err)
		return
	}
	a.handleGetDraft(w, r)
}

func (a *adminHandlers) handleAddProject(w http.ResponseWriter, r *http.Request) {
	if err := a.deps.Editor.AddProject(); err != nil {
		writeEditorError(w, err)
		return
	}
	a.handleGetDraft(w, r)
}

func (a *adminHandlers) handleEditProject(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var edits content.ProjectEdits
	if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
		return
	}
	if err := a.deps.Editor.UpdateProject(index, edits); err != nil {
		writeEditorError(w, err)
		return
	}
	a.handleGetDraft(w, r)
}

func (a *adminHandlers) handleRemoveProject(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	if err := a.deps.Editor.RemoveProject(index); err != nil {
		writeEditorError(w, err)
		return
	}
	a.handleGetDraft(w, r)
}

// handleUploadImage encodes an uploaded file into a base64 data URI ready to
// be applied as a profile or project image value via the edit endpoints.
func (a *adminHandlers) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.ServerConfig.MaxImageBytes+1)
	defer r.Body.Close()

	dataURI, err := content.EncodeImage(r.Body, r.Header.Get("Content-Type"), constants.ServerConfig.MaxImageBytes)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid_image", "%s", errorMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image": dataURI})
}

func (a *adminHandlers) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := a.deps.Editor.Save(r.Context()); err != nil {
		a.deps.Logger.Error("Save failed", zap.Error(err))
		httpError(w, http.StatusInternalServerError, "save_failed", "Xatolik: %s", errorMessage(err))
		return
	}
	a.closeSession()
	writeJSON(w, http.StatusOK, map[string]string{
		"state":   string(a.deps.Editor.State()),
		"message": "Ma'lumotlar muvaffaqiyatli saqlandi!",
	})
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request", "invalid index: %v", err)
		return 0, false
	}
	return index, true
}

func writeEditorError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	errType := "internal_error"
	switch e := err.(type) {
	case *apperrors.StateError:
		status = e.StatusCode
		errType = "editor_state"
	case *apperrors.ValidationError:
		status = e.StatusCode
		errType = "invalid_request"
	}
	httpError(w, status, errType, "%s", errorMessage(err))
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
