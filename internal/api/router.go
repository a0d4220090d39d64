package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/service/chat"
	"github.com/shohruz/portfolio-backend-go/internal/service/content"
)

// Deps bundles the services the HTTP surface exposes.
type Deps struct {
	Store  *content.Store
	Loader *content.Loader
	Editor *content.Editor
	Chat   *chat.Manager
	Logger *zap.Logger
}

// NewRouter wires the public content/chat API and the admin editor API.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/content", handleGetContent(deps))
		r.Post("/content/reload", handleReloadContent(deps))

		r.Route("/chat", func(r chi.Router) {
			r.Post("/sessions", handleOpenSession(deps))
			r.Get("/sessions/{id}", handleGetTranscript(deps))
			r.Post("/sessions/{id}/messages", handleSubmitMessage(deps))
		})

		r.Route("/admin", func(r chi.Router) {
			admin := newAdminHandlers(deps)
			r.Post("/session", admin.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(admin.requireSession)
				r.Delete("/session", admin.handleCancel)
				r.Get("/draft", admin.handleGetDraft)
				r.Put("/draft/profile", admin.handleEditProfile)
				r.Post("/draft/skills", admin.handleAddSkill)
				r.Put("/draft/skills/{index}", admin.handleEditSkill)
				r.Delete("/draft/skills/{index}", admin.handleRemoveSkill)
				r.Post("/draft/projects", admin.handleAddProject)
				r.Put("/draft/projects/{index}", admin.handleEditProject)
				r.Delete("/draft/projects/{index}", admin.handleRemoveProject)
				r.Post("/draft/image", admin.handleUploadImage)
				r.Post("/save", admin.handleSave)
			})
		})
	})

	return r
}
