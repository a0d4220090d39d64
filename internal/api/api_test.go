package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/auth"
	"github.com/shohruz/portfolio-backend-go/internal/domain"
	"github.com/shohruz/portfolio-backend-go/internal/prompt"
	"github.com/shohruz/portfolio-backend-go/internal/service/chat"
	"github.com/shohruz/portfolio-backend-go/internal/service/content"
)

type fakeRepo struct {
	profile  *domain.Profile
	skills   []domain.Skill
	projects []domain.Project

	profileErr  error
	skillsErr   error
	projectsErr error

	upsertErr          error
	replaceSkillsErr   error
	replaceProjectsErr error
}

func (f *fakeRepo) GetProfile(context.Context) (*domain.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeRepo) ListSkills(context.Context) ([]domain.Skill, error) {
	if f.skillsErr != nil {
		return nil, f.skillsErr
	}
	return f.skills, nil
}

func (f *fakeRepo) ListProjects(context.Context) ([]domain.Project, error) {
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	return f.projects, nil
}

func (f *fakeRepo) UpsertProfile(_ context.Context, profile domain.Profile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.profile = &profile
	return nil
}

func (f *fakeRepo) ReplaceSkills(_ context.Context, skills []domain.Skill) error {
	if f.replaceSkillsErr != nil {
		return f.replaceSkillsErr
	}
	f.skills = skills
	return nil
}

func (f *fakeRepo) ReplaceProjects(_ context.Context, projects []domain.Project) error {
	if f.replaceProjectsErr != nil {
		return f.replaceProjectsErr
	}
	f.projects = projects
	return nil
}

type echoEngine struct{}

func (echoEngine) Respond(_ context.Context, utterance string, _ *domain.Snapshot) string {
	return "javob: " + utterance
}

func newTestServer(t *testing.T, repo *fakeRepo) (*httptest.Server, Deps) {
	t.Helper()
	logger := zap.NewNop()

	loader := content.NewLoader(repo, logger)
	snapshot, result := loader.Load(context.Background())
	store := content.NewStore(snapshot, result, nil, logger)
	editor := content.NewEditor(store, repo, auth.NewStatic("shohruz", "shohruz"), logger)
	chatManager := chat.NewManager(echoEngine{}, store, prompt.NewPromptBuilder(), nil, logger)

	deps := Deps{
		Store:  store,
		Loader: loader,
		Editor: editor,
		Chat:   chatManager,
		Logger: logger,
	}
	srv := httptest.NewServer(NewRouter(deps))
	t.Cleanup(srv.Close)
	return srv, deps
}

func seededRepo() *fakeRepo {
	base := content.DefaultSnapshot()
	return &fakeRepo{
		profile:  &base.Profile,
		skills:   base.Skills,
		projects: base.Projects,
	}
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	fields := map[string]json.RawMessage{}
	_ = json.NewDecoder(resp.Body).Decode(&fields)
	return resp, fields
}

func stringField(t *testing.T, fields map[string]json.RawMessage, key string) string {
	t.Helper()
	var value string
	if err := json.Unmarshal(fields[key], &value); err != nil {
		t.Fatalf("field %q is not a string: %v", key, err)
	}
	return value
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, seededRepo())

	resp, fields := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if stringField(t, fields, "status") != "ok" {
		t.Fatal("expected status ok")
	}
}

func TestGetContent(t *testing.T) {
	repo := seededRepo()
	name := "Custom Name"
	repo.profile.Name = name
	srv, _ := newTestServer(t, repo)

	resp, fields := doJSON(t, http.MethodGet, srv.URL+"/api/content", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(fields["snapshot"], &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.Profile.Name != name {
		t.Fatalf("expected repository profile, got %q", snapshot.Profile.Name)
	}

	var load domain.LoadResult
	if err := json.Unmarshal(fields["load"], &load); err != nil {
		t.Fatalf("decode load: %v", err)
	}
	if load.Outcome != domain.OutcomeSuccess {
		t.Fatalf("expected success outcome, got %s", load.Outcome)
	}
}

func TestReloadContentReportsPartialFailure(t *testing.T) {
	repo := seededRepo()
	srv, _ := newTestServer(t, repo)

	repo.skillsErr = fmt.Errorf("connection refused")
	resp, fields := doJSON(t, http.MethodPost, srv.URL+"/api/content/reload", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var load domain.LoadResult
	if err := json.Unmarshal(fields["load"], &load); err != nil {
		t.Fatalf("decode load: %v", err)
	}
	if load.Outcome != domain.OutcomePartial {
		t.Fatalf("expected partial outcome, got %s", load.Outcome)
	}
	if _, ok := load.Failures["skills"]; !ok {
		t.Fatalf("expected a skills failure entry, got %v", load.Failures)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(fields["snapshot"], &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snapshot.Skills) == 0 {
		t.Fatal("failed skill read must be backfilled with defaults")
	}
}

func TestChatFlow(t *testing.T) {
	srv, _ := newTestServer(t, seededRepo())

	resp, fields := doJSON(t, http.MethodPost, srv.URL+"/api/chat/sessions", "", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	sessionID := stringField(t, fields, "session_id")
	if sessionID == "" {
		t.Fatal("expected a session id")
	}

	resp, fields = doJSON(t, http.MethodPost, srv.URL+"/api/chat/sessions/"+sessionID+"/messages", "",
		map[string]string{"message": "Qanday loyihalar bor?"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := stringField(t, fields, "content"); got != "javob: Qanday loyihalar bor?" {
		t.Fatalf("unexpected reply %q", got)
	}

	resp, fields = doJSON(t, http.MethodGet, srv.URL+"/api/chat/sessions/"+sessionID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var turns []domain.Turn
	if err := json.Unmarshal(fields["turns"], &turns); err != nil {
		t.Fatalf("decode turns: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected greeting, question and reply, got %d turns", len(turns))
	}
	if turns[1].Role != domain.RoleUser || turns[2].Role != domain.RoleAssistant {
		t.Fatalf("transcript out of order: %v", turns)
	}
}

func TestChatUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t, seededRepo())

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/chat/sessions/missing", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/chat/sessions/missing/messages", "",
		map[string]string{"message": "salom"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestChatRejectsBlankMessage(t *testing.T) {
	srv, _ := newTestServer(t, seededRepo())

	_, fields := doJSON(t, http.MethodPost, srv.URL+"/api/chat/sessions", "", nil)
	sessionID := stringField(t, fields, "session_id")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/chat/sessions/"+sessionID+"/messages", "",
		map[string]string{"message": "   "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, fields := doJSON(t, http.MethodPost, srv.URL+"/api/admin/session", "",
		map[string]string{"login": "shohruz", "password": "shohruz"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("login failed with %d", resp.StatusCode)
	}
	return stringField(t, fields, "token")
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	srv, deps := newTestServer(t, seededRepo())

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/admin/session", "",
		map[string]string{"login": "shohruz", "password": "notogri"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	// The prompt stays open so the owner can retry immediately.
	if deps.Editor.State() != content.StateLoginPrompt {
		t.Fatalf("expected login prompt to persist, got %s", deps.Editor.State())
	}
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	srv, _ := newTestServer(t, seededRepo())

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/admin/draft", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/admin/draft", "wrong-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bogus token, got %d", resp.StatusCode)
	}
}

func TestAdminEditAndSave(t *testing.T) {
	repo := seededRepo()
	srv, deps := newTestServer(t, repo)
	token := login(t, srv)

	newName := "Yangilangan Ism"
	resp, fields := doJSON(t, http.MethodPut, srv.URL+"/api/admin/draft/profile", token,
		map[string]string{"name": newName})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile edit failed with %d", resp.StatusCode)
	}
	var profile domain.Profile
	if err := json.Unmarshal(fields["profile"], &profile); err != nil {
		t.Fatalf("decode draft profile: %v", err)
	}
	if profile.Name != newName {
		t.Fatalf("draft must reflect the edit, got %q", profile.Name)
	}

	// Drafted but unsaved edits stay invisible to visitors.
	if deps.Store.Current().Profile.Name == newName {
		t.Fatal("published snapshot changed before save")
	}

	resp, fields = doJSON(t, http.MethodPost, srv.URL+"/api/admin/save", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save failed with %d", resp.StatusCode)
	}
	if msg := stringField(t, fields, "message"); !strings.Contains(msg, "muvaffaqiyatli") {
		t.Fatalf("unexpected save message %q", msg)
	}

	if deps.Store.Current().Profile.Name != newName {
		t.Fatal("published snapshot must carry the saved edit")
	}
	if repo.profile.Name != newName {
		t.Fatal("repository must carry the saved edit")
	}

	// The session token dies with the editing session.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/admin/draft", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected token to be void after save, got %d", resp.StatusCode)
	}
}

func TestAdminSkillAndProjectEdits(t *testing.T) {
	srv, _ := newTestServer(t, seededRepo())
	token := login(t, srv)

	resp, fields := doJSON(t, http.MethodPost, srv.URL+"/api/admin/draft/skills", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add skill failed with %d", resp.StatusCode)
	}
	var skills []domain.Skill
	if err := json.Unmarshal(fields["skills"], &skills); err != nil {
		t.Fatalf("decode skills: %v", err)
	}
	added := len(skills) - 1
	if skills[added].Name != "Yangi ko'nikma" {
		t.Fatalf("expected default skill name, got %q", skills[added].Name)
	}

	level := 90
	resp, fields = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/admin/draft/skills/%d", srv.URL, added), token,
		map[string]any{"level": level})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit skill failed with %d", resp.StatusCode)
	}
	if err := json.Unmarshal(fields["skills"], &skills); err != nil {
		t.Fatalf("decode skills: %v", err)
	}
	if skills[added].Level != level {
		t.Fatalf("expected level %d, got %d", level, skills[added].Level)
	}

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/admin/draft/skills/99", token,
		map[string]any{"level": level})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("out-of-range index must be 400, got %d", resp.StatusCode)
	}

	resp, fields = doJSON(t, http.MethodPost, srv.URL+"/api/admin/draft/projects", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add project failed with %d", resp.StatusCode)
	}
	var projects []domain.Project
	if err := json.Unmarshal(fields["projects"], &projects); err != nil {
		t.Fatalf("decode projects: %v", err)
	}
	last := len(projects) - 1

	tags := "Go, Redis, PostgreSQL"
	resp, fields = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/admin/draft/projects/%d", srv.URL, last), token,
		map[string]string{"tags": tags})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit project failed with %d", resp.StatusCode)
	}
	if err := json.Unmarshal(fields["projects"], &projects); err != nil {
		t.Fatalf("decode projects: %v", err)
	}
	if len(projects[last].Tags) != 3 || projects[last].Tags[1] != "Redis" {
		t.Fatalf("expected split tag list, got %v", projects[last].Tags)
	}
}

func TestAdminSaveFailureKeepsSession(t *testing.T) {
	repo := seededRepo()
	srv, deps := newTestServer(t, repo)
	token := login(t, srv)

	repo.replaceSkillsErr = fmt.Errorf("deadlock detected")
	resp, fields := doJSON(t, http.MethodPost, srv.URL+"/api/admin/save", token, nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(fields["error"], &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if !strings.HasPrefix(envelope.Message, "Xatolik:") {
		t.Fatalf("expected the failure prefix, got %q", envelope.Message)
	}

	// Editing continues so the owner can retry.
	if deps.Editor.State() != content.StateEditing {
		t.Fatalf("expected editing state, got %s", deps.Editor.State())
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/admin/draft", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("token must survive a failed save, got %d", resp.StatusCode)
	}
}

func TestAdminCancelDiscardsDraft(t *testing.T) {
	srv, deps := newTestServer(t, seededRepo())
	token := login(t, srv)

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/admin/session", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel failed with %d", resp.StatusCode)
	}
	if deps.Editor.State() != content.StateClosed {
		t.Fatalf("expected closed state, got %s", deps.Editor.State())
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/admin/draft", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("token must be void after cancel, got %d", resp.StatusCode)
	}
}

func TestAdminUploadImage(t *testing.T) {
	srv, _ := newTestServer(t, seededRepo())
	token := login(t, srv)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/admin/draft/image", bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("X-Admin-Token", token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(body.Image, "data:image/png;base64,") {
		t.Fatalf("expected a data URI, got %q", body.Image)
	}
}
