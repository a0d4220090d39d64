package content

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/auth"
	"github.com/shohruz/portfolio-backend-go/internal/domain"
	"github.com/shohruz/portfolio-backend-go/pkg/errors"
)

// EditorState is the editor lifecycle state.
type EditorState string

const (
	StateClosed      EditorState = "closed"
	StateLoginPrompt EditorState = "login_prompt"
	StateEditing     EditorState = "editing"
	StateSaving      EditorState = "saving"
)

// Editor owns the mutable draft between login and save. One editing session at
// a time; the draft is a deep copy of the snapshot and never aliases it.
//
// State machine: Closed → LoginPrompt → Editing → Saving → Closed, with
// cancel from LoginPrompt and Editing back to Closed.
type Editor struct {
	mu     sync.Mutex
	state  EditorState
	draft  *domain.Snapshot
	store  *Store
	repo   Repository
	auth   auth.Authenticator
	logger *zap.Logger
}

func NewEditor(store *Store, repo Repository, authenticator auth.Authenticator, logger *zap.Logger) *Editor {
	return &Editor{
		state:  StateClosed,
		store:  store,
		repo:   repo,
		auth:   authenticator,
		logger: logger,
	}
}

func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Open shows the login prompt. No side effects.
func (e *Editor) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateClosed {
		return errors.NewStateError("editor already open", string(e.state))
	}
	e.state = StateLoginPrompt
	return nil
}

// Login verifies the credential pair. On a match the draft is initialized as
// a full copy of the current snapshot and editing begins. On a mismatch the
// editor stays at the login prompt; there is no lockout or rate limiting.
func (e *Editor) Login(login, password string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateLoginPrompt {
		return errors.NewStateError("login requires the login prompt", string(e.state))
	}
	if !e.auth.Verify(login, password) {
		e.logger.Warn("Editor login rejected", zap.String("login", login))
		return errors.NewAuthError("Login yoki parol noto'g'ri!")
	}
	e.draft = e.store.Current().Clone()
	e.state = StateEditing
	e.logger.Info("Editor session opened")
	return nil
}

// Cancel discards the draft without touching the repository.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateSaving {
		return
	}
	e.draft = nil
	e.state = StateClosed
}

// Draft returns a copy of the working draft for rendering.
func (e *Editor) Draft() (*domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return nil, errors.NewStateError("no active editing session", string(e.state))
	}
	return e.draft.Clone(), nil
}

// ProfileEdits carries field-level profile changes; nil fields are untouched.
type ProfileEdits struct {
	Name     *string `json:"name,omitempty"`
	Title    *string `json:"title,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
	Email    *string `json:"email,omitempty"`
	Image    *string `json:"image,omitempty"`
	GitHub   *string `json:"github,omitempty"`
	LinkedIn *string `json:"linkedin,omitempty"`
	Telegram *string `json:"telegram,omitempty"`
}

func (e *Editor) ApplyProfileEdits(edits ProfileEdits) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return errors.NewStateError("no active editing session", string(e.state))
	}

	p := &e.draft.Profile
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&p.Name, edits.Name)
	apply(&p.Title, edits.Title)
	apply(&p.Bio, edits.Bio)
	apply(&p.Location, edits.Location)
	apply(&p.Email, edits.Email)
	apply(&p.Image, edits.Image)
	apply(&p.Socials.GitHub, edits.GitHub)
	apply(&p.Socials.LinkedIn, edits.LinkedIn)
	apply(&p.Socials.Telegram, edits.Telegram)
	return nil
}

// SkillEdits carries field-level skill changes; nil fields are untouched.
type SkillEdits struct {
	Name  *string `json:"name,omitempty"`
	Level *int    `json:"level,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

func (e *Editor) UpdateSkill(index int, edits SkillEdits) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return errors.NewStateError("no active editing session", string(e.state))
	}
	if index < 0 || index >= len(e.draft.Skills) {
		return errors.NewValidationError("skill index out of range", "index", index)
	}

	s := &e.draft.Skills[index]
	if edits.Name != nil {
		s.Name = *edits.Name
	}
	if edits.Level != nil {
		s.Level = *edits.Level
	}
	if edits.Icon != nil {
		s.Icon = *edits.Icon
	}
	return nil
}

func (e *Editor) RemoveSkill(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return errors.NewStateError("no active editing session", string(e.state))
	}
	if index < 0 || index >= len(e.draft.Skills) {
		return errors.NewValidationError("skill index out of range", "index", index)
	}
	e.draft.Skills = append(e.draft.Skills[:index], e.draft.Skills[index+1:]...)
	return nil
}

// AddSkill appends a skill with default values.
func (e *Editor) AddSkill() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return errors.NewStateError("no active editing session", string(e.state))
	}
	e.draft.Skills = append(e.draft.Skills, domain.Skill{
		Name:  "Yangi ko'nikma",
		Level: 50,
		Icon:  "⭐",
	})
	return nil
}

// ProjectEdits carries field-level project changes; nil fields are untouched.
// Tags is a comma-delimited string split into the tag list.
type ProjectEdits struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	Link        *string `json:"link,omitempty"`
	Tags        *string `json:"tags,omitempty"`
}

func (e *Editor) UpdateProject(index int, edits ProjectEdits) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return errors.NewStateError("no active editing session", string(e.state))
	}
	if index < 0 || index >= len(e.draft.Projects) {
		return errors.NewValidationError("project index out of range", "index", index)
	}

	p := &e.draft.Projects[index]
	if edits.Title != nil {
		p.Title = *edits.Title
	}
	if edits.Description != nil {
		p.Description = *edits.Description
	}
	if edits.Image != nil {
		p.Image = *edits.Image
	}
	if edits.Link != nil {
		p.Link = *edits.Link
	}
	if edits.Tags != nil {
		p.Tags = SplitTags(*edits.Tags)
	}
	return nil
}

func (e *Editor) RemoveProject(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return errors.NewStateError("no active editing session", string(e.state))
	}
	if index < 0 || index >= len(e.draft.Projects) {
		return errors.NewValidationError("project index out of range", "index", index)
	}
	e.draft.Projects = append(e.draft.Projects[:index], e.draft.Projects[index+1:]...)
	return nil
}

// AddProject appends a placeholder project. The in-memory ID is the creation
// timestamp; the repository reassigns IDs on save.
func (e *Editor) AddProject() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return errors.NewStateError("no active editing session", string(e.state))
	}
	e.draft.Projects = append(e.draft.Projects, domain.Project{
		ID:          time.Now().UnixMilli(),
		Title:       "Yangi loyiha",
		Description: "Loyiha tavsifi",
		Image:       "https://picsum.photos/800/450",
		Tags:        []string{},
		Link:        "#",
	})
	return nil
}

// Save commits the draft: upsert the profile, then replace skills, then
// replace projects, strictly in that order. The steps are not one atomic
// transaction. A profile failure aborts before the other collections are
// touched; a later failure leaves the profile persisted with skills or
// projects partially written (known consistency gap, surfaced to the caller).
// On full success the draft becomes the published snapshot.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateEditing {
		e.mu.Unlock()
		return errors.NewStateError("save requires an editing session", string(e.state))
	}
	e.state = StateSaving
	draft := e.draft
	e.mu.Unlock()

	if err := e.repo.UpsertProfile(ctx, draft.Profile); err != nil {
		e.logger.Error("Profile save failed, aborting", zap.Error(err))
		e.failSave()
		return err
	}

	if err := e.repo.ReplaceSkills(ctx, draft.Skills); err != nil {
		e.logger.Error("Skills save failed after profile was persisted", zap.Error(err))
		e.failSave()
		return err
	}

	if err := e.repo.ReplaceProjects(ctx, draft.Projects); err != nil {
		e.logger.Error("Projects save failed after profile and skills were persisted", zap.Error(err))
		e.failSave()
		return err
	}

	e.store.Replace(draft)

	e.mu.Lock()
	e.draft = nil
	e.state = StateClosed
	e.mu.Unlock()

	e.logger.Info("Content saved",
		zap.Int("skills", len(draft.Skills)),
		zap.Int("projects", len(draft.Projects)),
	)
	return nil
}

// failSave returns to editing so the owner can retry or cancel.
func (e *Editor) failSave() {
	e.mu.Lock()
	e.state = StateEditing
	e.mu.Unlock()
}

// SplitTags turns a comma-delimited label string into an ordered tag list,
// dropping empty entries.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
