package content

import (
	"context"

	"github.com/shohruz/portfolio-backend-go/internal/domain"
)

// Repository is the collaborator interface to the persistent content store.
// Reads return (nil, nil) / (empty, nil) for absent data; only transport or
// query failures produce errors.
type Repository interface {
	// GetProfile looks up the singleton profile by its fixed key.
	GetProfile(ctx context.Context) (*domain.Profile, error)
	// ListSkills returns all skills in display order.
	ListSkills(ctx context.Context) ([]domain.Skill, error)
	// ListProjects returns all projects in display order.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// UpsertProfile replaces every field of the singleton profile record.
	UpsertProfile(ctx context.Context, profile domain.Profile) error
	// ReplaceSkills deletes all skill rows, then bulk-inserts the given list.
	// The two steps are not atomic with each other.
	ReplaceSkills(ctx context.Context, skills []domain.Skill) error
	// ReplaceProjects deletes all project rows, then bulk-inserts the given
	// list. The two steps are not atomic with each other.
	ReplaceProjects(ctx context.Context, projects []domain.Project) error
}
