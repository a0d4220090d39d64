package content

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/domain"
)

// Loader assembles the authoritative content snapshot at startup (and on
// manual reload). The three collection reads run concurrently; the loader
// waits for all of them and tolerates any subset failing. A failed or empty
// read substitutes the default bundle for that collection, so the returned
// snapshot is always fully populated.
type Loader struct {
	repo   Repository
	logger *zap.Logger
}

// NewLoader creates a loader. repo may be nil when the content store could
// not be constructed at all; Load then reports a total failure and serves the
// default bundle.
func NewLoader(repo Repository, logger *zap.Logger) *Loader {
	return &Loader{
		repo:   repo,
		logger: logger,
	}
}

func (l *Loader) Load(ctx context.Context) (*domain.Snapshot, *domain.LoadResult) {
	snapshot := DefaultSnapshot()

	if l.repo == nil {
		l.logger.Warn("Content repository unavailable, serving default bundle")
		return snapshot, &domain.LoadResult{Outcome: domain.OutcomeTotalFailure}
	}

	var (
		profile     *domain.Profile
		profileErr  error
		skills      []domain.Skill
		skillsErr   error
		projects    []domain.Project
		projectsErr error
	)

	p := pool.New().WithMaxGoroutines(3)
	p.Go(func() {
		profile, profileErr = l.repo.GetProfile(ctx)
	})
	p.Go(func() {
		skills, skillsErr = l.repo.ListSkills(ctx)
	})
	p.Go(func() {
		projects, projectsErr = l.repo.ListProjects(ctx)
	})
	p.Wait()

	failures := make(map[string]string)

	switch {
	case profileErr != nil:
		failures["profile"] = profileErr.Error()
		l.logger.Warn("Profile read failed, using default", zap.Error(profileErr))
	case profile != nil:
		snapshot.Profile = *profile
		// Socials may legitimately be empty, but a profile needs an image;
		// a missing image_url keeps the bundle one.
		if snapshot.Profile.Image == "" {
			snapshot.Profile.Image = defaultProfile.Image
		}
	}

	switch {
	case skillsErr != nil:
		failures["skills"] = skillsErr.Error()
		l.logger.Warn("Skills read failed, using defaults", zap.Error(skillsErr))
	case len(skills) > 0:
		snapshot.Skills = skills
	}

	switch {
	case projectsErr != nil:
		failures["projects"] = projectsErr.Error()
		l.logger.Warn("Projects read failed, using defaults", zap.Error(projectsErr))
	case len(projects) > 0:
		snapshot.Projects = projects
	}

	result := &domain.LoadResult{Outcome: domain.OutcomeSuccess}
	if len(failures) > 0 {
		result.Outcome = domain.OutcomePartial
		result.Failures = failures
	}

	l.logger.Info("Content loaded",
		zap.String("outcome", result.String()),
		zap.Int("skills", len(snapshot.Skills)),
		zap.Int("projects", len(snapshot.Projects)),
	)

	return snapshot, result
}
