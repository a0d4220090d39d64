package content

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/constants"
	"github.com/shohruz/portfolio-backend-go/internal/domain"
	"github.com/shohruz/portfolio-backend-go/internal/service/database"
	"github.com/shohruz/portfolio-backend-go/pkg/errors"
)

// PostgresRepository persists the three content collections. Row scanning
// treats every column as optional and applies defaults at this boundary, so
// the rest of the code only sees fully-formed entities.
type PostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresRepository(postgres *database.PostgresService, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

func (r *PostgresRepository) GetProfile(ctx context.Context) (*domain.Profile, error) {
	query := `
		SELECT name, title, bio, location, email, image_url,
		       github_url, linkedin_url, telegram_url
		FROM profiles
		WHERE id = $1
		LIMIT 1
	`

	var (
		name, title, bio    sql.NullString
		location, email     sql.NullString
		imageURL            sql.NullString
		githubURL, linkedin sql.NullString
		telegramURL         sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, constants.ProfileID).Scan(
		&name, &title, &bio, &location, &email, &imageURL,
		&githubURL, &linkedin, &telegramURL,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewRepositoryError("failed to query profile", "profiles", "get", err)
	}

	profile := &domain.Profile{
		Name:     name.String,
		Title:    title.String,
		Bio:      bio.String,
		Location: location.String,
		Email:    email.String,
		Image:    imageURL.String,
		Socials: domain.Socials{
			GitHub:   githubURL.String,
			LinkedIn: linkedin.String,
			Telegram: telegramURL.String,
		},
	}

	return profile, nil
}

func (r *PostgresRepository) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	query := `
		SELECT name, level, icon
		FROM skills
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewRepositoryError("failed to query skills", "skills", "list", err)
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		var (
			name  sql.NullString
			level sql.NullInt64
			icon  sql.NullString
		)
		if err := rows.Scan(&name, &level, &icon); err != nil {
			r.logger.Warn("Failed to scan skill row", zap.Error(err))
			continue
		}
		skills = append(skills, domain.Skill{
			Name:  name.String,
			Level: int(level.Int64),
			Icon:  icon.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewRepositoryError("failed to iterate skills", "skills", "list", err)
	}

	return skills, nil
}

func (r *PostgresRepository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	query := `
		SELECT id, title, description, image_url, tags, link
		FROM projects
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewRepositoryError("failed to query projects", "projects", "list", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var (
			id          int64
			title       sql.NullString
			description sql.NullString
			imageURL    sql.NullString
			tags        pq.StringArray
			link        sql.NullString
		)
		if err := rows.Scan(&id, &title, &description, &imageURL, &tags, &link); err != nil {
			r.logger.Warn("Failed to scan project row", zap.Error(err))
			continue
		}

		project := domain.Project{
			ID:          id,
			Title:       title.String,
			Description: description.String,
			Image:       imageURL.String,
			Tags:        []string(tags),
			Link:        link.String,
		}
		if project.Tags == nil {
			project.Tags = []string{}
		}

		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewRepositoryError("failed to iterate projects", "projects", "list", err)
	}

	return projects, nil
}

func (r *PostgresRepository) UpsertProfile(ctx context.Context, profile domain.Profile) error {
	query := `
		INSERT INTO profiles (id, name, title, bio, location, email, image_url,
		                      github_url, linkedin_url, telegram_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			bio = EXCLUDED.bio,
			location = EXCLUDED.location,
			email = EXCLUDED.email,
			image_url = EXCLUDED.image_url,
			github_url = EXCLUDED.github_url,
			linkedin_url = EXCLUDED.linkedin_url,
			telegram_url = EXCLUDED.telegram_url
	`

	_, err := r.db.ExecContext(ctx, query,
		constants.ProfileID,
		profile.Name, profile.Title, profile.Bio,
		profile.Location, profile.Email, profile.Image,
		profile.Socials.GitHub, profile.Socials.LinkedIn, profile.Socials.Telegram,
	)
	if err != nil {
		return errors.NewRepositoryError("failed to upsert profile", "profiles", "upsert", err)
	}

	return nil
}

// ReplaceSkills clears the collection, then inserts the new rows one by one.
// Delete and insert are separate statements; a failure between them leaves the
// collection partially written.
func (r *PostgresRepository) ReplaceSkills(ctx context.Context, skills []domain.Skill) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM skills`); err != nil {
		return errors.NewRepositoryError("failed to clear skills", "skills", "delete", err)
	}

	for _, skill := range skills {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO skills (name, level, icon) VALUES ($1, $2, $3)`,
			skill.Name, skill.Level, skill.Icon,
		)
		if err != nil {
			return errors.NewRepositoryError("failed to insert skill", "skills", "insert", err)
		}
	}

	return nil
}

// ReplaceProjects clears the collection, then inserts the new rows. IDs are
// reassigned by the sequence; the drafted in-memory IDs are not persisted.
func (r *PostgresRepository) ReplaceProjects(ctx context.Context, projects []domain.Project) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return errors.NewRepositoryError("failed to clear projects", "projects", "delete", err)
	}

	for _, project := range projects {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO projects (title, description, image_url, tags, link) VALUES ($1, $2, $3, $4, $5)`,
			project.Title, project.Description, project.Image,
			pq.Array(project.Tags), project.Link,
		)
		if err != nil {
			return errors.NewRepositoryError("failed to insert project", "projects", "insert", err)
		}
	}

	return nil
}
