// Command seed creates the content schema and populates it from the default
// bundle. Safe to re-run: the schema is created if missing and seeding is
// skipped when any collection already holds data (use -force to overwrite).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/config"
	"github.com/shohruz/portfolio-backend-go/internal/service/content"
	"github.com/shohruz/portfolio-backend-go/internal/service/database"
	"github.com/shohruz/portfolio-backend-go/internal/util"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id           UUID PRIMARY KEY,
	name         TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL DEFAULT '',
	bio          TEXT NOT NULL DEFAULT '',
	location     TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	image_url    TEXT,
	github_url   TEXT,
	linkedin_url TEXT,
	telegram_url TEXT
);

CREATE TABLE IF NOT EXISTS skills (
	id    BIGSERIAL PRIMARY KEY,
	name  TEXT NOT NULL DEFAULT '',
	level INTEGER NOT NULL DEFAULT 0,
	icon  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS projects (
	id          BIGSERIAL PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	image_url   TEXT,
	tags        TEXT[] NOT NULL DEFAULT '{}',
	link        TEXT
);
`

func main() {
	force := flag.Bool("force", false, "overwrite existing content with the default bundle")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !cfg.Postgres.Enabled() {
		logger.Fatal("POSTGRES_HOST and POSTGRES_DB must be set to seed the database")
	}

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer postgresSvc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := postgresSvc.GetDB().ExecContext(ctx, schema); err != nil {
		logger.Fatal("Failed to create schema", zap.Error(err))
	}
	logger.Info("Schema ready")

	repo := content.NewPostgresRepository(postgresSvc, logger)

	if !*force {
		profile, err := repo.GetProfile(ctx)
		if err != nil {
			logger.Fatal("Failed to inspect existing content", zap.Error(err))
		}
		if profile != nil {
			logger.Info("Content already present, skipping seed (use -force to overwrite)")
			return
		}
	}

	bundle := content.DefaultSnapshot()

	if err := repo.UpsertProfile(ctx, bundle.Profile); err != nil {
		logger.Fatal("Failed to seed profile", zap.Error(err))
	}
	if err := repo.ReplaceSkills(ctx, bundle.Skills); err != nil {
		logger.Fatal("Failed to seed skills", zap.Error(err))
	}
	if err := repo.ReplaceProjects(ctx, bundle.Projects); err != nil {
		logger.Fatal("Failed to seed projects", zap.Error(err))
	}

	logger.Info("Default bundle seeded",
		zap.Int("skills", len(bundle.Skills)),
		zap.Int("projects", len(bundle.Projects)),
	)
}
