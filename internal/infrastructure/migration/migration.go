package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	migrations := []Migration{
		{
			Name: "create_resume_documents",
			Up:   createResumeDocuments,
		},
		{
			Name: "create_portfolio_drafts",
			Up:   createPortfolioDrafts,
		},
		{
			Name: "index_portfolio_drafts_slug",
			Up:   indexPortfolioDraftsSlug,
		},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func createResumeDocuments(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS resume_documents (
			id UUID PRIMARY KEY,
			filename TEXT NOT NULL DEFAULT '',
			raw_text TEXT NOT NULL DEFAULT '',
			parsed JSONB NOT NULL DEFAULT '{}'::jsonb,
			normalized JSONB NOT NULL DEFAULT '{}'::jsonb,
			job_description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

func createPortfolioDrafts(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS portfolio_drafts (
			id UUID PRIMARY KEY,
			resume_id UUID REFERENCES resume_documents(id),
			data JSONB NOT NULL DEFAULT '{}'::jsonb,
			slug TEXT,
			status TEXT NOT NULL DEFAULT 'draft',
			visibility TEXT NOT NULL DEFAULT 'private',
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

func indexPortfolioDraftsSlug(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE UNIQUE INDEX IF NOT EXISTS portfolio_drafts_slug_idx
		ON portfolio_drafts (slug) WHERE slug IS NOT NULL;
	`
	if _, err := pool.Exec(ctx, query); err != nil {
		// Log the error but don't fail - the index may already exist
		slog.Warn("Error creating slug index (may already exist)", "error", err)
		return nil
	}
	return nil
}
