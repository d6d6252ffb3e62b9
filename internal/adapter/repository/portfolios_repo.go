package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"portfolio-editor/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var (
	ErrNotFound  = errors.New("repository: not found")
	ErrSlugTaken = errors.New("repository: slug already in use")
)

// PortfoliosRepo persists resume documents and portfolio drafts. With a nil
// pool it falls back to process-local maps so the whole flow works without a
// database in development.
type PortfoliosRepo struct {
	pool *pgxpool.Pool

	mu         sync.RWMutex
	resumes    map[uuid.UUID]*domain.ResumeDocument
	portfolios map[uuid.UUID]*domain.PortfolioDraft
}

func NewPortfoliosRepo(pool *pgxpool.Pool) *PortfoliosRepo {
	return &PortfoliosRepo{
		pool:       pool,
		resumes:    map[uuid.UUID]*domain.ResumeDocument{},
		portfolios: map[uuid.UUID]*domain.PortfolioDraft{},
	}
}

func (r *PortfoliosRepo) SaveResume(ctx context.Context, doc *domain.ResumeDocument) error {
	if r.pool == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		clone := *doc
		r.resumes[doc.ID] = &clone
		return nil
	}

	parsed, err := json.Marshal(doc.Parsed)
	if err != nil {
		return fmt.Errorf("repository: marshal parsed resume: %w", err)
	}
	normalized, err := json.Marshal(doc.Normalized)
	if err != nil {
		return fmt.Errorf("repository: marshal normalized resume: %w", err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO resume_documents (id, filename, raw_text, parsed, normalized, job_description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET filename = EXCLUDED.filename, raw_text = EXCLUDED.raw_text, parsed = EXCLUDED.parsed, normalized = EXCLUDED.normalized, job_description = EXCLUDED.job_description, updated_at = EXCLUDED.updated_at`,
		doc.ID, doc.Filename, doc.RawText, parsed, normalized, doc.JobDescription, doc.CreatedAt, doc.UpdatedAt)
	return err
}

func (r *PortfoliosRepo) GetResume(ctx context.Context, id uuid.UUID) (*domain.ResumeDocument, error) {
	if r.pool == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		doc, ok := r.resumes[id]
		if !ok {
			return nil, ErrNotFound
		}
		clone := *doc
		return &clone, nil
	}

	doc := &domain.ResumeDocument{}
	var parsed, normalized []byte
	err := r.pool.QueryRow(ctx, `SELECT id, filename, raw_text, parsed, normalized, job_description, created_at, updated_at
		FROM resume_documents WHERE id = $1`, id).
		Scan(&doc.ID, &doc.Filename, &doc.RawText, &parsed, &normalized, &doc.JobDescription, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(parsed) > 0 {
		if err := json.Unmarshal(parsed, &doc.Parsed); err != nil {
			return nil, fmt.Errorf("repository: corrupt parsed resume %s: %w", id, err)
		}
	}
	if len(normalized) > 0 {
		if err := json.Unmarshal(normalized, &doc.Normalized); err != nil {
			return nil, fmt.Errorf("repository: corrupt normalized resume %s: %w", id, err)
		}
	}
	return doc, nil
}

// SavePortfolio upserts a draft. The slug uniqueness check runs first so a
// conflicting save surfaces ErrSlugTaken instead of a constraint violation.
func (r *PortfoliosRepo) SavePortfolio(ctx context.Context, draft *domain.PortfolioDraft) error {
	if draft.Slug != "" {
		taken, err := r.SlugInUse(ctx, draft.Slug, draft.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlugTaken
		}
	}

	if r.pool == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		clone := *draft
		r.portfolios[draft.ID] = &clone
		return nil
	}

	data, err := json.Marshal(draft.Data)
	if err != nil {
		return fmt.Errorf("repository: marshal portfolio data: %w", err)
	}
	var slug interface{}
	if draft.Slug != "" {
		slug = draft.Slug
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO portfolio_drafts (id, resume_id, data, slug, status, visibility, published_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET resume_id = EXCLUDED.resume_id, data = EXCLUDED.data, slug = EXCLUDED.slug, status = EXCLUDED.status, visibility = EXCLUDED.visibility, published_at = EXCLUDED.published_at, updated_at = EXCLUDED.updated_at`,
		draft.ID, draft.ResumeID, data, slug, draft.Status, draft.Visibility, draft.PublishedAt, draft.CreatedAt, draft.UpdatedAt)
	return err
}

func (r *PortfoliosRepo) GetPortfolio(ctx context.Context, id uuid.UUID) (*domain.PortfolioDraft, error) {
	if r.pool == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		draft, ok := r.portfolios[id]
		if !ok {
			return nil, ErrNotFound
		}
		clone := *draft
		return &clone, nil
	}
	return r.queryDraft(ctx, `SELECT id, resume_id, data, slug, status, visibility, published_at, created_at, updated_at
		FROM portfolio_drafts WHERE id = $1`, id)
}

// SlugInUse reports whether another draft already owns the slug.
func (r *PortfoliosRepo) SlugInUse(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	if r.pool == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		for id, draft := range r.portfolios {
			if draft.Slug == slug && id != excludeID {
				return true, nil
			}
		}
		return false, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM portfolio_drafts WHERE slug = $1 AND id <> $2`, slug, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetBySlug resolves the public page: published drafts that are not private.
func (r *PortfoliosRepo) GetBySlug(ctx context.Context, slug string) (*domain.PortfolioDraft, error) {
	if r.pool == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		for _, draft := range r.portfolios {
			if draft.Slug == slug && draft.Status == "published" && draft.Visibility != "private" {
				clone := *draft
				return &clone, nil
			}
		}
		return nil, ErrNotFound
	}
	return r.queryDraft(ctx, `SELECT id, resume_id, data, slug, status, visibility, published_at, created_at, updated_at
		FROM portfolio_drafts WHERE slug = $1 AND status = 'published' AND visibility <> 'private'`, slug)
}

// GetPreview resolves the pre-publish preview: slug and id must both match,
// so guessing a slug is not enough to see an unpublished draft.
func (r *PortfoliosRepo) GetPreview(ctx context.Context, slug string, id uuid.UUID) (*domain.PortfolioDraft, error) {
	if r.pool == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		draft, ok := r.portfolios[id]
		if !ok || draft.Slug != slug {
			return nil, ErrNotFound
		}
		clone := *draft
		return &clone, nil
	}
	return r.queryDraft(ctx, `SELECT id, resume_id, data, slug, status, visibility, published_at, created_at, updated_at
		FROM portfolio_drafts WHERE slug = $1 AND id = $2`, slug, id)
}

func (r *PortfoliosRepo) queryDraft(ctx context.Context, query string, args ...interface{}) (*domain.PortfolioDraft, error) {
	draft := &domain.PortfolioDraft{}
	var data []byte
	var slug *string
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&draft.ID, &draft.ResumeID, &data, &slug, &draft.Status, &draft.Visibility, &draft.PublishedAt, &draft.CreatedAt, &draft.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if slug != nil {
		draft.Slug = *slug
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &draft.Data); err != nil {
			return nil, fmt.Errorf("repository: corrupt portfolio data %s: %w", draft.ID, err)
		}
	}
	return draft, nil
}
