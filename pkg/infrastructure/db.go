package infrastructure

import (
	"context"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPortfolioPool connects to the portfolio database. An unset
// PORTFOLIO_DATABASE_URL returns a nil pool; the repository layer then
// keeps drafts in process-local memory, which is the development mode.
func NewPortfolioPool(ctx context.Context) (*pgxpool.Pool, error) {
	dsn := os.Getenv("PORTFOLIO_DATABASE_URL")
	if dsn == "" {
		return nil, nil
	}
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return pool, nil
}
