package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"heraldbot/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Postgres keeps posted URLs in a shared table keyed by (platform, url),
// for deployments where the ledger file would not survive the host.
//
//	CREATE TABLE posted_urls (
//	    platform  TEXT NOT NULL,
//	    url       TEXT NOT NULL,
//	    posted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    PRIMARY KEY (platform, url)
//	);
type Postgres struct {
	db       *sql.DB
	platform string
}

var _ ports.Ledger = (*Postgres)(nil)

// OpenPostgres connects the shared database handle for ledger use.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	return db, nil
}

// NewPostgres scopes the shared handle to one platform's ledger.
func NewPostgres(db *sql.DB, platform string) *Postgres {
	return &Postgres{db: db, platform: platform}
}

// Contains reports whether the URL was ever announced on this platform.
func (p *Postgres) Contains(ctx context.Context, url string) (bool, error) {
	query, args, err := psql.
		Select("1").
		From("posted_urls").
		Where(sq.Eq{"platform": p.platform, "url": url}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build contains query: %w", err)
	}

	var one int
	err = p.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query ledger: %w", err)
	}
	return true, nil
}

// Append records the URL; a retried append is a no-op.
func (p *Postgres) Append(ctx context.Context, url string) error {
	query, args, err := psql.
		Insert("posted_urls").
		Columns("platform", "url").
		Values(p.platform, url).
		Suffix("ON CONFLICT (platform, url) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build append query: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	return nil
}
