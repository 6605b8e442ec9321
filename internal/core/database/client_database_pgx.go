package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/covidsearch/internal/config"
	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/models"
)

// DatabaseClient stores profiles and search history in Postgres. It is the
// self-hosted alternative to Firestore, selected with HISTORY_BACKEND=postgres.
type DatabaseClient struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ core.ProfileStore = (*DatabaseClient)(nil)
	_ core.HistoryStore = (*DatabaseClient)(nil)
)

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db, now: time.Now}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	if p == nil || p.UID == "" {
		return errors.New("profile without uid")
	}
	const q = `
		INSERT INTO user_profiles (uid, email, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (uid) DO UPDATE
		SET email = EXCLUDED.email,
		    display_name = EXCLUDED.display_name,
		    updated_at = now()
	`
	created := p.CreatedAt
	if created.IsZero() {
		created = c.now()
	}
	if _, err := c.db.ExecContext(ctx, q, p.UID, p.Email, p.DisplayName, created); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.UID, err)
	}
	return nil
}

func (c *DatabaseClient) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	const q = `
		SELECT uid, email, display_name, created_at
		FROM user_profiles WHERE uid = $1
	`
	var p models.UserProfile
	err := c.db.QueryRowContext(ctx, q, uid).Scan(&p.UID, &p.Email, &p.DisplayName, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", uid, err)
	}
	return &p, nil
}

func (c *DatabaseClient) AddSearch(ctx context.Context, uid, query string) error {
	const q = `
		INSERT INTO search_history (id, uid, query, created_at)
		VALUES ($1, $2, $3, now())
	`
	if _, err := c.db.ExecContext(ctx, q, uuid.NewString(), uid, query); err != nil {
		return fmt.Errorf("add search history: %w", err)
	}
	return nil
}

func (c *DatabaseClient) ListSearches(ctx context.Context, uid string, limit int) ([]models.SearchHistoryEntry, error) {
	const q = `
		SELECT id, uid, query, created_at
		FROM search_history
		WHERE uid = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := c.db.QueryContext(ctx, q, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	defer rows.Close()

	out := []models.SearchHistoryEntry{}
	for rows.Next() {
		var e models.SearchHistoryEntry
		if err := rows.Scan(&e.ID, &e.UID, &e.Query, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
