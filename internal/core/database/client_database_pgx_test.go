package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/covidsearch/internal/config"
	"github.com/markdave123-py/covidsearch/internal/models"
)

func newTestClient(t *testing.T) *DatabaseClient {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_URL")
	if dsn == "" {
		t.Skip("Skipping Postgres tests: POSTGRES_TEST_URL not set")
	}
	c, err := NewDatabaseClient(context.Background(), &config.Config{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewDatabaseClient_RequiresDSN(t *testing.T) {
	_, err := NewDatabaseClient(context.Background(), &config.Config{})
	assert.ErrorContains(t, err, "DATABASE_URL")

	_, err = NewDatabaseClient(context.Background(), nil)
	assert.Error(t, err)
}

func TestBootstrapScriptEmbedded(t *testing.T) {
	b, err := bootstrapFS.ReadFile("scripts/initdb.sql")
	require.NoError(t, err)
	assert.Contains(t, string(b), "CREATE TABLE IF NOT EXISTS search_history")
}

func TestEnsureBootstrapped_Idempotent(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, EnsureBootstrapped(ctx, c.db))
	require.NoError(t, EnsureBootstrapped(ctx, c.db))

	var versions int
	require.NoError(t, c.db.QueryRowContext(ctx, `SELECT count(*) FROM covidsearch_meta`).Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestDatabaseClient_Profiles(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	uid := "pg-" + time.Now().Format("150405.000000")

	missing, err := c.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, c.UpsertProfile(ctx, &models.UserProfile{UID: uid, Email: "a@b.test", DisplayName: "Ada"}))
	require.NoError(t, c.UpsertProfile(ctx, &models.UserProfile{UID: uid, Email: "a@b.test", DisplayName: "Ada L"}))

	p, err := c.GetProfile(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ada L", p.DisplayName)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestDatabaseClient_History(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	uid := "pg-hist-" + time.Now().Format("150405.000000")

	for _, q := range []string{"one", "two", "three"} {
		require.NoError(t, c.AddSearch(ctx, uid, q))
		time.Sleep(2 * time.Millisecond)
	}

	got, err := c.ListSearches(ctx, uid, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "three", got[0].Query)
	assert.Equal(t, "two", got[1].Query)
	assert.Equal(t, uid, got[0].UID)
}
