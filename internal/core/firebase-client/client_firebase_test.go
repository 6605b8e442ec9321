package firebaseclient

import (
	"context"
	"os"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markdave123-py/covidsearch/internal/config"
	"github.com/markdave123-py/covidsearch/internal/models"
)

func TestIdentityFromToken(t *testing.T) {
	id := identityFromToken(&auth.Token{
		UID:    "u1",
		Claims: map[string]interface{}{"email": "a@b.test", "name": "Ada"},
	})
	assert.Equal(t, &models.Identity{UID: "u1", Email: "a@b.test", Name: "Ada"}, id)

	id = identityFromToken(&auth.Token{UID: "u2", Claims: map[string]interface{}{"email": 42}})
	assert.Equal(t, &models.Identity{UID: "u2"}, id)
}

func TestProfileFromData(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	p := profileFromData("u1", map[string]interface{}{
		"email":       "a@b.test",
		"displayName": "Ada",
		"createdAt":   created,
	})
	assert.Equal(t, &models.UserProfile{UID: "u1", Email: "a@b.test", DisplayName: "Ada", CreatedAt: created}, p)

	p = profileFromData("u1", map[string]interface{}{"createdAt": "2025-03-01T12:00:00.000Z"})
	assert.True(t, created.Equal(p.CreatedAt))

	p = profileFromData("u1", map[string]interface{}{"createdAt": "yesterday"})
	assert.True(t, p.CreatedAt.IsZero())
}

// The emulator test runs only when FIRESTORE_EMULATOR_HOST points at a
// running Firestore emulator.
func TestClient_HistoryAgainstEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("Skipping Firestore tests: FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	c, err := NewClient(ctx, &config.Config{FirebaseProjectID: "covidsearch-test"}, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	uid := "history-" + time.Now().Format("150405.000000")
	for _, q := range []string{"first", "second", "third"} {
		require.NoError(t, c.AddSearch(ctx, uid, q))
		time.Sleep(5 * time.Millisecond)
	}

	got, err := c.ListSearches(ctx, uid, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].Query)
	assert.Equal(t, "second", got[1].Query)
	assert.NotEmpty(t, got[0].ID)

	require.NoError(t, c.UpsertProfile(ctx, &models.UserProfile{UID: uid, Email: "a@b.test", DisplayName: "Ada"}))
	p, err := c.GetProfile(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ada", p.DisplayName)

	missing, err := c.GetProfile(ctx, uid+"-none")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
