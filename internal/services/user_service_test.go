package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/core/session"
	"github.com/markdave123-py/covidsearch/internal/models"
)

func newAuthService(profiles *fakeProfiles) *AuthService {
	verifier := &fakeVerifier{identities: map[string]*models.Identity{
		"good-token": {UID: "u1", Email: "a@b.test", Name: "Token Name"},
		"no-subject": {Email: "x@b.test"},
	}}
	return NewAuthService(verifier, profiles, session.NewIssuer("secret"), zap.NewNop())
}

func TestRegister(t *testing.T) {
	profiles := &fakeProfiles{}
	svc := newAuthService(profiles)

	res, err := svc.Register(context.Background(), "good-token", "Ada")
	require.NoError(t, err)
	assert.Equal(t, models.SessionUser{UID: "u1", Email: "a@b.test", DisplayName: "Ada"}, res.User)
	assert.NotEmpty(t, res.Token)

	stored := profiles.profiles["u1"]
	require.NotNil(t, stored)
	assert.Equal(t, "Ada", stored.DisplayName)
	assert.False(t, stored.CreatedAt.IsZero())

	user, err := svc.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User, *user)
}

func TestRegister_FallsBackToTokenName(t *testing.T) {
	svc := newAuthService(&fakeProfiles{})
	res, err := svc.Register(context.Background(), "good-token", "  ")
	require.NoError(t, err)
	assert.Equal(t, "Token Name", res.User.DisplayName)
}

func TestRegister_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := newAuthService(&fakeProfiles{}).Register(ctx, "", "")
	assert.True(t, errors.Is(err, core.ErrAuthRequired))

	_, err = newAuthService(&fakeProfiles{}).Register(ctx, "forged", "")
	assert.True(t, errors.Is(err, core.ErrAuthInvalid))

	_, err = newAuthService(&fakeProfiles{}).Register(ctx, "no-subject", "")
	assert.True(t, errors.Is(err, core.ErrAuthInvalid))

	_, err = newAuthService(&fakeProfiles{err: errBoom}).Register(ctx, "good-token", "")
	assert.True(t, errors.Is(err, core.ErrUpstream))
}

func TestLogin_UsesStoredDisplayName(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.UserProfile{
		"u1": {UID: "u1", Email: "a@b.test", DisplayName: "Stored Name"},
	}}
	res, err := newAuthService(profiles).Login(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "Stored Name", res.User.DisplayName)
}

func TestLogin_WithoutProfile(t *testing.T) {
	profiles := &fakeProfiles{}
	res, err := newAuthService(profiles).Login(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "Token Name", res.User.DisplayName)
	assert.Empty(t, profiles.profiles, "login must not write a profile")
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := newAuthService(&fakeProfiles{}).Login(ctx, "")
	assert.True(t, errors.Is(err, core.ErrAuthRequired))

	_, err = newAuthService(&fakeProfiles{}).Login(ctx, "forged")
	assert.True(t, errors.Is(err, core.ErrAuthInvalid))

	_, err = newAuthService(&fakeProfiles{err: errBoom}).Login(ctx, "good-token")
	assert.True(t, errors.Is(err, core.ErrUpstream))
}

func TestVerify_Rejects(t *testing.T) {
	svc := newAuthService(&fakeProfiles{})
	_, err := svc.Verify("garbage")
	assert.True(t, errors.Is(err, core.ErrAuthInvalid))
}
