package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/models"
)

var testUser = models.SessionUser{UID: "u1", Email: "a@b.test", DisplayName: "Ada"}

func newTestIssuer(at *time.Time) *Issuer {
	i := NewIssuer("test-secret")
	i.now = func() time.Time { return *at }
	return i
}

func TestIssuer_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	i := newTestIssuer(&now)

	tok, err := i.Issue(testUser)
	require.NoError(t, err)

	got, err := i.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, testUser, *got)
}

func TestIssuer_ValidityWindow(t *testing.T) {
	issued := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	now := issued
	i := newTestIssuer(&now)

	tok, err := i.Issue(testUser)
	require.NoError(t, err)

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"at issuance", issued, true},
		{"one hour later", issued.Add(time.Hour), true},
		{"one second before expiry", issued.Add(TTL - time.Second), true},
		{"exactly at expiry", issued.Add(TTL), false},
		{"after expiry", issued.Add(TTL + time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = tt.at
			_, err := i.Verify(tok)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrAuthInvalid))
		})
	}
}

func TestIssuer_RejectsForeignSignature(t *testing.T) {
	now := time.Now()
	tok, err := newTestIssuer(&now).Issue(testUser)
	require.NoError(t, err)

	other := NewIssuer("another-secret")
	_, err = other.Verify(tok)
	assert.True(t, errors.Is(err, core.ErrAuthInvalid))
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UID:              "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("test-secret").Verify(tok)
	assert.True(t, errors.Is(err, core.ErrAuthInvalid))
}

func TestIssuer_RejectsMissingUIDAndGarbage(t *testing.T) {
	i := NewIssuer("test-secret")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = i.Verify(tok)
	assert.True(t, errors.Is(err, core.ErrAuthInvalid))

	_, err = i.Verify("not.a.jwt")
	assert.True(t, errors.Is(err, core.ErrAuthInvalid))

	_, err = i.Verify("")
	assert.True(t, errors.Is(err, core.ErrAuthRequired))
}
