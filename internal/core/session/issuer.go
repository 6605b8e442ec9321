package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/models"
)

// TTL is the fixed lifetime of a session credential. There is no refresh.
const TTL = 24 * time.Hour

type Claims struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 session credentials.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue mints a credential valid for TTL from now.
func (i *Issuer) Issue(user models.SessionUser) (string, error) {
	now := i.now()
	claims := Claims{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify accepts a credential only if the signature matches and now < exp.
func (i *Issuer) Verify(token string) (*models.SessionUser, error) {
	if token == "" {
		return nil, core.ErrAuthRequired
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", core.ErrAuthInvalid)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrAuthInvalid, err)
	}
	if claims.UID == "" {
		return nil, fmt.Errorf("%w: missing uid claim", core.ErrAuthInvalid)
	}

	return &models.SessionUser{
		UID:         claims.UID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}
