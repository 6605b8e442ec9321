package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/core/session"
	"github.com/markdave123-py/covidsearch/internal/models"
)

// AuthService exchanges identity-provider tokens for session credentials.
type AuthService struct {
	verifier core.IdentityVerifier
	profiles core.ProfileStore
	issuer   *session.Issuer
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(verifier core.IdentityVerifier, profiles core.ProfileStore, issuer *session.Issuer, log *zap.Logger) *AuthService {
	return &AuthService{
		verifier: verifier,
		profiles: profiles,
		issuer:   issuer,
		log:      log.Named("auth"),
		now:      time.Now,
	}
}

// Register verifies the identity token, upserts the profile and issues a
// session credential. displayName falls back to the token's name claim.
func (s *AuthService) Register(ctx context.Context, idToken, displayName string) (*models.AuthResult, error) {
	id, err := s.verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = id.Name
	}

	profile := &models.UserProfile{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: name,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrUpstream, err)
	}

	s.log.Info("user registered", zap.String("uid", id.UID))
	return s.issue(models.SessionUser{UID: id.UID, Email: id.Email, DisplayName: name})
}

// Login verifies the identity token and enriches the credential with the
// stored display name. A missing profile is not an error.
func (s *AuthService) Login(ctx context.Context, idToken string) (*models.AuthResult, error) {
	id, err := s.verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetProfile(ctx, id.UID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrUpstream, err)
	}

	name := id.Name
	if profile != nil && profile.DisplayName != "" {
		name = profile.DisplayName
	}
	return s.issue(models.SessionUser{UID: id.UID, Email: id.Email, DisplayName: name})
}

// Verify validates a session credential.
func (s *AuthService) Verify(token string) (*models.SessionUser, error) {
	return s.issuer.Verify(token)
}

func (s *AuthService) verify(ctx context.Context, idToken string) (*models.Identity, error) {
	if idToken == "" {
		return nil, core.ErrAuthRequired
	}
	id, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if id.UID == "" {
		return nil, fmt.Errorf("%w: token without subject", core.ErrAuthInvalid)
	}
	return id, nil
}

func (s *AuthService) issue(user models.SessionUser) (*models.AuthResult, error) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: token, User: user}, nil
}
