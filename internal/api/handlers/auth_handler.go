package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	middleware "github.com/markdave123-py/covidsearch/internal/api/middlewares"
	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/models"
)

// Authenticator is the auth flow behind the /api/auth routes.
type Authenticator interface {
	Register(ctx context.Context, idToken, displayName string) (*models.AuthResult, error)
	Login(ctx context.Context, idToken string) (*models.AuthResult, error)
	Verify(token string) (*models.SessionUser, error)
}

type AuthHandler struct {
	auth Authenticator
	log  *zap.Logger
}

func NewAuthHandler(auth Authenticator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log.Named("auth_handler")}
}

type registerRequest struct {
	DisplayName string `json:"displayName"`
}

type verifyResponse struct {
	Valid bool                `json:"valid"`
	User  *models.SessionUser `json:"user,omitempty"`
}

// Register exchanges a Firebase ID token for a session credential and
// creates or refreshes the user's profile.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	idToken := middleware.BearerToken(r)
	if idToken == "" {
		writeError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	res, err := h.auth.Register(r.Context(), idToken, req.DisplayName)
	if err != nil {
		h.log.Warn("firebase register failed", zap.Error(err))
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrAuthRequired) {
			status = http.StatusUnauthorized
		}
		writeError(w, status, "registration failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Login exchanges a Firebase ID token for a session credential.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	idToken := middleware.BearerToken(r)
	if idToken == "" {
		writeError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	res, err := h.auth.Login(r.Context(), idToken)
	if err != nil {
		h.log.Warn("firebase login failed", zap.Error(err))
		writeError(w, http.StatusUnauthorized, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Verify(middleware.BearerToken(r))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, verifyResponse{Valid: false})
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Valid: true, User: user})
}
