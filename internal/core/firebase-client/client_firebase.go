package firebaseclient

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/markdave123-py/covidsearch/internal/config"
	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/models"
)

const (
	usersCollection         = "users"
	searchHistoryCollection = "searchHistory"
)

// Client wraps the Firebase Admin SDK: Auth for token verification and
// Firestore for profiles and search history.
type Client struct {
	auth *auth.Client
	fs   *firestore.Client
	log  *zap.Logger
}

var (
	_ core.IdentityVerifier = (*Client)(nil)
	_ core.ProfileStore     = (*Client)(nil)
	_ core.HistoryStore     = (*Client)(nil)
)

// NewClient initialises the Firebase app. Without a credentials file the SDK
// falls back to Application Default Credentials.
func NewClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Client, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	var fbCfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore: %w", err)
	}

	log.Info("Firebase client initialized", zap.String("project_id", cfg.FirebaseProjectID))
	return &Client{auth: authClient, fs: fs, log: log.Named("firebase")}, nil
}

func (c *Client) Close() error {
	if c.fs != nil {
		return c.fs.Close()
	}
	return nil
}

// VerifyIDToken checks signature, audience and expiry of a Firebase ID token.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (*models.Identity, error) {
	tok, err := c.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrAuthInvalid, err)
	}
	return identityFromToken(tok), nil
}

func identityFromToken(tok *auth.Token) *models.Identity {
	id := &models.Identity{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		id.Name = name
	}
	return id
}
