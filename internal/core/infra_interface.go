package core

import (
	"context"

	"github.com/markdave123-py/covidsearch/internal/models"
)

// DocumentStore is the read-only article collection behind Atlas Search.
type DocumentStore interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error)
	Facets(ctx context.Context) (*models.Facets, error)
	// GetDocument returns (nil, nil) when nothing matches.
	GetDocument(ctx context.Context, id string) (*models.Document, error)
}

// IdentityVerifier exchanges an identity-provider token for verified claims.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*models.Identity, error)
}

// ProfileStore persists user profiles keyed by uid.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, profile *models.UserProfile) error
	// GetProfile returns (nil, nil) when the profile does not exist.
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
}

// HistoryStore is the append-only per-user search history.
type HistoryStore interface {
	AddSearch(ctx context.Context, uid, query string) error
	// ListSearches returns at most limit entries, newest first.
	ListSearches(ctx context.Context, uid string, limit int) ([]models.SearchHistoryEntry, error)
}

// FacetCache holds a recently computed facet aggregation.
type FacetCache interface {
	// Get reports false on a miss.
	Get(ctx context.Context) (*models.Facets, bool, error)
	Set(ctx context.Context, facets *models.Facets) error
}
