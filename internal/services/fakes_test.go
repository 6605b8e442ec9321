package services

import (
	"context"
	"errors"
	"sync"

	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/models"
)

var errBoom = errors.New("boom")

type fakeStore struct {
	mu          sync.Mutex
	searchReqs  []models.SearchRequest
	searchErr   error
	facetCalls  int
	facetErr    error
	facets      *models.Facets
	docs        map[string]*models.Document
	result      *models.SearchResult
	facetsBlock chan struct{}
}

var _ core.DocumentStore = (*fakeStore)(nil)

func (f *fakeStore) Search(_ context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchReqs = append(f.searchReqs, req)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &models.SearchResult{Results: []models.Document{}, Pagination: models.Pagination{Page: req.Page, Limit: req.Limit}}, nil
}

func (f *fakeStore) Facets(ctx context.Context) (*models.Facets, error) {
	if f.facetsBlock != nil {
		select {
		case <-f.facetsBlock:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.facetCalls++
	if f.facetErr != nil {
		return nil, f.facetErr
	}
	return f.facets, nil
}

func (f *fakeStore) GetDocument(_ context.Context, id string) (*models.Document, error) {
	if id == "explode" {
		return nil, errBoom
	}
	return f.docs[id], nil
}

type fakeHistory struct {
	mu      sync.Mutex
	added   []models.SearchHistoryEntry
	addErr  error
	listErr error
	lastLim int
}

var _ core.HistoryStore = (*fakeHistory)(nil)

func (f *fakeHistory) AddSearch(_ context.Context, uid, query string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, models.SearchHistoryEntry{UID: uid, Query: query})
	return nil
}

func (f *fakeHistory) ListSearches(_ context.Context, uid string, limit int) ([]models.SearchHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLim = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.SearchHistoryEntry
	for i := len(f.added) - 1; i >= 0 && len(out) < limit; i-- {
		if f.added[i].UID == uid {
			out = append(out, f.added[i])
		}
	}
	return out, nil
}

type fakeCache struct {
	facets *models.Facets
	getErr error
	sets   int
}

func (c *fakeCache) Get(context.Context) (*models.Facets, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.facets, c.facets != nil, nil
}

func (c *fakeCache) Set(_ context.Context, f *models.Facets) error {
	c.sets++
	c.facets = f
	return nil
}

type fakeVerifier struct {
	identities map[string]*models.Identity
}

func (v *fakeVerifier) VerifyIDToken(_ context.Context, tok string) (*models.Identity, error) {
	id, ok := v.identities[tok]
	if !ok {
		return nil, core.ErrAuthInvalid
	}
	return id, nil
}

type fakeProfiles struct {
	profiles map[string]*models.UserProfile
	err      error
}

func (p *fakeProfiles) UpsertProfile(_ context.Context, profile *models.UserProfile) error {
	if p.err != nil {
		return p.err
	}
	if p.profiles == nil {
		p.profiles = map[string]*models.UserProfile{}
	}
	cp := *profile
	p.profiles[profile.UID] = &cp
	return nil
}

func (p *fakeProfiles) GetProfile(_ context.Context, uid string) (*models.UserProfile, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.profiles[uid], nil
}
