package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/metrics"
	"github.com/markdave123-py/covidsearch/internal/models"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100

	facetTimeout = time.Minute
)

type DocumentService struct {
	store          core.DocumentStore
	history        core.HistoryStore
	cache          core.FacetCache
	historyTimeout time.Duration
	log            *zap.Logger
	metrics        *metrics.Metrics

	facetGroup singleflight.Group
	// pending tracks detached history writes so shutdown can drain them.
	pending sync.WaitGroup
}

// NewDocumentService wires the search services. cache may be nil to disable
// facet caching.
func NewDocumentService(store core.DocumentStore, history core.HistoryStore, cache core.FacetCache, historyTimeout time.Duration, log *zap.Logger, m *metrics.Metrics) *DocumentService {
	return &DocumentService{
		store:          store,
		history:        history,
		cache:          cache,
		historyTimeout: historyTimeout,
		log:            log.Named("documents"),
		metrics:        m,
	}
}

// Search validates the facet dimensions, runs the query and, for an
// authenticated caller with a non-empty query, records one history entry.
// The history write is detached from the request and never fails the search.
func (s *DocumentService) Search(ctx context.Context, uid string, req models.SearchRequest) (*models.SearchResult, error) {
	facets, err := core.ValidateFacets(req.Facets)
	if err != nil {
		return nil, err
	}
	req.Facets = facets
	req.Query = strings.TrimSpace(req.Query)

	res, err := s.store.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: search documents: %w", core.ErrUpstream, err)
	}

	mode := "browse"
	if req.Query != "" {
		mode = "text"
	}
	s.metrics.SearchTotal.WithLabelValues(mode).Inc()

	if uid != "" && req.Query != "" {
		s.recordSearch(uid, req.Query)
	}
	return res, nil
}

func (s *DocumentService) recordSearch(uid, query string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.historyTimeout)
		defer cancel()

		if err := s.history.AddSearch(ctx, uid, query); err != nil {
			s.metrics.HistoryWriteFailures.Inc()
			s.log.Warn("failed to record search history", zap.String("uid", uid), zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight history writes have finished.
func (s *DocumentService) Wait() {
	s.pending.Wait()
}

// Facets returns the top values per dimension, from cache when fresh.
func (s *DocumentService) Facets(ctx context.Context) (*models.Facets, error) {
	if s.cache != nil {
		f, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn("facet cache read failed", zap.Error(err))
		}
		if ok {
			s.metrics.FacetCacheHits.Inc()
			return f, nil
		}
		s.metrics.FacetCacheMisses.Inc()
	}

	v, err, _ := s.facetGroup.Do("facets", func() (interface{}, error) {
		// Callers share this result, so it must not die with the first
		// caller's request.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), facetTimeout)
		defer cancel()

		f, err := s.store.Facets(fctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(fctx, f); err != nil {
				s.log.Warn("facet cache write failed", zap.Error(err))
			}
		}
		return f, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate facets: %w", core.ErrUpstream, err)
	}
	return v.(*models.Facets), nil
}

// Get resolves a document by primary key or DOI.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, core.ErrNotFound
	}

	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get document: %w", core.ErrUpstream, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document %q", core.ErrNotFound, id)
	}
	return doc, nil
}

// History lists the caller's most recent searches.
func (s *DocumentService) History(ctx context.Context, uid string, limit int) ([]models.SearchHistoryEntry, error) {
	if uid == "" {
		return nil, core.ErrAuthRequired
	}
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	entries, err := s.history.ListSearches(ctx, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list history: %w", core.ErrUpstream, err)
	}
	if entries == nil {
		entries = []models.SearchHistoryEntry{}
	}
	return entries, nil
}
