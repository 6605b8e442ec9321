package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/covidsearch/internal/models"
)

// Search runs the paged and count pipelines concurrently; both must succeed.
func (s *Store) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	if req.Page < 1 || req.Limit < 1 {
		return nil, fmt.Errorf("invalid pagination: page=%d limit=%d", req.Page, req.Limit)
	}

	paged, count := searchPipelines(s.searchIndex, req.Query, req.Facets, req.Page, req.Limit)

	var (
		docs  []models.Document
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cur, err := s.coll.Aggregate(gctx, paged)
		if err != nil {
			return fmt.Errorf("aggregate page: %w", err)
		}
		if err := cur.All(gctx, &docs); err != nil {
			return fmt.Errorf("decode page: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		cur, err := s.coll.Aggregate(gctx, count)
		if err != nil {
			return fmt.Errorf("aggregate count: %w", err)
		}
		var rows []struct {
			Total int64 `bson:"total"`
		}
		if err := cur.All(gctx, &rows); err != nil {
			return fmt.Errorf("decode count: %w", err)
		}
		if len(rows) > 0 {
			total = rows[0].Total
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if docs == nil {
		docs = []models.Document{}
	}

	s.log.Debug("search executed",
		zap.String("query", req.Query),
		zap.Int("facets", len(req.Facets)),
		zap.Int("page", req.Page),
		zap.Int("returned", len(docs)),
		zap.Int64("total", total),
	)

	return &models.SearchResult{
		Results: docs,
		Pagination: models.Pagination{
			Total: total,
			Page:  req.Page,
			Limit: req.Limit,
			Pages: pageCount(total, req.Limit),
		},
	}, nil
}

// Facets aggregates the top values of every facet dimension.
func (s *Store) Facets(ctx context.Context) (*models.Facets, error) {
	cur, err := s.coll.Aggregate(ctx, facetPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate facets: %w", err)
	}

	var rows []models.Facets
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode facets: %w", err)
	}

	var f models.Facets
	if len(rows) > 0 {
		f = rows[0]
	}
	return normalizeFacets(&f), nil
}

// GetDocument resolves id as an ObjectID, falling back to the DOI field.
func (s *Store) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := s.coll.FindOne(ctx, lookupFilter(id), options.FindOne()).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document %q: %w", id, err)
	}
	return &doc, nil
}

func normalizeFacets(f *models.Facets) *models.Facets {
	if f.Entities == nil {
		f.Entities = []models.FacetValue{}
	}
	if f.Category == nil {
		f.Category = []models.FacetValue{}
	}
	if f.Type == nil {
		f.Type = []models.FacetValue{}
	}
	if f.AuthorName == nil {
		f.AuthorName = []models.FacetValue{}
	}
	return f
}
