// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/covidsearch/internal/api/handlers"
	"github.com/markdave123-py/covidsearch/internal/config"
	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/core/cache"
	db "github.com/markdave123-py/covidsearch/internal/core/database"
	"github.com/markdave123-py/covidsearch/internal/core/docstore"
	firebaseclient "github.com/markdave123-py/covidsearch/internal/core/firebase-client"
	"github.com/markdave123-py/covidsearch/internal/core/session"
	"github.com/markdave123-py/covidsearch/internal/metrics"
	"github.com/markdave123-py/covidsearch/internal/services"
)

// App owns every long-lived client. Nothing is held in package state; Close
// releases what NewApp acquired.
type App struct {
	Server   *Server
	Docs     *services.DocumentService
	docStore *docstore.Store
	firebase *firebaseclient.Client
	dbClient *db.DatabaseClient
	redis    *cache.RedisFacetCache
}

func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	a := &App{}
	ok := false
	defer func() {
		if !ok {
			a.Close(context.Background())
		}
	}()

	m := metrics.New()

	var err error
	a.docStore, err = docstore.NewStore(appCtx, cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("Document store connected", zap.String("database", cfg.MongoDatabase), zap.String("collection", cfg.MongoCollection))

	a.firebase, err = firebaseclient.NewClient(appCtx, cfg, log)
	if err != nil {
		return nil, err
	}

	var profiles core.ProfileStore = a.firebase
	var history core.HistoryStore = a.firebase
	if cfg.HistoryBackend == config.HistoryBackendPostgres {
		a.dbClient, err = db.NewDatabaseClient(appCtx, cfg)
		if err != nil {
			return nil, err
		}
		profiles, history = a.dbClient, a.dbClient
		log.Info("Database initialized and ready.")
	}
	log.Info("Profile and history backend selected", zap.String("backend", cfg.HistoryBackend))

	facetCache, err := a.newFacetCache(appCtx, cfg, log)
	if err != nil {
		return nil, err
	}

	issuer := session.NewIssuer(cfg.JWTSecret)
	authSvc := services.NewAuthService(a.firebase, profiles, issuer, log)
	a.Docs = services.NewDocumentService(a.docStore, history, facetCache, cfg.HistoryWriteTimeout, log, m)

	router := NewRouter(cfg, log, m, Routes{
		Auth:     handlers.NewAuthHandler(authSvc, log),
		Docs:     handlers.NewDocumentHandler(a.Docs, log),
		Sessions: issuer,
	})
	a.Server = NewServer(cfg, log, router)

	ok = true
	return a, nil
}

// newFacetCache picks Redis when configured, otherwise an in-process cache.
// A zero TTL disables caching.
func (a *App) newFacetCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (core.FacetCache, error) {
	if cfg.FacetCacheTTL == 0 {
		log.Info("Facet cache disabled")
		return nil, nil
	}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisFacetCache(ctx, cfg.RedisURL, cfg.FacetCacheTTL, log)
		if err != nil {
			return nil, fmt.Errorf("init facet cache: %w", err)
		}
		a.redis = rc
		log.Info("Facet cache using redis", zap.Duration("ttl", cfg.FacetCacheTTL))
		return rc, nil
	}
	log.Info("Facet cache in memory", zap.Duration("ttl", cfg.FacetCacheTTL))
	return cache.NewMemoryFacetCache(cfg.FacetCacheTTL), nil
}

// Close drains pending history writes, then releases every client.
func (a *App) Close(ctx context.Context) error {
	if a.Docs != nil {
		a.Docs.Wait()
	}

	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.dbClient != nil {
		errs = append(errs, a.dbClient.Close())
	}
	if a.firebase != nil {
		errs = append(errs, a.firebase.Close())
	}
	if a.docStore != nil {
		errs = append(errs, a.docStore.Close(ctx))
	}
	return errors.Join(errs...)
}
