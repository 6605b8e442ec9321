package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/markdave123-py/covidsearch/internal/config"
	"github.com/markdave123-py/covidsearch/internal/core"
)

// Store reads articles from a MongoDB collection indexed by Atlas Search.
type Store struct {
	client      *mongo.Client
	coll        *mongo.Collection
	searchIndex string
	log         *zap.Logger
}

var _ core.DocumentStore = (*Store)(nil)

// NewStore connects to MongoDB and verifies the deployment is reachable.
// The caller owns the returned store and must Close it.
func NewStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("document store configuration is nil")
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is empty")
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(20).
		SetMaxConnIdleTime(10 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return newStore(client, cfg.MongoDatabase, cfg.MongoCollection, cfg.SearchIndex, log), nil
}

func newStore(client *mongo.Client, database, collection, index string, log *zap.Logger) *Store {
	return &Store{
		client:      client,
		coll:        client.Database(database).Collection(collection),
		searchIndex: index,
		log:         log.Named("docstore"),
	}
}

func (s *Store) Close(ctx context.Context) error {
	if s.client != nil {
		return s.client.Disconnect(ctx)
	}
	return nil
}
