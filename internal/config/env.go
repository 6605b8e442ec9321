package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	HistoryBackendFirestore = "firestore"
	HistoryBackendPostgres  = "postgres"
)

type Config struct {
	Port string `envconfig:"PORT" default:"3000"`

	MongoURI        string `envconfig:"MONGO_URI" required:"true"`
	MongoDatabase   string `envconfig:"MONGO_DATABASE" default:"test"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"documents"`
	SearchIndex     string `envconfig:"SEARCH_INDEX" default:"documents_search"`

	JWTSecret      string   `envconfig:"JWT_SECRET" required:"true"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"https://bd2p2-25f81.firebaseapp.com,https://bd2p2-25f81.web.app,https://2025-01-ic-4302-khaki.vercel.app,http://localhost:5173,http://localhost:3000"`

	FirebaseProjectID       string `envconfig:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `envconfig:"FIREBASE_CREDENTIALS_FILE"`

	HistoryBackend      string        `envconfig:"HISTORY_BACKEND" default:"firestore"`
	DatabaseURL         string        `envconfig:"DATABASE_URL"`
	HistoryWriteTimeout time.Duration `envconfig:"HISTORY_WRITE_TIMEOUT" default:"5s"`

	RedisURL      string        `envconfig:"REDIS_URL"`
	FacetCacheTTL time.Duration `envconfig:"FACET_CACHE_TTL" default:"5m"`

	WebDir string `envconfig:"WEB_DIR"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// LoadConfig reads an optional .env file, then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the rules envconfig tags cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MongoURI) == "" {
		return fmt.Errorf("MONGO_URI not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}

	c.HistoryBackend = strings.ToLower(strings.TrimSpace(c.HistoryBackend))
	switch c.HistoryBackend {
	case HistoryBackendFirestore:
	case HistoryBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when HISTORY_BACKEND=%s", HistoryBackendPostgres)
		}
	default:
		return fmt.Errorf("unsupported HISTORY_BACKEND %q", c.HistoryBackend)
	}

	if c.FacetCacheTTL < 0 {
		return fmt.Errorf("FACET_CACHE_TTL must not be negative")
	}
	if c.HistoryWriteTimeout <= 0 {
		return fmt.Errorf("HISTORY_WRITE_TIMEOUT must be positive")
	}

	origins := c.AllowedOrigins[:0]
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
	return nil
}
