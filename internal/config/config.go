// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SiteURL    string `env:"BRAHMAND_SITE_URL" envDefault:"http://localhost:8080"`
	ServerHost string `env:"BRAHMAND_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"BRAHMAND_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"BRAHMAND_ENV" envDefault:"development"`
	LogLevel   string `env:"BRAHMAND_LOG_LEVEL" envDefault:"info"`

	// Database. The production site runs MySQL; local development and
	// tests default to an embedded SQLite file.
	DBDriver string `env:"BRAHMAND_DB_DRIVER" envDefault:"sqlite"`
	DBPath   string `env:"BRAHMAND_DB_PATH" envDefault:"./data/brahmand.db"`
	DBDSN    string `env:"BRAHMAND_DB_DSN"`

	// File layout. SiteDir is the static output root; ContentDir holds
	// the markdown mirrors keyed by verse/slug.
	SiteDir    string `env:"BRAHMAND_SITE_DIR" envDefault:"./site"`
	ContentDir string `env:"BRAHMAND_CONTENT_DIR" envDefault:"./content"`
	UploadsDir string `env:"BRAHMAND_UPLOADS_DIR" envDefault:"./site/assets/media"`

	// Sessions
	SessionSecret string `env:"BRAHMAND_SESSION_SECRET,required"`

	// Trend automation
	AutomationInterval time.Duration `env:"BRAHMAND_AUTOMATION_INTERVAL" envDefault:"1h"`
	DisableAutomation  bool          `env:"BRAHMAND_DISABLE_AUTOMATION" envDefault:"false"`
	OpenAIAPIKey       string        `env:"BRAHMAND_OPENAI_API_KEY"`

	// Cache
	RedisURL    string `env:"BRAHMAND_REDIS_URL"`
	CachePrefix string `env:"BRAHMAND_CACHE_PREFIX" envDefault:"brahmand:"`
	CacheTTL    int    `env:"BRAHMAND_CACHE_TTL" envDefault:"3600"`

	// Seeding
	DoSeed bool `env:"BRAHMAND_DO_SEED" envDefault:"false"`
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// BaseURL returns the site URL with any trailing slash removed. All
// absolute links and sitemap entries derive from it.
func (c Config) BaseURL() string {
	return strings.TrimRight(c.SiteURL, "/")
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("BRAHMAND_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverMySQL:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("BRAHMAND_DB_DSN is required when BRAHMAND_DB_DRIVER=mysql")
		}
	default:
		return nil, fmt.Errorf("unsupported BRAHMAND_DB_DRIVER %q (want sqlite or mysql)", cfg.DBDriver)
	}

	if cfg.AutomationInterval <= 0 {
		return nil, fmt.Errorf("BRAHMAND_AUTOMATION_INTERVAL must be positive, got %s", cfg.AutomationInterval)
	}

	return cfg, nil
}
