package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// App names one of the three client applications.
type App string

const (
	AppAdmin    App = "admin"
	AppCustomer App = "customer"
	AppDriver   App = "driver"
)

type Config struct {
	App      App    `env:"LOGIPRO_APP,  default=customer"`
	Port     string `env:"PORT,         default=8080"`
	Env      string `env:"ENV,          default=development"`
	LogLevel string `env:"LOG_LEVEL,    default=info"`

	Backend  BackendConfig
	Identity IdentityConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type BackendConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8000/api/v1"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
	// ForceLogoutOnInvalidToken ends the session when the backend reports
	// token_not_valid. The driver app turns this on.
	ForceLogoutOnInvalidToken bool `env:"API_FORCE_LOGOUT"`
}

type IdentityConfig struct {
	APIKey    string `env:"FIREBASE_API_KEY"`
	ProjectID string `env:"FIREBASE_PROJECT_ID"`
	// Endpoint overrides the Identity Toolkit base URL, e.g. for the emulator.
	Endpoint string `env:"FIREBASE_AUTH_ENDPOINT, default=https://identitytoolkit.googleapis.com/v1"`
	// VerifyTokens checks identity tokens locally before the exchange.
	VerifyTokens bool `env:"FIREBASE_VERIFY_TOKENS, default=true"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
}

// GoogleEnabled reports whether federated Google sign-in is configured.
func (c IdentityConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

type StoreConfig struct {
	// Driver is one of file, redis, mongo.
	Driver string `env:"STORE_DRIVER, default=file"`
	Path   string `env:"STORE_PATH,   default=.logipro/state.json"`
	// Key is the base64 secretbox key for the file store. Empty keeps values
	// in plain text.
	Key       string `env:"STORE_KEY"`
	TokenKey  string `env:"STORE_TOKEN_KEY, default=logipro_auth_token"`
	ThemeKey  string `env:"STORE_THEME_KEY, default=logipro_theme"`
	KeyPrefix string `env:"STORE_KEY_PREFIX"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=logipro"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
	// Audit records session transitions in mongo even when the store is not
	// mongo-backed.
	Audit bool `env:"MONGO_AUDIT"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,    default=localhost:6379"`
	DB       int           `env:"REDIS_DB,      default=0"`
	Username string        `env:"REDIS_USERNAME"`
	Password string        `env:"REDIS_PASSWORD"`
	TLS      bool          `env:"REDIS_TLS"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.App {
	case AppAdmin, AppCustomer, AppDriver:
	default:
		return fmt.Errorf("LOGIPRO_APP must be admin, customer or driver, got %q", c.App)
	}
	switch c.Store.Driver {
	case "file", "redis", "mongo":
	default:
		return fmt.Errorf("STORE_DRIVER must be file, redis or mongo, got %q", c.Store.Driver)
	}
	return nil
}

// ClientName identifies this app instance to redis and mongo.
func (c *Config) ClientName() string {
	return "logipro-" + string(c.App)
}

// StoreKey namespaces key by app so that apps can share one redis or mongo.
func (c *Config) StoreKey(key string) string {
	prefix := c.Store.KeyPrefix
	if prefix == "" {
		prefix = string(c.App)
	}
	return prefix + ":" + key
}
