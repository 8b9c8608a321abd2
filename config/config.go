package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

const (
	StoreSQLite    = "sqlite"
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"

	AuthModeAuth0 = "auth0"
	AuthModeHS256 = "hs256"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env            string     `mapstructure:"env"`             // local, dev, production
	Port           string     `mapstructure:"port"`            // HTTP listen port
	AllowedOrigins []string   `mapstructure:"allowed_origins"` // CORS origins
	Store          Store      `mapstructure:"store"`
	Auth           Auth       `mapstructure:"auth"`
	Completion     Completion `mapstructure:"completion"`
	Checkout       Checkout   `mapstructure:"checkout"`
}

// Store selects and configures the document store backend.
type Store struct {
	Driver           string `mapstructure:"driver"`
	DSN              string `mapstructure:"dsn"`
	FirestoreProject string `mapstructure:"firestore_project"`
}

// Auth configures bearer token validation. In auth0 mode tokens are RS256
// and checked against the tenant JWKS; in hs256 mode they are signed with Secret.
type Auth struct {
	Mode     string `mapstructure:"mode"`
	Domain   string `mapstructure:"domain"`
	Audience string `mapstructure:"audience"`
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
}

// Completion configures the chat-completion endpoint.
type Completion struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Checkout configures the hosted Stripe checkout.
type Checkout struct {
	StripeSecretKey string `mapstructure:"stripe_secret_key"`
	ProductName     string `mapstructure:"product_name"`
	UnitAmount      int64  `mapstructure:"unit_amount"`
	Currency        string `mapstructure:"currency"`
	Interval        string `mapstructure:"interval"`
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("port", "8080")
	v.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("store.driver", StoreSQLite)
	v.SetDefault("store.dsn", "flashcards.db")
	v.SetDefault("auth.mode", AuthModeAuth0)
	v.SetDefault("auth.issuer", "flashcard-saas")
	v.SetDefault("completion.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("completion.model", "llama-3.3-70b-versatile")
	v.SetDefault("checkout.product_name", "Pro subscription")
	v.SetDefault("checkout.unit_amount", 1000)
	v.SetDefault("checkout.currency", "usd")
	v.SetDefault("checkout.interval", "month")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("allowed_origins", "ALLOWED_ORIGINS")
	_ = v.BindEnv("store.driver", "STORE_DRIVER")
	_ = v.BindEnv("store.dsn", "DB_URL")
	_ = v.BindEnv("store.firestore_project", "FIRESTORE_PROJECT_ID")
	_ = v.BindEnv("auth.mode", "AUTH_MODE")
	_ = v.BindEnv("auth.domain", "AUTH0_DOMAIN")
	_ = v.BindEnv("auth.audience", "AUTH0_AUDIENCE")
	_ = v.BindEnv("auth.secret", "JWT_SECRET_KEY")
	_ = v.BindEnv("auth.issuer", "JWT_ISSUER")
	_ = v.BindEnv("completion.api_key", "GROQ_API_KEY")
	_ = v.BindEnv("completion.base_url", "COMPLETION_BASE_URL")
	_ = v.BindEnv("completion.model", "COMPLETION_MODEL")
	_ = v.BindEnv("checkout.stripe_secret_key", "STRIPE_SECRET_KEY")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that every setting required by the selected drivers is present.
func (c *Config) Validate() error {
	if c.Completion.APIKey == "" {
		return fmt.Errorf("%w: GROQ_API_KEY", ErrMissingEnvironmentVariables)
	}

	switch c.Store.Driver {
	case StoreSQLite, StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: DB_URL", ErrMissingEnvironmentVariables)
		}
	case StoreFirestore:
		if c.Store.FirestoreProject == "" {
			return fmt.Errorf("%w: FIRESTORE_PROJECT_ID", ErrMissingEnvironmentVariables)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Auth.Mode {
	case AuthModeAuth0:
		if c.Auth.Domain == "" || c.Auth.Audience == "" {
			return fmt.Errorf("%w: AUTH0_DOMAIN, AUTH0_AUDIENCE", ErrMissingEnvironmentVariables)
		}
	case AuthModeHS256:
		if c.Auth.Secret == "" {
			return fmt.Errorf("%w: JWT_SECRET_KEY", ErrMissingEnvironmentVariables)
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}

	return nil
}

// TokenAudience is the audience tokens must carry. HS256 development tokens
// fall back to the issuer when no audience is configured.
func (a Auth) TokenAudience() string {
	if a.Audience != "" {
		return a.Audience
	}
	return a.Issuer
}
