package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerAddr           string        `mapstructure:"SERVER_ADDR"`
	DBDriver             string        `mapstructure:"DB_DRIVER"`
	DatabaseURL          string        `mapstructure:"DATABASE_URL"`
	SessionSecret        string        `mapstructure:"SESSION_SECRET"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`
	CookieSecure         bool          `mapstructure:"COOKIE_SECURE"`
	AllowedOrigins       string        `mapstructure:"ALLOWED_ORIGINS"`
	BcryptCost           int           `mapstructure:"BCRYPT_COST"`
	AdminUsername        string        `mapstructure:"ADMIN_USERNAME"`
	AdminEmail           string        `mapstructure:"ADMIN_EMAIL"`
	AdminPassword        string        `mapstructure:"ADMIN_PASSWORD"`
	GinMode              string        `mapstructure:"GIN_MODE"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var defaults = map[string]any{
	"SERVER_ADDR":            ":5000",
	"DB_DRIVER":              DriverSQLite,
	"DATABASE_URL":           "gds_games.db",
	"SESSION_SECRET":         "gds-secret-key-change-in-production",
	"SESSION_TTL":            "168h",
	"SESSION_SWEEP_INTERVAL": "10m",
	"COOKIE_SECURE":          false,
	"ALLOWED_ORIGINS":        "http://localhost:5000",
	"BCRYPT_COST":            12,
	"ADMIN_USERNAME":         "admin",
	"ADMIN_EMAIL":            "admin@gdsgames.com",
	"ADMIN_PASSWORD":         "admin123",
	"GIN_MODE":               "debug",
}

// LoadConfig loads the configuration from a .env file found in one of paths
// (the working directory when none are given) and from environment variables.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database URL cannot be empty")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("session secret cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.SessionSweepInterval <= 0 {
		return fmt.Errorf("session sweep interval must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d out of range", c.BcryptCost)
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS into a trimmed list.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
