// Package config loads the service configuration from an optional .env file, an optional
// config.yaml and CRM_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gitlab.com/dirk.krummacker/personal-crm/internal/apperrors"
)

// EnvironmentProduction is the server environment in which cookies are secure and logs are JSON.
const EnvironmentProduction = "production"

// Config holds all configuration for the service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	BaseURL        string        `mapstructure:"base_url"`
	Environment    string        `mapstructure:"environment"`
	RequestLogging bool          `mapstructure:"request_logging"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds the MySQL connection settings. User is the application identity used for
// session handles, ServiceUser the identity used for privileged aggregate queries.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	ServiceUser     string        `mapstructure:"service_user"`
	ServicePassword string        `mapstructure:"service_password"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// AuthConfig holds the OAuth client and session cookie settings.
type AuthConfig struct {
	Provider      string        `mapstructure:"provider"`
	ClientID      string        `mapstructure:"client_id"`
	ClientSecret  string        `mapstructure:"client_secret"`
	SessionSecret string        `mapstructure:"session_secret"`
	SessionMaxAge time.Duration `mapstructure:"session_max_age"`
	// VerifyInterval is how long a session is trusted before its token is checked with the
	// provider again.
	VerifyInterval time.Duration `mapstructure:"verify_interval"`
	SecureCookies  bool          `mapstructure:"secure_cookies"`
}

// CallbackURL is the OAuth redirect target registered with the identity provider.
func (c *Config) CallbackURL() string {
	return strings.TrimRight(c.Server.BaseURL, "/") + "/auth/callback"
}

// Load reads the configuration. A missing .env or config.yaml is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// AutomaticEnv only sees keys viper already knows about.
	for _, key := range []string{
		"database.password",
		"database.service_user",
		"database.service_password",
		"auth.client_id",
		"auth.client_secret",
		"auth.session_secret",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.request_logging", true)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")

	v.SetDefault("database.host", "localhost:3306")
	v.SetDefault("database.name", "crm")
	v.SetDefault("database.user", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("auth.provider", "google")
	v.SetDefault("auth.session_max_age", "168h")
	v.SetDefault("auth.verify_interval", "15m")
	v.SetDefault("auth.secure_cookies", false)
}

// Validate returns a ConfigurationError naming the first required setting that is empty.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"server.base_url", c.Server.BaseURL},
		{"database.host", c.Database.Host},
		{"database.name", c.Database.Name},
		{"database.user", c.Database.User},
		{"database.service_user", c.Database.ServiceUser},
		{"auth.client_id", c.Auth.ClientID},
		{"auth.client_secret", c.Auth.ClientSecret},
		{"auth.session_secret", c.Auth.SessionSecret},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &apperrors.ConfigurationError{Key: r.key}
		}
	}
	return nil
}
