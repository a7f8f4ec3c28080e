package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// SHAREBITE_SERVER_PORT for server.port.
const EnvPrefix = "SHAREBITE"

// minJWTSecretLength is the shortest HMAC secret accepted for the jwt provider.
const minJWTSecretLength = 32

// legacyEnv maps configuration keys to the unprefixed variables used by
// earlier deployments. Prefixed variables take precedence.
var legacyEnv = map[string]string{
	"server.port":               "PORT",
	"database.user":             "DB_USER",
	"database.password":         "DB_PASS",
	"auth.firebase_service_key": "FB_SERVICE_KEY",
}

// Option customizes Load.
type Option func(*viper.Viper) error

// WithConfigFile reads settings from the given file (any format viper
// supports). Environment variables still take precedence.
func WithConfigFile(path string) Option {
	return func(v *viper.Viper) error {
		if path == "" {
			return nil
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(opts ...Option) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resolved, err := resolveDatabaseURL(cfg.Database)
	if err != nil {
		return nil, err
	}
	cfg.Database.URL = resolved

	return &cfg, nil
}

// Validate checks the configuration against its struct tags and the rules
// that span several fields.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Auth.Provider == "jwt" && len(c.Auth.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf(
			"config validation failed: Config.Auth.JWTSecret must be at least %d characters",
			minJWTSecretLength,
		)
	}
	if c.Telemetry.Enabled && c.Telemetry.Exporter == "otlp" && c.Telemetry.OTLPEndpoint == "" {
		return errors.New("config validation failed: Config.Telemetry.OTLPEndpoint is required for the otlp exporter")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "shareFoodDb")
	v.SetDefault("database.collection", "shareFood")
	v.SetDefault("database.operation_timeout", 5*time.Second)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("auth.provider", "firebase")
	v.SetDefault("auth.firebase_service_key", "")
	v.SetDefault("auth.firebase_project_id", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_issuer", "sharebite")
	v.SetDefault("auth.token_lifetime", time.Hour)
	v.SetDefault("auth.verify_timeout", 5*time.Second)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.exporter", "none")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.service_name", "sharebite-api")
	v.SetDefault("telemetry.sample_rate", 1.0)
}

// resolveDatabaseURL injects separately configured credentials into a
// URL-form connection string that has none. Key/value DSNs are returned
// unchanged.
func resolveDatabaseURL(db DatabaseConfig) (string, error) {
	if db.URL == "" || db.User == "" || !strings.Contains(db.URL, "://") {
		return db.URL, nil
	}

	u, err := url.Parse(db.URL)
	if err != nil {
		return "", fmt.Errorf("config validation failed: invalid database URL: %w", err)
	}
	if u.User != nil {
		return db.URL, nil
	}

	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	} else {
		u.User = url.User(db.User)
	}
	return u.String(), nil
}
