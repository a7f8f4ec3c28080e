package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"     validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// CORSAllowedOrigins lists origins allowed to call the API from a
	// browser. "*" allows any origin.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the store backend.
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres mongo memory"`
	URL    string `mapstructure:"url"    validate:"required_unless=Driver memory"`
	// User and Password are injected into URL when it carries no credentials.
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	// Name and Collection locate the records for the mongo driver.
	Name       string `mapstructure:"name"       validate:"required_if=Driver mongo"`
	Collection string `mapstructure:"collection" validate:"required_if=Driver mongo"`

	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"gt=0"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	// AutoMigrate applies pending postgres migrations when the server starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// Provider selects the identity verifier.
	Provider string `mapstructure:"provider" validate:"required,oneof=firebase jwt"`
	// FirebaseServiceKey is a base64-encoded service account JSON document.
	FirebaseServiceKey string `mapstructure:"firebase_service_key" validate:"required_if=Provider firebase"`
	FirebaseProjectID  string `mapstructure:"firebase_project_id"`

	JWTSecret     string        `mapstructure:"jwt_secret"     validate:"required_if=Provider jwt"`
	JWTIssuer     string        `mapstructure:"jwt_issuer"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`

	VerifyTimeout time.Duration `mapstructure:"verify_timeout" validate:"gt=0"`
}

// TelemetryConfig contains tracing settings.
type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"      validate:"oneof=stdout otlp none"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"  validate:"required"`
	SampleRate   float64 `mapstructure:"sample_rate"   validate:"gte=0,lte=1"`
}
