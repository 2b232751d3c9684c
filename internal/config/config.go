package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Receipts ReceiptsConfig `mapstructure:"receipts"`
	Export   ExportConfig   `mapstructure:"export"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// AuthConfig holds token signing and development login configuration
type AuthConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret"`
	TokenTTL            time.Duration `mapstructure:"token_ttl"`
	DeveloperCredential string        `mapstructure:"developer_credential"`
	BypassAuth          bool          `mapstructure:"bypass_auth"`
	BypassHRIdentifier  string        `mapstructure:"bypass_hr_identifier"`
}

// StorageConfig holds receipt storage backend configuration
type StorageConfig struct {
	Backend  string `mapstructure:"backend"` // local or memory
	LocalDir string `mapstructure:"local_dir"`
}

// ExportConfig selects the accounting export adapter
type ExportConfig struct {
	Adapter   string `mapstructure:"adapter"` // netsuite or excel
	OutputDir string `mapstructure:"output_dir"`
}

// ReceiptsConfig holds receipt acceptance limits
type ReceiptsConfig struct {
	MaxSizeBytes    int64 `mapstructure:"max_size_bytes"`
	MaxFilesPerItem int   `mapstructure:"max_files_per_item"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/expense_approval.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Auth defaults
	viper.SetDefault("auth.token_ttl", 12*time.Hour)
	viper.SetDefault("auth.bypass_auth", false)

	// Storage defaults
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.local_dir", "data/receipts")

	// Export defaults
	viper.SetDefault("export.adapter", "netsuite")
	viper.SetDefault("export.output_dir", "data/exports")

	// Receipt defaults
	viper.SetDefault("receipts.max_size_bytes", 10*1024*1024)
	viper.SetDefault("receipts.max_files_per_item", 5)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	viper.BindEnv("auth.developer_credential", "DEVELOPER_CREDENTIAL")
	viper.BindEnv("auth.bypass_auth", "AUTH_BYPASS")
	viper.BindEnv("auth.bypass_hr_identifier", "AUTH_BYPASS_HR_IDENTIFIER")
	viper.BindEnv("database.path", "DATABASE_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Auth.BypassAuth && c.Auth.BypassHRIdentifier == "" {
		return fmt.Errorf("auth.bypass_hr_identifier is required when auth.bypass_auth is set")
	}

	switch c.Storage.Backend {
	case "local":
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("storage.local_dir is required for the local backend")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.backend must be local or memory, got %q", c.Storage.Backend)
	}

	switch c.Export.Adapter {
	case "netsuite":
	case "excel":
		if c.Export.OutputDir == "" {
			return fmt.Errorf("export.output_dir is required for the excel adapter")
		}
	default:
		return fmt.Errorf("export.adapter must be netsuite or excel, got %q", c.Export.Adapter)
	}

	if c.Receipts.MaxSizeBytes <= 0 {
		return fmt.Errorf("receipts.max_size_bytes must be positive")
	}
	if c.Receipts.MaxFilesPerItem <= 0 {
		return fmt.Errorf("receipts.max_files_per_item must be positive")
	}

	return nil
}
