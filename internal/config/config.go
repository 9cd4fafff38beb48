// Package config loads the service configuration from a YAML file with
// environment overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort      = 8080
	DefaultStorageDriver = "sqlite"
	DefaultDocsDriver    = "embedded"
)

// Config holds the full service configuration parsed from config.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Docs    DocsConfig    `yaml:"docs"`
	Auth    AuthConfig    `yaml:"auth"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API listens on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// PublicURL is the externally reachable base URL of this deployment.
	// It replaces the server placeholder in every served OpenAPI document
	// and is required whenever documents are merged or resolved.
	PublicURL string `yaml:"public_url"`
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	// Driver is one of: memory | sqlite | postgres (default sqlite).
	Driver string `yaml:"driver"`

	// SQLitePath is the database file path when driver=sqlite.
	SQLitePath string `yaml:"sqlite_path"`

	// PostgresDSNEnv names the environment variable holding the DSN when
	// driver=postgres. Keeping the DSN out of the file keeps credentials
	// out of version control.
	PostgresDSNEnv string `yaml:"postgres_dsn_env"`

	// SeedFile optionally points at a JSON snapshot loaded on startup.
	SeedFile string `yaml:"seed_file"`
}

// PostgresDSN returns the DSN resolved from the environment.
func (s StorageConfig) PostgresDSN() string {
	if s.PostgresDSNEnv == "" {
		return ""
	}
	return os.Getenv(s.PostgresDSNEnv)
}

// DocsConfig selects where the source OpenAPI documents come from.
type DocsConfig struct {
	// Driver is one of: embedded | fs | s3 (default embedded).
	Driver string `yaml:"driver"`

	// Root is the document directory when driver=fs.
	Root string `yaml:"root"`

	// Watch enables live reloading of the document catalog when driver=fs.
	Watch bool `yaml:"watch"`
}

// AuthConfig controls bearer-token authentication on protected endpoints.
type AuthConfig struct {
	// Mode is one of: bearer | none (default none).
	Mode string `yaml:"mode"`

	// TokenEnv names the environment variable holding the expected token
	// when Mode == "bearer".
	TokenEnv string `yaml:"token_env"`
}

// Token returns the expected bearer token resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Load reads and parses the config file at path. An empty path yields the
// defaults. Environment overrides are applied after parsing, then the
// result is validated.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}
	applyEnv(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server:  ServerConfig{HTTPPort: DefaultHTTPPort},
		Storage: StorageConfig{Driver: DefaultStorageDriver},
		Docs:    DocsConfig{Driver: DefaultDocsDriver},
	}
}

// applyEnv overlays deployment environment variables on the parsed file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("RISCORE_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.HTTPPort = port
		}
	}
	if v := os.Getenv("RISCORE_PUBLIC_URL"); v != "" {
		cfg.Server.PublicURL = v
	}
	if v := os.Getenv("RISCORE_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("RISCORE_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("RISCORE_SEED_FILE"); v != "" {
		cfg.Storage.SeedFile = v
	}
	if v := os.Getenv("RISCORE_DOCS_DRIVER"); v != "" {
		cfg.Docs.Driver = v
	}
	if v := os.Getenv("RISCORE_DOCS_FS_ROOT"); v != "" {
		cfg.Docs.Root = v
	}
	if v := os.Getenv("RISCORE_AUTH_MODE"); v != "" {
		cfg.Auth.Mode = v
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Storage.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("storage.driver %q unknown: want memory|sqlite|postgres", cfg.Storage.Driver)
	}
	switch cfg.Docs.Driver {
	case "embedded", "fs", "s3", "memory":
	default:
		return fmt.Errorf("docs.driver %q unknown: want embedded|fs|s3", cfg.Docs.Driver)
	}
	switch cfg.Auth.Mode {
	case "bearer", "none", "":
	default:
		return fmt.Errorf("auth.mode %q unknown: want bearer|none", cfg.Auth.Mode)
	}
	return nil
}
