package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Auth     AuthConfig     `toml:"auth"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	UI       UIConfig       `toml:"ui"`
	Upload   UploadConfig   `toml:"upload"`
}

// BackendConfig locates the TedTagger media service.
type BackendConfig struct {
	BaseURL   string  `toml:"base_url"`
	APIPath   string  `toml:"api_path"`
	LoginPath string  `toml:"login_path"`
	RateLimit float64 `toml:"rate_limit"`
}

// AuthConfig contains session resolution settings.
type AuthConfig struct {
	FetchTokenTTL int `toml:"fetch_token_ttl"` // seconds
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local login server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	ClickDelayMS int `toml:"click_delay_ms"`
	GridColumns  int `toml:"grid_columns"`
}

// UploadConfig contains upload defaults.
type UploadConfig struct {
	AlbumName string `toml:"album_name"`
	Workers   int    `toml:"workers"`
}

// Env looks up environment variables. Tests substitute a map.
type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides config values from TEDTAGGER_* environment variables.
func (c *Config) ApplyEnv() error {
	return c.ApplyEnvFrom(osEnv{})
}

// ApplyEnvFrom overrides config values using the given [Env].
func (c *Config) ApplyEnvFrom(env Env) error {
	if raw := env.Getenv("TEDTAGGER_BACKEND_URL"); raw != "" {
		c.Backend.BaseURL = raw
	}
	if raw := env.Getenv("TEDTAGGER_DATABASE_PATH"); raw != "" {
		c.Database.Path = raw
	}
	if raw := env.Getenv("TEDTAGGER_SERVER_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("%w: TEDTAGGER_SERVER_PORT", ErrInvalidConfig)
		}
		c.Server.Port = port
	}
	if raw := env.Getenv("TEDTAGGER_FETCH_TOKEN_TTL"); raw != "" {
		ttl, err := strconv.Atoi(raw)
		if err != nil || ttl <= 0 {
			return fmt.Errorf("%w: TEDTAGGER_FETCH_TOKEN_TTL", ErrInvalidConfig)
		}
		c.Auth.FetchTokenTTL = ttl
	}
	return nil
}

// Validate checks the values the rest of the application depends on.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("%w: backend.base_url %q", ErrInvalidConfig, c.Backend.BaseURL)
	}
	if c.Auth.FetchTokenTTL <= 0 {
		return fmt.Errorf("%w: auth.fetch_token_ttl must be positive", ErrInvalidConfig)
	}
	if c.UI.GridColumns < 2 || c.UI.GridColumns > 10 {
		return fmt.Errorf("%w: ui.grid_columns must be between 2 and 10", ErrInvalidConfig)
	}
	return nil
}

// APIURL joins the backend base URL, the API path and an endpoint name.
func (c *Config) APIURL(endpoint string) string {
	base := strings.TrimRight(c.Backend.BaseURL, "/")
	path := "/"
	if trimmed := strings.Trim(c.Backend.APIPath, "/"); trimmed != "" {
		path += trimmed + "/"
	}
	return base + path + strings.TrimLeft(endpoint, "/")
}

// LoginURL is the backend page that starts the Google OAuth flow.
func (c *Config) LoginURL() string {
	return strings.TrimRight(c.Backend.BaseURL, "/") + c.Backend.LoginPath
}

// ClickDelay is the click/double-click disambiguation window.
func (c *Config) ClickDelay() time.Duration {
	if c.UI.ClickDelayMS <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(c.UI.ClickDelayMS) * time.Millisecond
}

// FetchTokenTTL is the validity assumed for tokens read from the cookie endpoint.
func (c *Config) FetchTokenTTL() time.Duration {
	return time.Duration(c.Auth.FetchTokenTTL) * time.Second
}

// ServerAddr is the listen address of the local login server.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
