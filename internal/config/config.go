package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	GitHub GitHubConfig `toml:"github"`
	Auth   AuthConfig   `toml:"auth"`
	Search SearchConfig `toml:"search"`
	Log    LogConfig    `toml:"log"`

	// Where the config was loaded from (not serialized)
	path string
}

type GitHubConfig struct {
	Host           string `toml:"host" env:"PRDASH_HOST"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"PRDASH_TIMEOUT_SECONDS"`
}

type AuthConfig struct {
	// Token is a personal access token. Prefer the env var over writing it here.
	Token        string   `toml:"token" env:"PRDASH_TOKEN"`
	ClientID     string   `toml:"client_id" env:"PRDASH_CLIENT_ID"`
	ClientSecret string   `toml:"client_secret" env:"PRDASH_CLIENT_SECRET"`
	CallbackPort int      `toml:"callback_port" env:"PRDASH_CALLBACK_PORT"`
	Scopes       []string `toml:"scopes"`
}

type SearchConfig struct {
	DefaultQuery string `toml:"default_query" env:"PRDASH_QUERY"`
	// ScopeToRepo prefixes the default query with repo:owner/name when
	// prdash is started inside a clone
	ScopeToRepo bool `toml:"scope_to_repo"`
}

type LogConfig struct {
	Level string `toml:"level" env:"PRDASH_LOG_LEVEL"`
	// File defaults to prdash.log in the user cache dir
	File string `toml:"file" env:"PRDASH_LOG_FILE"`
}

func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Host:           "github.com",
			TimeoutSeconds: 60,
		},
		Auth: AuthConfig{
			CallbackPort: 0,
			Scopes:       []string{"admin:org", "read:user", "user:email", "repo"},
		},
		Search: SearchConfig{
			DefaultQuery: "is:open review-requested:@me",
			ScopeToRepo:  false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Path returns the default config file location
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "prdash.toml"), nil
}

// Load reads the config at path (the default location if empty), writing the
// defaults there when the file doesn't exist yet. Environment variables are
// applied last and are never written back.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			cfg := DefaultConfig()
			if err := cfg.applyEnv(); err != nil {
				return nil, err
			}
			return cfg, cfg.Validate()
		}
		path = p
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		_ = cfg.Save() // Best effort save
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if err := cleanenv.ReadEnv(c); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if c.GitHub.Host == "" {
		return errors.New("github.host must not be empty")
	}
	if c.GitHub.TimeoutSeconds < 0 {
		return fmt.Errorf("github.timeout_seconds must not be negative, got %d", c.GitHub.TimeoutSeconds)
	}
	if c.Auth.CallbackPort < 0 || c.Auth.CallbackPort > 65535 {
		return fmt.Errorf("auth.callback_port out of range: %d", c.Auth.CallbackPort)
	}
	if (c.Auth.ClientID == "") != (c.Auth.ClientSecret == "") {
		return errors.New("auth.client_id and auth.client_secret must be set together")
	}
	return nil
}

func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// FilePath returns the file the config was loaded from ("" if none)
func (c *Config) FilePath() string {
	return c.path
}

// Timeout returns the HTTP timeout for API calls (0 means none)
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.GitHub.TimeoutSeconds) * time.Second
}

// OAuthEnabled reports whether browser sign-in is configured
func (c *Config) OAuthEnabled() bool {
	return c.Auth.ClientID != "" && c.Auth.ClientSecret != ""
}
