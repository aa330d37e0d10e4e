package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the settings shared by the serve and analyze commands. All
// fields have working defaults so a config file is optional.
type Config struct {
	// Addr is the listen address for the API server.
	Addr string `toml:"addr"`

	// CacheTTL is how long analysis results stay valid.
	CacheTTL duration `toml:"cache_ttl"`

	// GitHubToken authenticates API requests. Falls back to the
	// GITHUB_TOKEN environment variable when unset.
	GitHubToken string `toml:"github_token"`

	// PageSize is the default page size for cache listings.
	PageSize int `toml:"page_size"`

	// Server is the base URL the cache subcommands talk to.
	Server string `toml:"server"`
}

// duration wraps time.Duration so TOML values like "24h" parse directly.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func defaultConfig() Config {
	return Config{
		Addr:     ":8080",
		CacheTTL: duration{24 * time.Hour},
		PageSize: 20,
		Server:   "http://localhost:8080",
	}
}

// loadConfig reads a TOML config file over the defaults. An empty path
// tries $REPOLENS_CONFIG and then ~/.config/repolens/config.toml; a missing
// file is not an error. The GitHub token falls back to GITHUB_TOKEN.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv("REPOLENS_CONFIG")
	}
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, ".config", "repolens", "config.toml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	return cfg, nil
}
