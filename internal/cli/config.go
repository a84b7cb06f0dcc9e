package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/minescope/bedrockver/pkg/bedrock"
	"github.com/minescope/bedrockver/pkg/errors"
)

// =============================================================================
// Config File
// =============================================================================

// Config models the optional TOML config file. Unset fields fall back to
// the built-in defaults; explicitly set flags override both.
type Config struct {
	Retries  *int        `toml:"retries"`
	Cooldown *duration   `toml:"cooldown"`
	Timeout  *duration   `toml:"timeout"`
	Endpoint string      `toml:"endpoint"`
	Serve    ServeConfig `toml:"serve"`
}

// ServeConfig holds settings for the serve command.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// duration decodes TOML strings like "15s" or "2m" into a time.Duration.
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// loadConfig reads the TOML config at path. An empty path falls back to the
// default location, where a missing file simply yields the zero config.
// An explicitly given path must exist.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return &cfg, nil
}

// fetchOptions maps the config onto fetch options, starting from the
// built-in defaults.
func (cfg *Config) fetchOptions() bedrock.Options {
	opts := bedrock.DefaultOptions()
	if cfg.Retries != nil {
		opts.Retries = *cfg.Retries
	}
	if cfg.Cooldown != nil {
		opts.Cooldown = cfg.Cooldown.Duration
	}
	if cfg.Timeout != nil {
		opts.Timeout = cfg.Timeout.Duration
	}
	if cfg.Endpoint != "" {
		opts.Endpoint = cfg.Endpoint
	}
	return opts
}

// =============================================================================
// Paths
// =============================================================================

// defaultConfigPath returns the config path using the XDG standard
// (~/.config/bedrockver/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
