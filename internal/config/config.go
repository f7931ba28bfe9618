package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	defaultPath         = "inkwell.toml"
	defaultListenAddr   = ":8080"
	defaultDatabasePath = "data/inkwell.db"
	defaultImageDir     = "data/images"
	defaultLogLevel     = "info"
)

// Config holds all process configuration. Values come from a TOML file with
// sensible defaults for anything left unset.
type Config struct {
	ListenAddr     string `toml:"listen_addr"`
	DatabasePath   string `toml:"database_path"`
	ImageDir       string `toml:"image_dir"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`
	LogLevel       string `toml:"log_level"`
}

// Load reads the config file at path. An empty path falls back to the
// INKWELL_CONFIG environment variable, then to ./inkwell.toml. A missing
// file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("INKWELL_CONFIG")
	}
	if path == "" {
		path = defaultPath
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	if c.DatabasePath == "" {
		c.DatabasePath = defaultDatabasePath
	}
	if c.ImageDir == "" {
		c.ImageDir = defaultImageDir
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	// MaxUploadBytes <= 0 lets the image store pick its default cap.
}
