// Package config loads astargrid settings from a TOML file.
//
// The file is optional. Missing keys keep their defaults and unknown keys are
// rejected:
//
//	[grid]
//	rows = 40
//	width = 700
//
//	[render]
//	fps = 60
//	cell_px = 16
//	palette = { path = "#ff00ff" }
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	ttl = "24h"
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/astargrid/pkg/errors"
	"github.com/matzehuels/astargrid/pkg/grid"
	"github.com/matzehuels/astargrid/pkg/render"
)

const appName = "astargrid"

// Config is the full settings tree.
type Config struct {
	Grid   GridConfig   `toml:"grid"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// GridConfig sizes new grids.
type GridConfig struct {
	Rows  int `toml:"rows"`
	Width int `toml:"width"`
}

// RenderConfig controls drawing and animation.
type RenderConfig struct {
	FPS     int               `toml:"fps"`
	CellPx  int               `toml:"cell_px"`
	Palette map[string]string `toml:"palette"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr          string   `toml:"addr"`
	SearchTimeout Duration `toml:"search_timeout"`
}

// CacheConfig selects and tunes the result cache. A non-empty RedisAddr
// selects Redis; otherwise entries go to Dir.
type CacheConfig struct {
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
}

// Duration is a time.Duration written as a string such as "90s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Grid: GridConfig{
			Rows:  grid.DefaultRows,
			Width: grid.DefaultDimension,
		},
		Render: RenderConfig{
			FPS:    60,
			CellPx: render.DefaultCellPx,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			SearchTimeout: Duration{10 * time.Second},
		},
		Cache: CacheConfig{
			TTL: Duration{24 * time.Hour},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/astargrid/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/astargrid, falling back to
// ~/.cache/astargrid.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads path over the defaults and validates the result. An empty path
// means DefaultPath, where a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and palette colors.
func (c Config) Validate() error {
	if err := errors.ValidateRows(c.Grid.Rows); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "grid.rows")
	}
	if c.Grid.Width < c.Grid.Rows {
		return errors.New(errors.ErrCodeInvalidConfig, "grid.width %d is smaller than grid.rows %d", c.Grid.Width, c.Grid.Rows)
	}
	if c.Render.FPS < 1 || c.Render.FPS > 240 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.fps must be between 1 and 240, got %d", c.Render.FPS)
	}
	if c.Render.CellPx < 0 || c.Render.CellPx > 128 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.cell_px must be between 0 and 128, got %d", c.Render.CellPx)
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is empty")
	}
	if c.Server.SearchTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.search_timeout is negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl is negative")
	}
	return nil
}

// Palette returns the default palette with the configured overrides applied.
func (c Config) Palette() (render.Palette, error) {
	return render.DefaultPalette().WithOverrides(c.Render.Palette)
}

// FrameInterval returns the delay between animation frames.
func (c Config) FrameInterval() time.Duration {
	if c.Render.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Render.FPS)
}
