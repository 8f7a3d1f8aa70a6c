// Package config loads the engine tunables from a mapweaver.toml file.
//
// Precedence is flag > file > default: commands start from Default(), merge
// the file when one exists, and let their own flags override the result.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mapweaver/mapweaver/pkg/errors"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "mapweaver.toml"

// Config is the full tunable surface.
type Config struct {
	Canvas   Canvas   `toml:"canvas"`
	Sizing   Sizing   `toml:"sizing"`
	Interact Interact `toml:"interact"`
	Viewport Viewport `toml:"viewport"`
	History  History  `toml:"history"`
	Cache    CacheCfg `toml:"cache"`
	Store    StoreCfg `toml:"store"`
	Serve    Serve    `toml:"serve"`
}

// Canvas sets the compile coordinate convention.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Sizing tunes the text-length step function for shape sizes.
type Sizing struct {
	MinDiameter float64 `toml:"min_diameter"`
	MaxDiameter float64 `toml:"max_diameter"`
	MinWidth    float64 `toml:"min_width"`
	MaxWidth    float64 `toml:"max_width"`
	BoxHeight   float64 `toml:"box_height"`
	PerChar     float64 `toml:"per_char"`
	ShortText   int     `toml:"short_text"`
}

// Interact tunes the pointer disambiguation windows, in milliseconds.
type Interact struct {
	DebounceMS int `toml:"debounce_ms"`
	DedupeMS   int `toml:"dedupe_ms"`
}

// Debounce returns the debounce window as a duration.
func (i Interact) Debounce() time.Duration { return time.Duration(i.DebounceMS) * time.Millisecond }

// Dedupe returns the dedupe window as a duration.
func (i Interact) Dedupe() time.Duration { return time.Duration(i.DedupeMS) * time.Millisecond }

// Viewport tunes the fitting fractions.
type Viewport struct {
	Padding       float64 `toml:"padding"`
	FloorFraction float64 `toml:"floor_fraction"`
	PanelWidth    float64 `toml:"panel_width"`
}

// History bounds the undo stack.
type History struct {
	Capacity int `toml:"capacity"`
}

// CacheCfg selects and configures the layout cache backend.
type CacheCfg struct {
	Backend   string `toml:"backend"` // "file", "redis", or "none"
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	TTLHours  int    `toml:"ttl_hours"`
}

// TTL returns the cache entry lifetime.
func (c CacheCfg) TTL() time.Duration { return time.Duration(c.TTLHours) * time.Hour }

// StoreCfg selects and configures the diagram store backend.
type StoreCfg struct {
	Backend  string `toml:"backend"` // "memory" or "mongo"
	MongoURI string `toml:"mongo_uri"`
}

// Serve configures the HTTP surface.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in tuning.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 960, Height: 640},
		Sizing: Sizing{
			MinDiameter: 90,
			MaxDiameter: 220,
			MinWidth:    120,
			MaxWidth:    320,
			BoxHeight:   48,
			PerChar:     11,
			ShortText:   8,
		},
		Interact: Interact{DebounceMS: 250, DedupeMS: 50},
		Viewport: Viewport{Padding: 0.12, FloorFraction: 0.60, PanelWidth: 320},
		History:  History{Capacity: 50},
		Cache:    CacheCfg{Backend: "file", Dir: ".mapweaver-cache", TTLHours: 24},
		Store:    StoreCfg{Backend: "memory"},
		Serve:    Serve{Addr: ":8080"},
	}
}

// Load reads the config file at path, merged over the defaults. A missing
// file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "parse config %s", path)
	}
	return cfg, nil
}
