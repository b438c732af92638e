// Package config handles machine profile configuration.
//
// Config is stored at $XDG_CONFIG_HOME/burin/config.yaml (defaults to
// ~/.config/burin/config.yaml): named machine profiles with a
// default-profile selector, plus per-address dialect overrides for
// devices that classify incorrectly.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/burin-project/burin-go/pkg/dialect"
)

// Profile describes one machine's working parameters.
type Profile struct {
	// Work area in millimeters.
	WorkWidth  float64 `yaml:"work-width,omitempty"`
	WorkHeight float64 `yaml:"work-height,omitempty"`

	// LineSpacing is the raster scan line pitch in millimeters.
	LineSpacing float64 `yaml:"line-spacing,omitempty"`

	// Power window for raster engraving (0..1000 in S units).
	PowerMin int `yaml:"power-min,omitempty"`
	PowerMax int `yaml:"power-max,omitempty"`

	// FeedRate is the default cutting speed in mm/min.
	FeedRate int `yaml:"feed-rate,omitempty"`

	// BaudRate for wired connections.
	BaudRate int `yaml:"baud-rate,omitempty"`

	// PollInterval is the telemetry polling period.
	PollInterval Duration `yaml:"poll-interval,omitempty"`
}

// Duration wraps time.Duration with YAML support for strings like "500ms".
type Duration time.Duration

// UnmarshalYAML parses a duration from a string or integer nanoseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultProfile returns the built-in machine profile.
func DefaultProfile() Profile {
	return Profile{
		WorkWidth:    300,
		WorkHeight:   200,
		LineSpacing:  0.1,
		PowerMin:     0,
		PowerMax:     1000,
		FeedRate:     1000,
		BaudRate:     115200,
		PollInterval: Duration(time.Second),
	}
}

// withDefaults fills zero fields from the built-in profile.
func (p Profile) withDefaults() Profile {
	d := DefaultProfile()
	if p.WorkWidth <= 0 {
		p.WorkWidth = d.WorkWidth
	}
	if p.WorkHeight <= 0 {
		p.WorkHeight = d.WorkHeight
	}
	if p.LineSpacing <= 0 {
		p.LineSpacing = d.LineSpacing
	}
	if p.PowerMax <= 0 {
		p.PowerMax = d.PowerMax
	}
	if p.FeedRate <= 0 {
		p.FeedRate = d.FeedRate
	}
	if p.BaudRate <= 0 {
		p.BaudRate = d.BaudRate
	}
	if p.PollInterval <= 0 {
		p.PollInterval = d.PollInterval
	}
	return p
}

// Validate checks profile invariants after defaulting.
func (p Profile) Validate() error {
	if p.PowerMin < 0 {
		return fmt.Errorf("power-min must not be negative (got %d)", p.PowerMin)
	}
	if p.PowerMin > p.PowerMax {
		return fmt.Errorf("power-min %d exceeds power-max %d", p.PowerMin, p.PowerMax)
	}
	return nil
}

// Config holds named machine profiles and per-device overrides.
type Config struct {
	// DefaultProfile selects the profile used when none is named.
	DefaultProfile string `yaml:"default-profile,omitempty"`

	// Profiles maps profile names to machine parameters.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`

	// Dialects maps device addresses to dialect names, overriding
	// discovery-time classification.
	Dialects map[string]string `yaml:"dialects,omitempty"`
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/burin/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "burin", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "burin", "config.yaml")
}

// Load reads the config file at the default path. A missing file yields
// an empty Config, not an error.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads and validates the config file at path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{Profiles: make(map[string]Profile)}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}

	for name, p := range cfg.Profiles {
		if err := p.withDefaults().Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}
	for addr, name := range cfg.Dialects {
		if _, ok := dialect.Parse(name); !ok {
			return nil, fmt.Errorf("device %q: unknown dialect %q", addr, name)
		}
	}

	return &cfg, nil
}

// Save writes the config to disk, creating directories as needed.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to the given path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Profile returns the named profile with defaults filled in. An empty
// name selects the default profile; an unknown name yields the built-in
// profile.
func (c *Config) Profile(name string) Profile {
	if name == "" {
		name = c.DefaultProfile
	}
	if p, ok := c.Profiles[name]; ok {
		return p.withDefaults()
	}
	return DefaultProfile()
}

// DialectFor returns the configured dialect override for a device
// address. The bool is false when no override is set.
func (c *Config) DialectFor(address string) (dialect.Dialect, bool) {
	name, ok := c.Dialects[address]
	if !ok {
		return dialect.Unknown, false
	}
	return dialect.Parse(name)
}
