package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andyrewlee/marquee/internal/marquee"
	"github.com/andyrewlee/marquee/internal/validation"
)

// Clock modes.
const (
	ClockFixed     = "fixed"
	ClockTimestamp = "timestamp"
)

// SizeConfig is either {"fixed": d} or {"width": w, "height": h}.
type SizeConfig struct {
	Fixed  float64 `json:"fixed,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Size converts to the engine's size variant. Any non-zero Fixed wins, so a
// bad fixed value is reported as such.
func (s SizeConfig) Size() marquee.Size {
	if s.Fixed != 0 {
		return marquee.Fixed(s.Fixed)
	}
	return marquee.FixedSize(s.Width, s.Height)
}

// ItemConfig is one source item: a text label, an image, or both.
type ItemConfig struct {
	Label string `json:"label,omitempty"`
	Color string `json:"color,omitempty"`
	Image string `json:"image,omitempty"`
}

// StripConfig configures one looping strip.
type StripConfig struct {
	Name      string       `json:"name,omitempty"`
	Items     []ItemConfig `json:"items,omitempty"` // overrides Config.Items when set
	Size      SizeConfig   `json:"size"`
	Spacing   float64      `json:"spacing"`
	Speed     float64      `json:"speed"`
	Direction string       `json:"direction"`
}

// Item validates the strip geometry into an engine item.
func (s StripConfig) Item() (marquee.Item, error) {
	return marquee.NewItem(s.Size.Size(), s.Spacing)
}

// ScrollDirection parses Direction.
func (s StripConfig) ScrollDirection() (marquee.Direction, error) {
	return marquee.ParseDirection(s.Direction)
}

// Config holds the application configuration
type Config struct {
	Paths          *Paths        `json:"-"`
	Items          []ItemConfig  `json:"items"`
	Strips         []StripConfig `json:"strips"`
	TickIntervalMs int           `json:"tick_interval_ms"`
	Clock          string        `json:"clock"`
	LogLevel       string        `json:"log_level"`
}

// TickInterval is the clock period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// ItemsFor returns the source items a strip scrolls.
func (c *Config) ItemsFor(strip StripConfig) []ItemConfig {
	if len(strip.Items) > 0 {
		return strip.Items
	}
	return c.Items
}

func defaultStrip() StripConfig {
	return StripConfig{
		Size:      SizeConfig{Width: 18, Height: 5},
		Spacing:   2,
		Speed:     1,
		Direction: "left",
	}
}

func defaultItems() []ItemConfig {
	return []ItemConfig{
		{Label: "aurora", Color: "tomato"},
		{Label: "basalt", Color: "mediumseagreen"},
		{Label: "cirrus", Color: "royalblue"},
		{Label: "dune", Color: "goldenrod"},
		{Label: "ember", Color: "orchid"},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return defaultConfigAt(paths), nil
}

func defaultConfigAt(paths *Paths) *Config {
	wide := defaultStrip()
	wide.Name = "wide"

	square := defaultStrip()
	square.Name = "square"
	square.Size = SizeConfig{Fixed: 7}
	square.Direction = "right"

	slow := defaultStrip()
	slow.Name = "slow"
	slow.Size = SizeConfig{Width: 30, Height: 7}
	slow.Spacing = 3
	slow.Speed = 0.5
	slow.Direction = "right"

	return &Config{
		Paths:          paths,
		Items:          defaultItems(),
		Strips:         []StripConfig{wide, square, slow},
		TickIntervalMs: 33,
		Clock:          ClockFixed,
		LogLevel:       "info",
	}
}

// fileConfig mirrors Config with optional fields so absent keys keep defaults.
type fileConfig struct {
	Items          []ItemConfig `json:"items"`
	Strips         []fileStrip  `json:"strips"`
	TickIntervalMs *int         `json:"tick_interval_ms"`
	Clock          *string      `json:"clock"`
	LogLevel       *string      `json:"log_level"`
}

type fileStrip struct {
	Name      string       `json:"name"`
	Items     []ItemConfig `json:"items"`
	Size      *SizeConfig  `json:"size"`
	Spacing   *float64     `json:"spacing"`
	Speed     *float64     `json:"speed"`
	Direction *string      `json:"direction"`
}

// Load reads overrides from path (the default config path when empty) and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	if path != "" {
		paths.ConfigPath = path
	}
	return LoadWithPaths(paths)
}

// LoadWithPaths is Load with explicit paths.
func LoadWithPaths(paths *Paths) (*Config, error) {
	cfg := defaultConfigAt(paths)

	data, err := os.ReadFile(paths.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return nil, err
	}

	if err := cfg.apply(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", paths.ConfigPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", paths.ConfigPath, err)
	}
	return cfg, nil
}

func (c *Config) apply(data []byte) error {
	var raw fileConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Items != nil {
		c.Items = raw.Items
	}
	if raw.TickIntervalMs != nil {
		c.TickIntervalMs = *raw.TickIntervalMs
	}
	if raw.Clock != nil {
		c.Clock = strings.ToLower(strings.TrimSpace(*raw.Clock))
	}
	if raw.LogLevel != nil {
		c.LogLevel = *raw.LogLevel
	}
	if raw.Strips != nil {
		strips := make([]StripConfig, 0, len(raw.Strips))
		for _, fs := range raw.Strips {
			s := defaultStrip()
			s.Name = fs.Name
			s.Items = fs.Items
			if fs.Size != nil {
				s.Size = *fs.Size
			}
			if fs.Spacing != nil {
				s.Spacing = *fs.Spacing
			}
			if fs.Speed != nil {
				s.Speed = *fs.Speed
			}
			if fs.Direction != nil {
				s.Direction = *fs.Direction
			}
			strips = append(strips, s)
		}
		c.Strips = strips
	}
	return nil
}

// Validate checks every value up front; nothing is clamped.
func (c *Config) Validate() error {
	var errs []error
	if c.TickIntervalMs < 1 {
		errs = append(errs, validation.Invalid("tick_interval_ms", "must be at least 1 (got %d)", c.TickIntervalMs))
	}
	switch c.Clock {
	case ClockFixed, ClockTimestamp:
	default:
		errs = append(errs, validation.Invalid("clock", "unknown clock %q (want fixed or timestamp)", c.Clock))
	}
	if err := validation.ValidateCount("strips", len(c.Strips), 1); err != nil {
		errs = append(errs, err)
	}
	for i, s := range c.Strips {
		if err := c.validateStrip(s); err != nil {
			errs = append(errs, fmt.Errorf("strips[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) validateStrip(s StripConfig) error {
	if _, err := s.Item(); err != nil {
		return err
	}
	if _, err := s.ScrollDirection(); err != nil {
		return err
	}
	if err := validation.ValidatePositive("speed", s.Speed); err != nil {
		return err
	}
	items := c.ItemsFor(s)
	if err := validation.ValidateCount("items", len(items), 1); err != nil {
		return err
	}
	for i, it := range items {
		if validation.SanitizeLabel(it.Label) == "" && strings.TrimSpace(it.Image) == "" {
			return validation.Invalid(fmt.Sprintf("items[%d]", i), "needs a label or an image")
		}
	}
	return nil
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
