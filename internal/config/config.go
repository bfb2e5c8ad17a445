package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/samcarey/aetherweave/internal/clock"
	"github.com/samcarey/aetherweave/internal/orbit"
	"github.com/samcarey/aetherweave/internal/render"
)

const (
	DefaultRoster       = "solar"
	DefaultFPS          = 60
	DefaultDuration     = 10.0
	DefaultBodyRadius   = 3.0
	DefaultMargin       = 4.0
	DefaultHitTolerance = 2.0
	DefaultTheme        = "night"
	DefaultLogLevel     = "info"
)

var (
	ErrUnknownRoster = errors.New("config: unknown roster")
	ErrInvalidConfig = errors.New("config: invalid")
)

type Config struct {
	// Roster names a preset. Bodies, when set, replaces it.
	Roster string       `yaml:"roster"`
	Bodies []orbit.Spec `yaml:"bodies,omitempty"`

	Speed    float64 `yaml:"speed"`
	FPS      int     `yaml:"fps"`
	Duration float64 `yaml:"duration"`

	BodyRadius   float64 `yaml:"body_radius"`
	Margin       float64 `yaml:"margin"`
	HitTolerance float64 `yaml:"hit_tolerance"`
	ShowOrbits   bool    `yaml:"show_orbits"`
	ShowVelocity bool    `yaml:"show_velocity"`
	Theme        string  `yaml:"theme"`

	SessionPath    string `yaml:"session_path"`
	SessionBackend string `yaml:"session_backend"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Roster:         DefaultRoster,
		Speed:          clock.DefaultSimulationSpeed,
		FPS:            DefaultFPS,
		Duration:       DefaultDuration,
		BodyRadius:     DefaultBodyRadius,
		Margin:         DefaultMargin,
		HitTolerance:   DefaultHitTolerance,
		ShowOrbits:     true,
		ShowVelocity:   true,
		Theme:          DefaultTheme,
		SessionPath:    filepath.Join(".aetherweave", "session.json"),
		SessionBackend: "file",
		LogFile:        filepath.Join(".aetherweave", "aetherweave.log"),
		LogLevel:       DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FrameDt is the real time between frames in seconds.
func (c *Config) FrameDt() float64 {
	if c.FPS <= 0 {
		return 1.0 / DefaultFPS
	}
	return 1.0 / float64(c.FPS)
}

// Specs returns the custom bodies if any, otherwise the named roster.
func (c *Config) Specs() ([]orbit.Spec, error) {
	if len(c.Bodies) > 0 {
		return c.Bodies, nil
	}
	specs := GetRoster(c.Roster)
	if specs == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoster, c.Roster)
	}
	return specs, nil
}

// RosterName is the label used for runs: the preset name, or "custom".
func (c *Config) RosterName() string {
	if len(c.Bodies) > 0 {
		return "custom"
	}
	return c.Roster
}

// System builds the configured roster.
func (c *Config) System() (*orbit.System, error) {
	specs, err := c.Specs()
	if err != nil {
		return nil, err
	}
	return orbit.NewSystem(specs)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if !(c.Speed >= 0) {
		result = multierror.Append(result, fmt.Errorf("%w: speed must be non-negative, got %g", ErrInvalidConfig, c.Speed))
	}
	if c.FPS <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS))
	}
	if !(c.BodyRadius >= 0) {
		result = multierror.Append(result, fmt.Errorf("%w: body_radius must be non-negative, got %g", ErrInvalidConfig, c.BodyRadius))
	}
	if !(c.Margin >= 0) {
		result = multierror.Append(result, fmt.Errorf("%w: margin must be non-negative, got %g", ErrInvalidConfig, c.Margin))
	}
	if !(c.HitTolerance >= 0) {
		result = multierror.Append(result, fmt.Errorf("%w: hit_tolerance must be non-negative, got %g", ErrInvalidConfig, c.HitTolerance))
	}
	// HitTest compares with a strict <, so a zero hit radius selects nothing.
	if !(c.BodyRadius+c.HitTolerance > 0) {
		result = multierror.Append(result, fmt.Errorf("%w: body_radius + hit_tolerance must be positive", ErrInvalidConfig))
	}
	if !(c.Duration > 0) {
		result = multierror.Append(result, fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration))
	}
	if !slices.Contains(render.ThemeNames(), c.Theme) {
		result = multierror.Append(result, fmt.Errorf("%w: theme %q (want one of %v)", ErrInvalidConfig, c.Theme, render.ThemeNames()))
	}
	switch c.SessionBackend {
	case "", "file", "sqlite":
	default:
		result = multierror.Append(result, fmt.Errorf("%w: session_backend %q", ErrInvalidConfig, c.SessionBackend))
	}
	if _, err := c.Specs(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
