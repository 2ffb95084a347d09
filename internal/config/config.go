// Package config provides configuration loading from a YAML file and
// environment variables. Environment variables take precedence for dev flexibility.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/phinze/axispad/internal/axispad"
	"github.com/phinze/axispad/internal/render"
	"gopkg.in/yaml.v3"
)

// Default window settings
const (
	DefaultTitle  = "Axis Pad"
	DefaultWidth  = 800
	DefaultHeight = 480
)

// Config holds the full application configuration, assembled from YAML + env.
type Config struct {
	Window    WindowConfig `yaml:"window"`
	LogEvents bool         `yaml:"log_events"`
	Pads      []PadConfig  `yaml:"pads"`
}

// WindowConfig holds emulator window settings.
type WindowConfig struct {
	Title  string `yaml:"title,omitempty"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

// PadConfig holds one pad's settings. Zero sizes fall back to the defaults.
type PadConfig struct {
	ID string `yaml:"id"`

	Size        float64 `yaml:"size,omitempty"`
	ControlSize float64 `yaml:"control_size,omitempty"`

	DisableX bool    `yaml:"disable_x,omitempty"`
	DisableY bool    `yaml:"disable_y,omitempty"`
	InitialX float64 `yaml:"initial_x,omitempty"`
	InitialY float64 `yaml:"initial_y,omitempty"`
	StepSize float64 `yaml:"step_size,omitempty"`

	KeepControlCompletelyInPadBounds bool                     `yaml:"keep_control_in_bounds,omitempty"`
	InitialTouchType                 axispad.InitialTouchType `yaml:"initial_touch_type"`
	IgnoreTouchDownInPadArea         bool                     `yaml:"ignore_touch_down_in_pad_area,omitempty"`

	// ResetOnRelease defaults to true when unset.
	ResetOnRelease *bool `yaml:"reset_on_release,omitempty"`

	GestureResolveMode axispad.ResolveMode `yaml:"gesture_resolve_mode"`
	StatusBarOffset    float64             `yaml:"status_bar_offset,omitempty"`

	Style StyleConfig `yaml:"style,omitempty"`
}

// StyleConfig overrides pad colours, given as #RRGGBBAA. Empty fields keep
// the defaults.
type StyleConfig struct {
	Background string `yaml:"background,omitempty"`
	Border     string `yaml:"border,omitempty"`
	Knob       string `yaml:"knob,omitempty"`
	Stick      string `yaml:"stick,omitempty"`

	// StickWidth of 0 hides the stick; unset keeps the default.
	StickWidth *float64 `yaml:"stick_width,omitempty"`
	HideLabel  bool     `yaml:"hide_label,omitempty"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "axispad")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if p := os.Getenv("AXISPAD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a configuration with one default pad.
func Default() *Config {
	cfg := &Config{Pads: []PadConfig{{ID: "main"}}}
	cfg.fillWindow()
	return cfg
}

// Load assembles configuration from the default YAML file + environment
// variables. A missing file yields the default single pad.
func Load() (*Config, error) {
	return LoadFile(DefaultConfigPath())
}

// LoadFile is Load with an explicit file path.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	// 1. Try to load YAML config file
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(cfg.Pads) == 0 {
		cfg.Pads = Default().Pads
	}
	cfg.fillWindow()

	// 2. Environment variables override everything
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillWindow() {
	if c.Window.Title == "" {
		c.Window.Title = DefaultTitle
	}
	if c.Window.Width <= 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height <= 0 {
		c.Window.Height = DefaultHeight
	}
}

// applyEnv layers AXISPAD_* variables over every pad.
func (c *Config) applyEnv() error {
	floatVars := []struct {
		name string
		set  func(p *PadConfig, v float64)
	}{
		{"AXISPAD_SIZE", func(p *PadConfig, v float64) { p.Size = v }},
		{"AXISPAD_CONTROL_SIZE", func(p *PadConfig, v float64) { p.ControlSize = v }},
		{"AXISPAD_STEP_SIZE", func(p *PadConfig, v float64) { p.StepSize = v }},
	}
	for _, fv := range floatVars {
		s := os.Getenv(fv.name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", fv.name, err)
		}
		for i := range c.Pads {
			fv.set(&c.Pads[i], v)
		}
	}

	if s := os.Getenv("AXISPAD_TOUCH_TYPE"); s != "" {
		t, err := axispad.ParseInitialTouchType(s)
		if err != nil {
			return fmt.Errorf("AXISPAD_TOUCH_TYPE: %w", err)
		}
		for i := range c.Pads {
			c.Pads[i].InitialTouchType = t
		}
	}

	if s := os.Getenv("AXISPAD_RESET_ON_RELEASE"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("AXISPAD_RESET_ON_RELEASE: %w", err)
		}
		for i := range c.Pads {
			c.Pads[i].ResetOnRelease = &v
		}
	}

	if s := os.Getenv("AXISPAD_LOG_EVENTS"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("AXISPAD_LOG_EVENTS: %w", err)
		}
		c.LogEvents = v
	}
	return nil
}

// Validate checks every pad converts to a valid axispad.Config and style,
// and that pad ids are unique.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Pads))
	for i, p := range c.Pads {
		if p.ID == "" {
			return fmt.Errorf("pad %d: missing id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("pad %s: duplicate id", p.ID)
		}
		seen[p.ID] = true

		if err := p.Pad().Validate(); err != nil {
			return fmt.Errorf("pad %s: %w", p.ID, err)
		}
		if _, err := p.Style.Style(); err != nil {
			return fmt.Errorf("pad %s: %w", p.ID, err)
		}
	}
	return nil
}

// Pad converts the file settings into a controller configuration.
func (p PadConfig) Pad() axispad.Config {
	cfg := axispad.DefaultConfig()
	if p.Size != 0 {
		cfg.Size = p.Size
	}
	if p.ControlSize != 0 {
		cfg.ControlSize = p.ControlSize
	}
	cfg.DisableX = p.DisableX
	cfg.DisableY = p.DisableY
	cfg.InitialX = p.InitialX
	cfg.InitialY = p.InitialY
	cfg.StepSize = p.StepSize
	cfg.KeepControlCompletelyInPadBounds = p.KeepControlCompletelyInPadBounds
	cfg.InitialTouchType = p.InitialTouchType
	cfg.IgnoreTouchDownInPadArea = p.IgnoreTouchDownInPadArea
	if p.ResetOnRelease != nil {
		cfg.ResetOnRelease = *p.ResetOnRelease
	}
	cfg.GestureResolveMode = p.GestureResolveMode
	cfg.StatusBarOffset = p.StatusBarOffset
	return cfg
}

// Style converts the overrides into a render style.
func (s StyleConfig) Style() (render.Style, error) {
	st := render.DefaultStyle()

	// Background and border also tint the stick and frame, as in the
	// default look; an explicit stick colour wins.
	for _, c := range []struct {
		name string
		in   string
		set  func(v color.NRGBA)
	}{
		{"background", s.Background, func(v color.NRGBA) { st.Background, st.Stick, st.Frame = v, v, v }},
		{"border", s.Border, func(v color.NRGBA) { st.Border, st.KnobBorder, st.FrameActive = v, v, v }},
		{"knob", s.Knob, func(v color.NRGBA) { st.Knob = v }},
		{"stick", s.Stick, func(v color.NRGBA) { st.Stick = v }},
	} {
		if c.in == "" {
			continue
		}
		v, err := render.ParseHexColor(c.in)
		if err != nil {
			return render.Style{}, fmt.Errorf("style %s: %w", c.name, err)
		}
		c.set(v)
	}

	if s.StickWidth != nil {
		st.StickWidth = *s.StickWidth
	}
	st.ShowLabel = !s.HideLabel
	return st, nil
}

// WriteConfigFile writes cfg to the default YAML file.
func WriteConfigFile(cfg *Config) error {
	return WriteFile(DefaultConfigPath(), cfg)
}

// WriteFile writes cfg as YAML to path.
func WriteFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
