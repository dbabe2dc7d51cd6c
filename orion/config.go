package orion

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/oliverbestmann/twinframe/pulse"
	"github.com/pelletier/go-toml/v2"
)

type WindowConfig struct {
	Label  string `toml:"label"`
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Config of the application. The zero value is usable, see LoadConfig.
type Config struct {
	// windows opened at startup
	Windows []WindowConfig `toml:"windows"`

	// linear rgba, missing components default to 1
	ClearColor []float64 `toml:"clear_color"`

	// one of fifo, mailbox or immediate
	PresentMode string `toml:"present_mode"`

	ForceFallbackAdapter bool `toml:"force_fallback_adapter"`

	// initial render state of every window
	Draw bool `toml:"draw"`

	// what to do with resize events without a window: broadcast or drop
	UnlabeledResize string `toml:"unlabeled_resize"`

	LogLevel string `toml:"log_level"`

	// write a cpu profile into this directory if set
	ProfileDir string `toml:"profile_dir"`
}

// LoadConfig reads the toml configuration file at path. A missing file
// is not an error and yields the default configuration.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}.WithDefaults(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("No config file found, using defaults", slog.String("path", path))
		return Config{}.WithDefaults(), nil
	}

	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	config = config.WithDefaults()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// WithDefaults fills in every unset value.
func (c Config) WithDefaults() Config {
	if len(c.Windows) == 0 {
		c.Windows = []WindowConfig{{Label: "main"}}
	}

	windows := make([]WindowConfig, len(c.Windows))
	for idx, win := range c.Windows {
		if win.Label == "" {
			win.Label = fmt.Sprintf("window-%d", idx)
		}

		if win.Title == "" {
			win.Title = "Twinframe"
		}

		if win.Width == 0 {
			win.Width = 800
		}

		if win.Height == 0 {
			win.Height = 600
		}

		windows[idx] = win
	}

	c.Windows = windows

	if c.PresentMode == "" {
		c.PresentMode = "fifo"
	}

	if c.UnlabeledResize == "" {
		c.UnlabeledResize = "broadcast"
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	return c
}

func (c Config) Validate() error {
	seen := map[string]bool{}
	for _, win := range c.Windows {
		if seen[win.Label] {
			return fmt.Errorf("duplicate window label %q", win.Label)
		}

		seen[win.Label] = true

		if win.Width < 0 || win.Height < 0 {
			return fmt.Errorf("window %q has a negative size", win.Label)
		}
	}

	if len(c.ClearColor) > 4 {
		return fmt.Errorf("clear color has %d components", len(c.ClearColor))
	}

	if _, err := c.ContextOptions(); err != nil {
		return err
	}

	if _, err := c.ResizePolicy(); err != nil {
		return err
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

func (c Config) ContextOptions() (pulse.ContextOptions, error) {
	presentMode, err := pulse.ParsePresentMode(c.PresentMode)
	if err != nil {
		return pulse.ContextOptions{}, err
	}

	return pulse.ContextOptions{
		ClearColor:  pulse.ColorOf(c.ClearColor),
		PresentMode: presentMode,
	}, nil
}

func (c Config) ResizePolicy() (ResizePolicy, error) {
	return ParseResizePolicy(c.UnlabeledResize)
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("parse log level: %w", err)
	}

	return level, nil
}
