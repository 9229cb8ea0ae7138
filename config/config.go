// Package config loads the settings of the text inputs from TOML or YAML
// files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oligo/gvinput/editor"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither TOML nor
	// YAML.
	ErrUnsupportedFormat = errors.New("unsupported config format")
	// ErrInvalid is returned when a setting has an invalid value.
	ErrInvalid = errors.New("invalid config")
)

// Config holds the settings of the request inputs.
type Config struct {
	URL    Input  `toml:"url" yaml:"url"`
	Body   Input  `toml:"body" yaml:"body"`
	Keymap Keymap `toml:"keymap" yaml:"keymap"`
	Log    Log    `toml:"log" yaml:"log"`
}

// Input configures one text input.
type Input struct {
	// Mode is "single-line" or "multi-line".
	Mode        string `toml:"mode" yaml:"mode"`
	Placeholder string `toml:"placeholder" yaml:"placeholder"`
}

// Keymap configures the shortcuts of the inputs.
type Keymap struct {
	// SelectAll lists the modifier combinations accepted with the "a" key
	// to select all text, such as "ctrl" or "platform". Empty uses the
	// platform default.
	SelectAll []string `toml:"select_all" yaml:"select_all"`
}

// Log configures logging.
type Log struct {
	// Level is a slog level name: debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		URL: Input{
			Mode:        editor.ModeSingleLine.String(),
			Placeholder: "https://",
		},
		Body: Input{
			Mode:        editor.ModeMultiLine.String(),
			Placeholder: "Request body",
		},
		Log: Log{Level: "info"},
	}
}

// Load reads the config file at path. The format is chosen by the file
// extension. Settings missing from the file keep their default value.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Decode(data, formatOf(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in format, "toml" or "yaml", on top of the defaults
// and validates the result.
func Decode(data []byte, format string) (Config, error) {
	cfg := Default()

	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q (use .toml, .yaml or .yml)", ErrUnsupportedFormat, format)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path in the format matching its extension.
func Save(cfg Config, path string) error {
	var (
		data []byte
		err  error
	)

	switch format := formatOf(path); format {
	case "toml":
		data, err = toml.Marshal(cfg)
	case "yaml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("%w: %q (use .toml, .yaml or .yml)", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func formatOf(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}

// Validate checks every setting.
func (c Config) Validate() error {
	for name, in := range map[string]Input{"url": c.URL, "body": c.Body} {
		if _, err := ParseMode(in.Mode); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if _, err := c.SelectAllModifiers(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// EditorOptions returns the editor options for in.
func (c Config) EditorOptions(in Input) ([]editor.Option, error) {
	mode, err := ParseMode(in.Mode)
	if err != nil {
		return nil, err
	}
	opts := []editor.Option{
		editor.WithMode(mode),
		editor.WithPlaceholder(in.Placeholder),
	}

	mods, err := c.SelectAllModifiers()
	if err != nil {
		return nil, err
	}
	if len(mods) > 0 {
		opts = append(opts, editor.WithSelectAllModifiers(mods...))
	}
	return opts, nil
}

// SelectAllModifiers parses the select-all keymap. It returns nil if the
// platform default applies.
func (c Config) SelectAllModifiers() ([]editor.Modifiers, error) {
	var mods []editor.Modifiers
	for _, s := range c.Keymap.SelectAll {
		m, err := ParseModifiers(s)
		if err != nil {
			return nil, fmt.Errorf("keymap.select_all: %w", err)
		}
		mods = append(mods, m)
	}
	return mods, nil
}

// LogLevel parses the configured log level. An empty level is Info.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return level, nil
}

// ParseMode parses an editing mode name. An empty name is single line.
func ParseMode(s string) (editor.Mode, error) {
	switch strings.ToLower(s) {
	case "", "single-line", "singleline":
		return editor.ModeSingleLine, nil
	case "multi-line", "multiline":
		return editor.ModeMultiLine, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalid, s)
	}
}

// ParseModifiers parses a "+" separated list of modifier names, such as
// "ctrl+shift".
func ParseModifiers(s string) (editor.Modifiers, error) {
	var mods editor.Modifiers
	for _, name := range strings.Split(s, "+") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "ctrl", "control":
			mods |= editor.ModCtrl
		case "platform", "cmd", "command", "super":
			mods |= editor.ModPlatform
		case "alt", "option":
			mods |= editor.ModAlt
		case "shift":
			mods |= editor.ModShift
		default:
			return 0, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalid, name, s)
		}
	}
	return mods, nil
}
