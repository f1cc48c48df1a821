// Package config loads runtime settings: built-in defaults, then an optional
// TOML file, then GLYPHMAP_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"glyphmap/internal/geom"
	"glyphmap/internal/glyph"
)

// Config holds settings shared by the terminal, export and server hosts.
type Config struct {
	Canvas    glyph.Canvas `toml:"canvas"`
	FPS       int          `toml:"fps"`
	Data      string       `toml:"data"`
	World     string       `toml:"world"`
	DBTable   string       `toml:"db_table"`
	Addr      string       `toml:"addr"`
	ExportDir string       `toml:"export_dir"`
	Frames    int          `toml:"frames"`
	FontSize  float64      `toml:"font_size"`
	LogLevel  string       `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Canvas:   glyph.DefaultCanvas(),
		FPS:      30,
		DBTable:  geom.DefaultTable,
		Addr:     ":8080",
		Frames:   300,
		FontSize: 12,
		LogLevel: "info",
	}
}

// Load reads path over the defaults, when path is not empty, and applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return cfg, fmt.Errorf("config: %s: %s", path, strict.String())
			}
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"GLYPHMAP_DATA":      &c.Data,
		"GLYPHMAP_WORLD":     &c.World,
		"GLYPHMAP_ADDR":      &c.Addr,
		"GLYPHMAP_DB_TABLE":  &c.DBTable,
		"GLYPHMAP_LOG_LEVEL": &c.LogLevel,
	}
	for k, p := range str {
		if v, ok := lookup(k); ok && v != "" {
			*p = v
		}
	}
	if v, ok := lookup("GLYPHMAP_FPS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: GLYPHMAP_FPS: %w", err)
		}
		c.FPS = n
	}
	return nil
}

// Validate rejects settings the hosts cannot run with.
func (c Config) Validate() error {
	var errs []error
	cv := c.Canvas
	if cv.Width <= 0 || cv.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %gx%g must be positive", cv.Width, cv.Height))
	}
	if cv.TitleHeight < 0 || cv.TitleHeight >= cv.Height {
		errs = append(errs, fmt.Errorf("title height %g must be within the canvas", cv.TitleHeight))
	}
	if cv.Intervals <= 0 {
		errs = append(errs, errors.New("intervals must be positive"))
	}
	if cv.MaxSpeed <= 0 {
		errs = append(errs, errors.New("max speed must be positive"))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", c.FPS))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames %d must not be negative", c.Frames))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
