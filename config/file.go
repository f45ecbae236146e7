package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml"
)

// fileDefaults mirrors the optional config file. Pointer fields
// distinguish "absent" from a zero value.
type fileDefaults struct {
	ShapeAlive string  `toml:"shape_alive"`
	ShapeDead  string  `toml:"shape_dead"`
	ColorDark  *uint8  `toml:"color_dark"`
	ColorLight *uint8  `toml:"color_light"`
	Delay      *uint32 `toml:"delay"`
	Torus      *bool   `toml:"torus"`
}

// filePath locates the config file under the user config directory
// ($XDG_CONFIG_HOME or the platform equivalent).
func filePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "cells", "cells.toml"), nil
}

// loadFile applies defaults from the config file, if one exists. Command
// line options override anything set here.
func (c *Config) loadFile() error {
	path, err := filePath()
	if err != nil {
		// No resolvable config directory simply means no file defaults.
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var defaults fileDefaults
	if err := toml.Unmarshal(data, &defaults); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if defaults.ShapeAlive != "" || defaults.ShapeDead != "" {
		if defaults.ShapeAlive == "" || defaults.ShapeDead == "" {
			return fmt.Errorf("config file %s: shape_alive and shape_dead must be set together", path)
		}
		if err := c.setShape(defaults.ShapeAlive, defaults.ShapeDead); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if defaults.ColorDark != nil {
		c.ColorDark = *defaults.ColorDark
	}
	if defaults.ColorLight != nil {
		c.ColorLight = *defaults.ColorLight
	}
	if defaults.Delay != nil {
		c.Delay = time.Duration(*defaults.Delay) * time.Millisecond
	}
	if defaults.Torus != nil {
		c.UseTorus = *defaults.Torus
	}

	return nil
}
