// Package config resolves the simulation configuration from the config
// file defaults and the command line.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// ErrHelp reports that usage was printed and the program should exit
// cleanly without running.
var ErrHelp = errors.New("help requested")

// SimMode selects between the interactive terminal and headless runs.
type SimMode int

const (
	ModeGraphic SimMode = iota
	ModeSilent
)

const (
	defaultShapeAlive = "██"
	defaultShapeDead  = "  "
	defaultShapeWidth = 2

	defaultColorDark  = 103
	defaultColorLight = 146

	defaultDelay = 50 * time.Millisecond
)

// StepsUnbounded is the internal encoding of "no step cap". It is not
// accepted from the user.
const StepsUnbounded = 0

// Config is the resolved run configuration.
type Config struct {
	InputFile  string
	OutputFile string

	ShapeAlive string
	ShapeDead  string
	ShapeWidth int

	ChunkRows int
	ChunkCols int

	Steps int
	Delay time.Duration

	Mode SimMode

	ColorDark  uint8
	ColorLight uint8

	UseTorus bool
}

// New resolves the configuration: built-in defaults, then the optional
// config file, then the argument list.
func New(args []string) (*Config, error) {
	cfg := &Config{
		ShapeAlive: defaultShapeAlive,
		ShapeDead:  defaultShapeDead,
		ShapeWidth: defaultShapeWidth,
		ColorDark:  defaultColorDark,
		ColorLight: defaultColorLight,
		Delay:      defaultDelay,
		Mode:       ModeGraphic,
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}

	// Two-argument options (--dim <H> <W>, --shape <a> <d>,
	// --color <d> <l>) are not expressible with pflag, so the command
	// parses its own argument list.
	cmd := &cobra.Command{
		Use:   "cells (-i <file> | --dim <height> <width>) [options]",
		Short: "interactive Game of Life simulator for the terminal",
		Long: `cells simulates Conway's Game of Life on a bit-parallel grid of 32x32
chunks, rendered as a centered frame in the terminal.

Options:
  -i <file>                  load the initial state from a save file (needs -n)
  --dim <height> <width>     start zero-filled with the given chunk dimensions
  -n <steps>                 stop after this many generations (must be > 0)
  -o <file>                  save the final state on normal exit
  --torus                    wrap the grid edges around
  --silent                   run headless: advance -n steps and exit
  --graphic                  run interactively (the default)
  --shape <alive> <dead>     cell glyphs; both must share a non-zero width
  --color <dark> <light>     two 8-bit ANSI 256-color codes
  --delay <ms>               delay between generations (default 50)`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.parseArgs(cmd, args)
		},
	}

	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseUint32(value, name string) (uint32, error) {
	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s provided outside valid range: %q", name, value)
	}

	return uint32(parsed), nil
}

func parseUint8(value, name string) (uint8, error) {
	parsed, err := strconv.ParseUint(value, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%s provided outside valid range: %q", name, value)
	}

	return uint8(parsed), nil
}

func (c *Config) parseArgs(cmd *cobra.Command, args []string) error {
	var hasInput, hasDims, hasSteps, graphic, silent bool

	i := 0
	next := func(opt string) (string, error) {
		if i >= len(args) {
			return "", fmt.Errorf("%s requires an argument", opt)
		}

		value := args[i]
		i++

		return value, nil
	}

	for i < len(args) {
		opt := args[i]
		i++

		switch opt {
		case "-h", "--help":
			if err := cmd.Help(); err != nil {
				return err
			}
			return ErrHelp

		case "-i":
			if hasDims {
				return errors.New("-i option is incompatible with option --dim")
			}

			value, err := next(opt)
			if err != nil {
				return err
			}

			c.InputFile = value
			hasInput = true

		case "-n":
			if !hasDims && !hasInput {
				return errors.New("-n option must be provided after -i or --dim")
			}

			value, err := next(opt)
			if err != nil {
				return err
			}

			steps, err := parseUint32(value, "steps")
			if err != nil {
				return err
			}
			if steps == StepsUnbounded {
				return errors.New("step number must be greater than zero")
			}

			c.Steps = int(steps)
			hasSteps = true

		case "-o":
			value, err := next(opt)
			if err != nil {
				return err
			}

			c.OutputFile = value

		case "--dim":
			if hasInput {
				return errors.New("--dim option is incompatible with option -i")
			}

			height, err := next(opt)
			if err != nil {
				return fmt.Errorf("--dim requires 2 arguments: --dim <height> <width>")
			}
			width, err := next(opt)
			if err != nil {
				return fmt.Errorf("--dim requires 2 arguments: --dim <height> <width>")
			}

			rows, err := parseUint32(height, "height in --dim")
			if err != nil {
				return err
			}
			cols, err := parseUint32(width, "width in --dim")
			if err != nil {
				return err
			}
			if rows == 0 || cols == 0 {
				return errors.New("width and height in --dim must be greater than zero")
			}

			c.ChunkRows = int(rows)
			c.ChunkCols = int(cols)
			hasDims = true

		case "--torus":
			c.UseTorus = true

		case "--silent":
			if !hasDims && !hasInput {
				return errors.New("--silent option must be provided after -i or --dim")
			}
			if graphic {
				return errors.New("--silent option is incompatible with --graphic")
			}

			c.Mode = ModeSilent
			silent = true

		case "--graphic":
			if !hasDims && !hasInput {
				return errors.New("--graphic option must be provided after -i or --dim")
			}
			if silent {
				return errors.New("--graphic option is incompatible with --silent")
			}

			c.Mode = ModeGraphic
			graphic = true

		case "--shape":
			if !graphic {
				return errors.New("--shape option requires --graphic")
			}

			alive, err := next(opt)
			if err != nil {
				return fmt.Errorf("--shape requires 2 arguments: --shape <alive_cell> <dead_cell>")
			}
			dead, err := next(opt)
			if err != nil {
				return fmt.Errorf("--shape requires 2 arguments: --shape <alive_cell> <dead_cell>")
			}

			if err := c.setShape(alive, dead); err != nil {
				return err
			}

		case "--color":
			if !graphic {
				return errors.New("--color option requires --graphic")
			}

			dark, err := next(opt)
			if err != nil {
				return fmt.Errorf("--color requires 2 arguments: --color <color_dark> <color_light>")
			}
			light, err := next(opt)
			if err != nil {
				return fmt.Errorf("--color requires 2 arguments: --color <color_dark> <color_light>")
			}

			darkCode, err := parseUint8(dark, "ANSI dark app color")
			if err != nil {
				return err
			}
			lightCode, err := parseUint8(light, "ANSI light app color")
			if err != nil {
				return err
			}

			c.ColorDark = darkCode
			c.ColorLight = lightCode

		case "--delay":
			if !graphic {
				return errors.New("--delay option requires --graphic")
			}

			value, err := next(opt)
			if err != nil {
				return err
			}

			delay, err := parseUint32(value, "delay")
			if err != nil {
				return err
			}

			c.Delay = time.Duration(delay) * time.Millisecond

		default:
			return fmt.Errorf("unknown or malformed option: %q", opt)
		}
	}

	if !hasInput && !hasDims {
		return errors.New("either -i or --dim is required")
	}
	if hasInput && !hasSteps {
		return errors.New("-n <steps> is required when using -i")
	}
	if c.Mode == ModeSilent && !hasSteps {
		return errors.New("-n <steps> is required when using --silent")
	}

	return nil
}
