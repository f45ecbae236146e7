package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// cellWidth returns the terminal display width of a cell glyph.
func cellWidth(s string) (int, error) {
	if !utf8.ValidString(s) {
		return 0, fmt.Errorf("invalid utf8 string provided as cell shape: %q", s)
	}

	return runewidth.StringWidth(s), nil
}

// setShape installs a glyph pair after checking that both render at the
// same non-zero width; mismatched widths would shear the frame.
func (c *Config) setShape(alive, dead string) error {
	aliveWidth, err := cellWidth(alive)
	if err != nil {
		return err
	}
	deadWidth, err := cellWidth(dead)
	if err != nil {
		return err
	}

	if aliveWidth == 0 || deadWidth == 0 {
		return fmt.Errorf("alive and dead cells width must be at least one")
	}
	if aliveWidth != deadWidth {
		return fmt.Errorf("alive and dead cells shape must have the same width")
	}

	c.ShapeAlive = alive
	c.ShapeDead = dead
	c.ShapeWidth = aliveWidth

	return nil
}
