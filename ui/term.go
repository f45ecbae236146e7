package ui

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// Term tracks the saved terminal state while raw mode is active.
type Term struct {
	fd    int
	saved *term.State
}

func NewTerm() *Term {
	return &Term{fd: int(os.Stdin.Fd())}
}

func (t *Term) EnableRaw() error {
	saved, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}

	t.saved = saved

	return nil
}

func (t *Term) Restore() error {
	if t.saved == nil {
		return nil
	}

	saved := t.saved
	t.saved = nil

	if err := term.Restore(t.fd, saved); err != nil {
		return fmt.Errorf("disable raw mode: %w", err)
	}

	return nil
}

const winsizeRetries = 10

// winSize queries the terminal dimensions, re-reading until two consecutive
// queries agree. Some emulators deliver the resize signal before the
// window has visually settled.
func winSize() (rows, cols int, err error) {
	fd := int(os.Stdout.Fd())

	prevW, prevH, err := term.GetSize(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("query window size: %w", err)
	}

	for i := 0; i < winsizeRetries; i++ {
		time.Sleep(time.Millisecond)

		w, h, err := term.GetSize(fd)
		if err != nil {
			return 0, 0, fmt.Errorf("query window size: %w", err)
		}

		if w == prevW && h == prevH {
			break
		}

		prevW, prevH = w, h
	}

	return prevH, prevW, nil
}
