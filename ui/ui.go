// Package ui drives the interactive simulation: a single-goroutine event
// loop multiplexing the stdin byte stream, resize notifications and the
// tick clock, dispatching into the grid and the renderer.
package ui

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cells/config"
	"cells/grid"
)

// Status is the controller's verdict after one loop iteration.
type Status int

const (
	StatusContinue Status = iota
	StatusFinish
)

// Mode gates whether ticks advance the simulation.
type Mode int

const (
	ModePaused Mode = iota
	ModeRunning
	ModeCompleted
)

// Names are padded to equal width so the status bar keeps its layout on
// incremental repaints.
var modeNames = [...]string{"PAUSED  ", "RUNNING ", "COMPLETE"}

// UI owns the loop state. All fields are touched only by the goroutine
// running Loop; the stdin pump and the signal runtime communicate with it
// exclusively over the two channels.
type UI struct {
	view   *View
	reader *Reader
	term   *Term

	mode     Mode
	brush    grid.CellState
	events   Event
	lastTick time.Time

	in    <-chan byte
	winch chan os.Signal
}

// New wires the controller: resize notifications through the signal
// channel (the runtime handler does the asynchronous work, the loop is the
// sole reader) and the stdin pump feeding the reader.
func New(cfg *config.Config) (*UI, error) {
	view, err := NewView(cfg, os.Stdout)
	if err != nil {
		return nil, err
	}

	in := startPump(os.Stdin)

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)

	return &UI{
		view:     view,
		reader:   NewReader(in),
		term:     NewTerm(),
		mode:     ModePaused,
		events:   EventRedraw,
		lastTick: time.Now(),
		in:       in,
		winch:    winch,
	}, nil
}

// Close undoes the resize-notification installation.
func (u *UI) Close() {
	signal.Stop(u.winch)
}

// Prepare acquires the terminal: raw mode, then the alternate screen with
// mouse tracking.
func (u *UI) Prepare() error {
	if err := u.term.EnableRaw(); err != nil {
		return err
	}

	return u.view.Init()
}

// Finish releases the terminal in reverse order. It must run on every
// exit path, error exits included.
func (u *UI) Finish() error {
	endErr := u.view.End()

	if err := u.term.Restore(); err != nil {
		return err
	}

	return endErr
}

// wait blocks until input arrives, the window changes or the tick deadline
// expires. It is the loop's single suspension point.
func (u *UI) wait(cfg *config.Config) {
	delta := time.Until(u.lastTick.Add(cfg.Delay))
	if delta < 0 {
		delta = 0
	}

	timer := time.NewTimer(delta)
	defer timer.Stop()

	select {
	case <-timer.C:

	case <-u.winch:
		u.events.set(EventWinch)

	case b, ok := <-u.in:
		if ok {
			u.reader.Prime(b)
		}
		u.events.set(EventInput)
	}
}

// drainWinch swallows resize notifications that queued up while painting;
// one re-query of the window size covers them all.
func (u *UI) drainWinch() {
	for {
		select {
		case <-u.winch:
		default:
			return
		}
	}
}

func (u *UI) clockUpdate(cfg *config.Config) {
	now := time.Now()

	if now.Sub(u.lastTick) > cfg.Delay {
		u.lastTick = now
		u.events.set(EventTick)
	}
}

func (u *UI) nextGeneration(g *grid.Grid, cfg *config.Config, step *int) error {
	if cfg.Steps != 0 && *step >= cfg.Steps {
		return nil
	}

	var err error
	if cfg.UseTorus {
		err = g.UpdateToroidal()
	} else {
		err = g.Update()
	}
	if err != nil {
		return err
	}

	*step++
	if *step == cfg.Steps {
		u.mode = ModeCompleted
	}

	u.events.set(EventRedraw)

	return nil
}

func (u *UI) handlePause() {
	if u.mode == ModeRunning {
		u.mode = ModePaused
	} else {
		u.mode = ModeRunning
	}

	u.events.set(EventRedraw)
}

// paintCell applies the brush to one cell. Out-of-bounds positions are
// ignored; the grid's own check is the last word.
func (u *UI) paintCell(g *grid.Grid, row, col int) {
	var err error
	if u.brush == grid.CellAlive {
		err = g.SetAlive(row, col)
	} else {
		err = g.SetDead(row, col)
	}

	if err == nil {
		u.events.set(EventRedraw)
	}
}

// handlePress picks the brush as the inverse of the pressed cell, then
// paints it. The brush keeps applying for the rest of the drag.
func (u *UI) handlePress(g *grid.Grid) {
	row, col := u.reader.MousePos()

	gridRow, gridCol, ok := u.view.RelativePos(g, row, col)
	if !ok {
		return
	}

	state, err := g.CellState(gridRow, gridCol)
	if err != nil {
		u.reader.CancelPress()
		return
	}

	if state == grid.CellAlive {
		u.brush = grid.CellDead
	} else {
		u.brush = grid.CellAlive
	}

	u.paintCell(g, gridRow, gridCol)
}

func (u *UI) handleDrag(g *grid.Grid) {
	row, col := u.reader.MousePos()

	gridRow, gridCol, ok := u.view.RelativePos(g, row, col)
	if !ok {
		return
	}

	u.paintCell(g, gridRow, gridCol)
}

func (u *UI) handleKey(g *grid.Grid, cfg *config.Config, step *int) (Status, error) {
	if u.mode == ModeCompleted {
		if u.reader.Key() == KeyExit {
			return StatusFinish, nil
		}
		return StatusContinue, nil
	}

	switch u.reader.Key() {
	case KeyPause:
		u.handlePause()

	case KeyExit:
		return StatusFinish, nil

	case KeyPress:
		u.handlePress(g)

	case KeyDrag:
		u.handleDrag(g)

	case KeyRelease:

	case KeyRandomize:
		if err := g.Randomize(); err != nil {
			return 0, err
		}
		u.events.set(EventRedraw)

	case KeyClear:
		g.Clear()
		u.events.set(EventRedraw)

	case KeyFrame:
		if u.mode == ModePaused {
			if err := u.nextGeneration(g, cfg, step); err != nil {
				return 0, err
			}
		}
	}

	return StatusContinue, nil
}

// Loop runs one iteration: paint, wait, clock, resize, tick, input, in
// that order. A redraw requested by this iteration's events is painted at
// the top of the next one.
func (u *UI) Loop(g *grid.Grid, cfg *config.Config, step *int) (Status, error) {
	if u.events.testAndClear(EventRedraw) {
		resize := u.events.testAndClear(EventResize)

		if err := u.view.PaintGrid(g, *step, cfg.Steps, modeNames[u.mode], resize); err != nil {
			return 0, fmt.Errorf("paint grid: %w", err)
		}
	}

	u.wait(cfg)

	u.clockUpdate(cfg)

	if u.events.testAndClear(EventWinch) {
		u.drainWinch()

		changed, err := u.view.UpdateDims()
		if err != nil {
			return 0, err
		}
		if changed {
			u.events.set(EventRedraw)
			u.events.set(EventResize)
		}
	}

	if u.events.testAndClear(EventTick) && u.mode == ModeRunning {
		if err := u.nextGeneration(g, cfg, step); err != nil {
			return 0, err
		}
	}

	if u.events.testAndClear(EventInput) {
		for {
			switch u.reader.Parse() {
			case ReadEOF:
				return StatusFinish, nil

			case ReadFinished:
				return StatusContinue, nil

			case ReadNewKey:
				status, err := u.handleKey(g, cfg, step)
				if err != nil || status == StatusFinish {
					return status, err
				}

			case ReadContinue:
			}
		}
	}

	return StatusContinue, nil
}
