package ui

import (
	"bytes"
	"os"
	"testing"
	"time"

	"cells/config"
	"cells/grid"
)

func newTestConfig() *config.Config {
	return &config.Config{
		ShapeAlive: "██",
		ShapeDead:  "  ",
		ShapeWidth: 2,
		ColorDark:  103,
		ColorLight: 146,
		Delay:      time.Millisecond,
	}
}

func newTestUI(out *bytes.Buffer) (*UI, chan byte) {
	ch := make(chan byte, 256)

	return &UI{
		view:     newTestView(out, 40, 80),
		reader:   NewReader(ch),
		term:     NewTerm(),
		mode:     ModePaused,
		events:   EventRedraw,
		lastTick: time.Now(),
		in:       ch,
		winch:    make(chan os.Signal, 1),
	}, ch
}

func TestPauseToggles(t *testing.T) {
	var out bytes.Buffer
	u, _ := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	cfg := newTestConfig()
	step := 0

	u.reader.key = KeyPause
	if status, err := u.handleKey(g, cfg, &step); err != nil || status != StatusContinue {
		t.Fatalf("handleKey = (%v, %v)", status, err)
	}
	if u.mode != ModeRunning {
		t.Errorf("mode = %v after pause key, want ModeRunning", u.mode)
	}
	if !u.events.testAndClear(EventRedraw) {
		t.Error("pause toggle should request a redraw")
	}

	if _, err := u.handleKey(g, cfg, &step); err != nil {
		t.Fatalf("handleKey error = %v", err)
	}
	if u.mode != ModePaused {
		t.Errorf("mode = %v after second pause key, want ModePaused", u.mode)
	}
}

func TestExitKeyFinishes(t *testing.T) {
	var out bytes.Buffer
	u, _ := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	step := 0

	u.reader.key = KeyExit
	status, err := u.handleKey(g, newTestConfig(), &step)
	if err != nil || status != StatusFinish {
		t.Errorf("handleKey = (%v, %v), want (StatusFinish, nil)", status, err)
	}
}

func TestCompletedModeOnlyExits(t *testing.T) {
	var out bytes.Buffer
	u, _ := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	cfg := newTestConfig()
	step := 0

	u.mode = ModeCompleted
	u.events = 0

	for _, key := range []Key{KeyPause, KeyRandomize, KeyClear, KeyFrame, KeyPress, KeyDrag} {
		u.reader.key = key

		status, err := u.handleKey(g, cfg, &step)
		if err != nil || status != StatusContinue {
			t.Fatalf("handleKey(%v) = (%v, %v)", key, status, err)
		}
		if u.mode != ModeCompleted || u.events != 0 || step != 0 {
			t.Errorf("key %v should have no effect once completed", key)
		}
	}

	u.reader.key = KeyExit
	if status, _ := u.handleKey(g, cfg, &step); status != StatusFinish {
		t.Error("exit key should finish even when completed")
	}
}

func TestPressPicksInverseBrush(t *testing.T) {
	var out bytes.Buffer
	u, _ := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	step := 0

	// Terminal (4, 8) maps to cell (0, 0) on the 40x80 test terminal.
	u.reader.key = KeyPress
	u.reader.mouseRow, u.reader.mouseCol = 4, 8

	if _, err := u.handleKey(g, newTestConfig(), &step); err != nil {
		t.Fatalf("handleKey error = %v", err)
	}

	if u.brush != grid.CellAlive {
		t.Error("pressing a dead cell should pick the alive brush")
	}
	if state, _ := g.CellState(0, 0); state != grid.CellAlive {
		t.Error("pressed cell should toggle alive")
	}
	if !u.events.testAndClear(EventRedraw) {
		t.Error("painting should request a redraw")
	}

	// Pressing a live cell flips the brush the other way.
	u.reader.CancelPress()
	if _, err := u.handleKey(g, newTestConfig(), &step); err != nil {
		t.Fatalf("handleKey error = %v", err)
	}
	if u.brush != grid.CellDead {
		t.Error("pressing a live cell should pick the dead brush")
	}
	if state, _ := g.CellState(0, 0); state != grid.CellDead {
		t.Error("pressed cell should toggle back dead")
	}
}

func TestDragAppliesBrush(t *testing.T) {
	var out bytes.Buffer
	u, _ := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	step := 0

	u.brush = grid.CellAlive

	u.reader.key = KeyDrag
	u.reader.mouseRow, u.reader.mouseCol = 5, 10

	if _, err := u.handleKey(g, newTestConfig(), &step); err != nil {
		t.Fatalf("handleKey error = %v", err)
	}
	if state, _ := g.CellState(1, 1); state != grid.CellAlive {
		t.Error("drag should paint with the active brush")
	}
}

func TestClickOutsideFrameIgnored(t *testing.T) {
	var out bytes.Buffer
	u, _ := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	step := 0

	u.events = 0
	u.reader.key = KeyPress
	u.reader.mouseRow, u.reader.mouseCol = 1, 1

	if _, err := u.handleKey(g, newTestConfig(), &step); err != nil {
		t.Fatalf("handleKey error = %v", err)
	}
	if u.events != 0 {
		t.Error("a click above the frame should be consumed silently")
	}
}

func TestClearKey(t *testing.T) {
	var out bytes.Buffer
	u, _ := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	step := 0

	if err := g.SetAlive(2, 2); err != nil {
		t.Fatalf("SetAlive error = %v", err)
	}

	u.reader.key = KeyClear
	if _, err := u.handleKey(g, newTestConfig(), &step); err != nil {
		t.Fatalf("handleKey error = %v", err)
	}

	if state, _ := g.CellState(2, 2); state != grid.CellDead {
		t.Error("clear key should kill every cell")
	}
	if !u.events.testAndClear(EventRedraw) {
		t.Error("clear should request a redraw")
	}
}

func TestFrameKeyAdvancesOnlyWhenPaused(t *testing.T) {
	var out bytes.Buffer
	u, _ := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	cfg := newTestConfig()
	step := 0

	u.reader.key = KeyFrame
	if _, err := u.handleKey(g, cfg, &step); err != nil {
		t.Fatalf("handleKey error = %v", err)
	}
	if step != 1 {
		t.Errorf("step = %d after frame key while paused, want 1", step)
	}

	u.mode = ModeRunning
	if _, err := u.handleKey(g, cfg, &step); err != nil {
		t.Fatalf("handleKey error = %v", err)
	}
	if step != 1 {
		t.Errorf("step = %d after frame key while running, want 1", step)
	}
}

func TestNextGenerationReachesCap(t *testing.T) {
	var out bytes.Buffer
	u, _ := newTestUI(&out)
	g := mustGrid(t, 1, 1)

	cfg := newTestConfig()
	cfg.Steps = 2
	step := 1

	if err := u.nextGeneration(g, cfg, &step); err != nil {
		t.Fatalf("nextGeneration error = %v", err)
	}
	if step != 2 || u.mode != ModeCompleted {
		t.Errorf("step = %d mode = %v, want 2 and ModeCompleted", step, u.mode)
	}

	// At the cap further generations are refused.
	if err := u.nextGeneration(g, cfg, &step); err != nil {
		t.Fatalf("nextGeneration error = %v", err)
	}
	if step != 2 {
		t.Errorf("step advanced past the cap to %d", step)
	}
}

func TestLoopFinishesOnExitKey(t *testing.T) {
	var out bytes.Buffer
	u, ch := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	cfg := newTestConfig()
	step := 0

	ch <- 0x11

	for i := 0; i < 50; i++ {
		status, err := u.Loop(g, cfg, &step)
		if err != nil {
			t.Fatalf("Loop() error = %v", err)
		}
		if status == StatusFinish {
			return
		}
	}

	t.Fatal("Loop never consumed the exit key")
}

func TestLoopFinishesOnEOF(t *testing.T) {
	var out bytes.Buffer
	u, ch := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	cfg := newTestConfig()
	step := 0

	close(ch)

	for i := 0; i < 50; i++ {
		status, err := u.Loop(g, cfg, &step)
		if err != nil {
			t.Fatalf("Loop() error = %v", err)
		}
		if status == StatusFinish {
			return
		}
	}

	t.Fatal("Loop never surfaced the closed input stream")
}

func TestLoopTicksOnlyWhileRunning(t *testing.T) {
	var out bytes.Buffer
	u, _ := newTestUI(&out)
	g := mustGrid(t, 1, 1)
	cfg := newTestConfig()
	step := 0

	for i := 0; i < 5; i++ {
		if _, err := u.Loop(g, cfg, &step); err != nil {
			t.Fatalf("Loop() error = %v", err)
		}
	}
	if step != 0 {
		t.Errorf("step = %d while paused, want 0", step)
	}

	u.mode = ModeRunning
	u.lastTick = time.Now().Add(-time.Second)

	for i := 0; i < 5 && step == 0; i++ {
		if _, err := u.Loop(g, cfg, &step); err != nil {
			t.Fatalf("Loop() error = %v", err)
		}
	}
	if step == 0 {
		t.Error("running mode should advance generations on ticks")
	}
}
