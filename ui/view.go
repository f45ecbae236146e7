package ui

import (
	"io"
	"strconv"

	"cells/config"
	"cells/grid"
)

// View renders the framed grid centered against the current terminal size,
// assembling every frame in the printer and flushing it in one write.
type View struct {
	p *printer

	rows int
	cols int

	cellWidth  int
	cellAlive  string
	cellDead   string
	colorLight uint8
	colorDark  uint8
}

func NewView(cfg *config.Config, out io.Writer) (*View, error) {
	rows, cols, err := winSize()
	if err != nil {
		return nil, err
	}

	return &View{
		p:          newPrinter(out),
		rows:       rows,
		cols:       cols,
		cellWidth:  cfg.ShapeWidth,
		cellAlive:  cfg.ShapeAlive,
		cellDead:   cfg.ShapeDead,
		colorLight: cfg.ColorLight,
		colorDark:  cfg.ColorDark,
	}, nil
}

// Init enters the alternate screen and turns on SGR mouse tracking.
func (v *View) Init() error {
	v.p.appendf("%s%s%s%s\n", cursorHide, initAltBuf, mouseTrackingOn, sgrEncodingOn)

	return v.p.dump()
}

// End undoes Init in reverse order.
func (v *View) End() error {
	v.p.appendf("%s%s%s%s\n", sgrEncodingOff, mouseTrackingOff, killAltBuf, cursorShow)

	return v.p.dump()
}

// UpdateDims re-queries the terminal size and reports whether it changed.
func (v *View) UpdateDims() (bool, error) {
	rows, cols, err := winSize()
	if err != nil {
		return false, err
	}

	if v.rows == rows && v.cols == cols {
		return false, nil
	}

	v.rows = rows
	v.cols = cols

	return true, nil
}

// occupied returns the total frame footprint: grid plus borders plus the
// status line below.
func (v *View) occupied(rows, cols int) (occupiedRows, occupiedCols int) {
	return rows + 2 + 1, cols*v.cellWidth + 4
}

func (v *View) centerCols(occupied int) {
	v.p.appendf("\x1b[%dC", (v.cols-occupied)/2)
}

func (v *View) centerRows(occupied int) {
	v.p.appendf("\x1b[%dB", (v.rows-occupied)/2)
}

func (v *View) paintLine(length int) {
	for i := 0; i < length-2; i++ {
		v.p.append("━")
	}
}

func (v *View) screenLow() error {
	v.centerRows(2)
	v.centerCols(len("your window is"))
	v.p.appendf("%s\x1b[0;38;5;%dmyour window is%s\n\r", clearFromStart, v.colorDark, clearRight)
	v.centerCols(len("too low for cells"))
	v.p.appendf("%s\x1b[1;38;5;%dmtoo low\x1b[0;38;5;%dm for \x1b[1;38;5;%dmcells%s\n\r",
		clearLeft, v.colorLight, v.colorDark, v.colorLight, clearToEnd)

	return v.p.dump()
}

func (v *View) screenNarrow() error {
	v.centerRows(2)
	v.centerCols(len("your window is"))
	v.p.appendf("%s\x1b[0;38;5;%dmyour window is%s\n\r", clearFromStart, v.colorDark, clearRight)
	v.centerCols(len("too narrow for cells"))
	v.p.appendf("%s\x1b[1;38;5;%dmtoo narrow\x1b[0;38;5;%dm for \x1b[1;38;5;%dmcells%s\n\r",
		clearLeft, v.colorLight, v.colorDark, v.colorLight, clearToEnd)

	return v.p.dump()
}

func (v *View) paintUpperFrame(occupiedCols, cols int, redraw bool) {
	v.centerCols(occupiedCols)

	if redraw {
		v.p.append(clearFromStart)
	}
	v.p.appendf("\x1b[0;38;5;%dm┏━", v.colorDark)
	v.paintLine(cols * v.cellWidth)
	v.p.append("━┓")
	if redraw {
		v.p.append(clearRight)
	}
	v.p.append("\r")

	v.centerCols(len(" cells ") + 1)
	v.p.appendf(" \x1b[1;38;5;%dmcells \n\r", v.colorLight)
}

func (v *View) paintLowerFrame(cols int, redraw bool) {
	v.centerCols(cols*v.cellWidth + 4)

	if redraw {
		v.p.append(clearLeft)
	}
	v.p.append("┗━")
	v.paintLine(cols * v.cellWidth)
	v.p.append("━┛")
	if redraw {
		v.p.append(clearRight)
	}
	v.p.append("\n\r")
}

func (v *View) paintGridRow(g *grid.Grid, row, cols int) error {
	for col := 0; col < cols; col++ {
		state, err := g.CellState(row, col)
		if err != nil {
			return err
		}

		if state == grid.CellAlive {
			v.p.appendf("\x1b[1;38;5;%dm%s", v.colorLight, v.cellAlive)
		} else {
			v.p.appendf("\x1b[0;38;5;%dm%s", v.colorDark, v.cellDead)
		}
	}

	return nil
}

func (v *View) paintBody(g *grid.Grid, rows, cols int, redraw bool) error {
	for row := 0; row < rows; row++ {
		v.centerCols(cols*v.cellWidth + 4)

		if redraw {
			v.p.append(clearLeft)
		}
		v.p.appendf("\x1b[0;38;5;%dm┃", v.colorDark)

		if err := v.paintGridRow(g, row, cols); err != nil {
			return err
		}

		v.p.appendf("\x1b[0;38;5;%dm┃", v.colorDark)
		if redraw {
			v.p.append(clearRight)
		}
		v.p.append("\n\r")
	}

	return nil
}

func (v *View) statusBar(occupiedCols, step, steps int, mode string, redraw bool) {
	v.centerCols(occupiedCols)

	if redraw {
		v.p.append(clearLeft)
	}
	if steps == 0 {
		v.p.appendf(" \x1b[1;38;5;%dmcycle\x1b[0;38;5;%dm %d", v.colorLight, v.colorDark, step)
	} else {
		stepsLen := len(strconv.Itoa(steps))
		v.p.appendf(" \x1b[1;38;5;%dmcycle\x1b[0;38;5;%dm %0*d/%d",
			v.colorLight, v.colorDark, stepsLen, step, steps)
	}
	if redraw {
		v.p.append(clearRight)
	}
	v.p.append("\r")

	v.centerCols(occupiedCols)
	v.p.appendf("\x1b[%dC\x1b[1;38;5;%dmstatus\x1b[0;38;5;%dm %s",
		occupiedCols-len("status ")-len("COMPLETE")-2-1,
		v.colorLight, v.colorDark, mode)
	if redraw {
		v.p.append(clearToEnd)
	}
}

// PaintGrid paints one full frame: top border, body, bottom border and the
// status line, centered. With redraw set, every line also erases stale
// content around it so the frame survives a resize.
func (v *View) PaintGrid(g *grid.Grid, step, steps int, mode string, redraw bool) error {
	rows, cols := g.Dim()
	occupiedRows, occupiedCols := v.occupied(rows, cols)

	v.p.append(cursorReset)

	if v.rows < occupiedRows {
		return v.screenLow()
	}
	if v.cols < occupiedCols {
		return v.screenNarrow()
	}

	v.centerRows(occupiedRows)

	v.paintUpperFrame(occupiedCols, cols, redraw)

	if err := v.paintBody(g, rows, cols, redraw); err != nil {
		return err
	}

	v.paintLowerFrame(cols, redraw)
	v.statusBar(occupiedCols, step, steps, mode, redraw)

	return v.p.dump()
}

// RelativePos maps terminal-space mouse coordinates to grid-space. ok is
// false when the terminal cannot fit the frame; clicks on or outside the
// border map to coordinates outside the grid (negative above or left of
// it, past the last row or column below or right of it), which the grid's
// bounds check rejects.
func (v *View) RelativePos(g *grid.Grid, row, col int) (gridRow, gridCol int, ok bool) {
	rows, cols := g.Dim()
	occupiedRows, occupiedCols := v.occupied(rows, cols)

	if v.rows < occupiedRows || v.cols < occupiedCols {
		return 0, 0, false
	}

	offsetRow := (v.rows - occupiedRows) / 2
	offsetCol := (v.cols - occupiedCols) / 2

	gridRow = row - offsetRow - 2

	gridCol = col - offsetCol - 2
	if gridCol >= 0 {
		gridCol /= v.cellWidth
	}

	return gridRow, gridCol, true
}
