// Package grid implements the cell universe as an array of 32x32 bit-packed
// chunks. One generation of a 32-cell row is computed with a fixed sequence
// of bitwise operations over the eight neighbor words, so the Life rule is
// evaluated for 32 cells at a time.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// CellState is the state of a single cell.
type CellState uint8

const (
	CellDead CellState = iota
	CellAlive
)

// ErrOutOfBounds is returned when a cell coordinate falls outside the grid.
var ErrOutOfBounds = errors.New("cell coordinates out of bounds")

// Grid holds the primary cell buffer and, during an update, the shadow
// buffer the next generation is computed into. Outside of an update the
// shadow buffer is nil.
type Grid struct {
	chunkRows int
	chunkCols int

	chunks []chunk
	next   []chunk
}

// New allocates a zeroed grid of chunkRows x chunkCols chunks.
func New(chunkRows, chunkCols int) (*Grid, error) {
	if chunkRows <= 0 || chunkCols <= 0 {
		return nil, fmt.Errorf("chunk dimensions must be positive, got %dx%d", chunkRows, chunkCols)
	}
	if chunkRows > math.MaxInt/chunkCols {
		return nil, fmt.Errorf("chunk dimensions %dx%d too large", chunkRows, chunkCols)
	}

	chunksLen := chunkRows * chunkCols

	if chunksLen > math.MaxInt/(chunkSize*4) {
		return nil, fmt.Errorf("chunk memory for %dx%d chunks too large", chunkRows, chunkCols)
	}

	return &Grid{
		chunkRows: chunkRows,
		chunkCols: chunkCols,
		chunks:    make([]chunk, chunksLen),
	}, nil
}

// Dim returns the absolute cell dimensions of the grid.
func (g *Grid) Dim() (rows, cols int) {
	return g.chunkRows * chunkSize, g.chunkCols * chunkSize
}

func (g *Grid) chunkIdx(chunkRow, chunkCol int) int {
	return chunkRow*g.chunkCols + chunkCol
}

// innerCoords maps an absolute cell coordinate to its chunk index and the
// local coordinates within that chunk.
func (g *Grid) innerCoords(row, col int) (idx, localRow, localCol int, err error) {
	if row < 0 || col < 0 || row >= chunkSize*g.chunkRows || col >= chunkSize*g.chunkCols {
		return 0, 0, 0, fmt.Errorf("cell (%d, %d): %w", row, col, ErrOutOfBounds)
	}

	idx = g.chunkIdx(row>>chunkPow, col>>chunkPow)

	return idx, row & chunkLast, col & chunkLast, nil
}

// SetAlive marks the cell at (row, col) alive.
func (g *Grid) SetAlive(row, col int) error {
	idx, localRow, localCol, err := g.innerCoords(row, col)
	if err != nil {
		return err
	}

	g.chunks[idx].setAlive(localRow, localCol)

	return nil
}

// SetDead marks the cell at (row, col) dead.
func (g *Grid) SetDead(row, col int) error {
	idx, localRow, localCol, err := g.innerCoords(row, col)
	if err != nil {
		return err
	}

	g.chunks[idx].setDead(localRow, localCol)

	return nil
}

// CellState reads the state of the cell at (row, col).
func (g *Grid) CellState(row, col int) (CellState, error) {
	idx, localRow, localCol, err := g.innerCoords(row, col)
	if err != nil {
		return CellDead, err
	}

	return g.chunks[idx].get(localRow, localCol), nil
}

// Randomize fills the grid from a SplitMix64 stream seeded with a single
// 64-bit entropy draw. Each 32-bit row word takes the low half of the
// current state, the raw seed first, visiting chunks in index order.
func (g *Grid) Randomize() error {
	curr, err := entropy()
	if err != nil {
		return err
	}

	for i := range g.chunks {
		for j := 0; j < chunkSize; j++ {
			g.chunks[i][j] = uint32(curr)
			splitmixNext(&curr)
		}
	}

	return nil
}

// Clear kills every cell.
func (g *Grid) Clear() {
	for i := range g.chunks {
		g.chunks[i] = chunk{}
	}
}

// chunkAt returns the chunk at (chunkRow, chunkCol), or nil outside the
// grid. The bounded update treats missing neighbor chunks as all-dead.
func (g *Grid) chunkAt(chunkRow, chunkCol int) *chunk {
	if chunkRow < 0 || chunkRow >= g.chunkRows || chunkCol < 0 || chunkCol >= g.chunkCols {
		return nil
	}
	return &g.chunks[g.chunkIdx(chunkRow, chunkCol)]
}

// wrapCoord shifts a chunk coordinate by delta, wrapping around [0, max).
func wrapCoord(coord, delta, max int) int {
	c := coord + delta

	if c < 0 {
		return max - 1
	}
	if c >= max {
		return 0
	}

	return c
}

// foldNeighbor adds one neighbor word into the four bit-sliced count
// planes: after k neighbors, (p3 p2 p1 p0) at bit j is the binary count of
// live neighbors of cell j seen so far. Eight neighbors fit in 4 bits.
func foldNeighbor(p *[4]uint32, ngb uint32) {
	carry1 := p[0] & ngb
	p[0] ^= ngb

	carry2 := p[1] & carry1
	p[1] ^= carry1

	carry3 := p[2] & carry2
	p[2] ^= carry2

	p[3] ^= carry3
}

// stepChunk computes the next generation of one chunk into the shadow
// buffer, given the chunk and its eight neighbors (nil for an absent
// neighbor at the universe boundary).
func (g *Grid) stepChunk(idx int, c, n, s, w, e, nw, ne, sw, se *chunk) {
	dst := &g.next[idx]

	for row := 0; row < chunkSize; row++ {
		curr := c[row]

		// The eight neighbor rows of the current row, with the rows
		// above and below crossing into the north/south chunks at the
		// chunk boundary.
		left := rowOf(w, row)
		right := rowOf(e, row)

		var top, bot, topLeft, topRight, botLeft, botRight uint32

		if row == 0 {
			top = rowOf(n, chunkLast)
			topLeft = rowOf(nw, chunkLast)
			topRight = rowOf(ne, chunkLast)
		} else {
			top = c[row-1]
			topLeft = rowOf(w, row-1)
			topRight = rowOf(e, row-1)
		}

		if row == chunkLast {
			bot = rowOf(s, 0)
			botLeft = rowOf(sw, 0)
			botRight = rowOf(se, 0)
		} else {
			bot = c[row+1]
			botLeft = rowOf(w, row+1)
			botRight = rowOf(e, row+1)
		}

		// Align each neighbor direction to the current row so that bit
		// j carries the corresponding neighbor of cell j. East/west
		// shifts pull the crossing bit from the adjacent chunk's row.
		ngbN := top
		ngbS := bot
		ngbW := curr<<1 | rowBit(left, chunkLast)
		ngbE := curr>>1 | rowBit(right, 0)<<chunkLast

		ngbNW := ngbN<<1 | rowBit(topLeft, chunkLast)
		ngbNE := ngbN>>1 | rowBit(topRight, 0)<<chunkLast
		ngbSW := ngbS<<1 | rowBit(botLeft, chunkLast)
		ngbSE := ngbS>>1 | rowBit(botRight, 0)<<chunkLast

		var p [4]uint32

		foldNeighbor(&p, ngbN)
		foldNeighbor(&p, ngbS)
		foldNeighbor(&p, ngbE)
		foldNeighbor(&p, ngbW)
		foldNeighbor(&p, ngbNW)
		foldNeighbor(&p, ngbNE)
		foldNeighbor(&p, ngbSW)
		foldNeighbor(&p, ngbSE)

		// Exactly two live neighbors keeps the cell, exactly three
		// makes it alive regardless of its current state.
		eq2 := ^p[0] & p[1] & ^p[2] & ^p[3]
		eq3 := p[0] & p[1] & ^p[2] & ^p[3]

		dst[row] = curr&eq2 | eq3
	}
}

func (g *Grid) updateChunk(chunkRow, chunkCol int) {
	g.stepChunk(
		g.chunkIdx(chunkRow, chunkCol),
		g.chunkAt(chunkRow, chunkCol),
		g.chunkAt(chunkRow-1, chunkCol),
		g.chunkAt(chunkRow+1, chunkCol),
		g.chunkAt(chunkRow, chunkCol-1),
		g.chunkAt(chunkRow, chunkCol+1),
		g.chunkAt(chunkRow-1, chunkCol-1),
		g.chunkAt(chunkRow-1, chunkCol+1),
		g.chunkAt(chunkRow+1, chunkCol-1),
		g.chunkAt(chunkRow+1, chunkCol+1),
	)
}

func (g *Grid) updateChunkToroidal(chunkRow, chunkCol int) {
	north := wrapCoord(chunkRow, -1, g.chunkRows)
	south := wrapCoord(chunkRow, +1, g.chunkRows)
	west := wrapCoord(chunkCol, -1, g.chunkCols)
	east := wrapCoord(chunkCol, +1, g.chunkCols)

	g.stepChunk(
		g.chunkIdx(chunkRow, chunkCol),
		&g.chunks[g.chunkIdx(chunkRow, chunkCol)],
		&g.chunks[g.chunkIdx(north, chunkCol)],
		&g.chunks[g.chunkIdx(south, chunkCol)],
		&g.chunks[g.chunkIdx(chunkRow, west)],
		&g.chunks[g.chunkIdx(chunkRow, east)],
		&g.chunks[g.chunkIdx(north, west)],
		&g.chunks[g.chunkIdx(north, east)],
		&g.chunks[g.chunkIdx(south, west)],
		&g.chunks[g.chunkIdx(south, east)],
	)
}

// beginChanges acquires the shadow buffer for one update.
func (g *Grid) beginChanges() {
	g.next = make([]chunk, len(g.chunks))
}

// endChanges promotes the shadow buffer to primary. The shadow never
// survives an update.
func (g *Grid) endChanges() {
	g.chunks = g.next
	g.next = nil
}

// Update advances the grid one generation. Cells outside the grid are dead.
func (g *Grid) Update() error {
	g.beginChanges()

	for chunkRow := 0; chunkRow < g.chunkRows; chunkRow++ {
		for chunkCol := 0; chunkCol < g.chunkCols; chunkCol++ {
			g.updateChunk(chunkRow, chunkCol)
		}
	}

	g.endChanges()

	return nil
}

// UpdateToroidal advances the grid one generation with wrap-around edges:
// opposite borders of the universe are identified in both axes.
func (g *Grid) UpdateToroidal() error {
	g.beginChanges()

	for chunkRow := 0; chunkRow < g.chunkRows; chunkRow++ {
		for chunkCol := 0; chunkCol < g.chunkCols; chunkCol++ {
			g.updateChunkToroidal(chunkRow, chunkCol)
		}
	}

	g.endChanges()

	return nil
}
