package ui

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ReadStatus is the result of one Parse step.
type ReadStatus int

const (
	// ReadContinue means a byte was consumed without completing a key.
	ReadContinue ReadStatus = iota
	// ReadNewKey means a key completed; read it with Key and MousePos.
	ReadNewKey
	// ReadFinished means no input is pending right now.
	ReadFinished
	// ReadEOF means the input stream closed for good.
	ReadEOF
)

type parseState int

const (
	stateIdle parseState = iota
	stateBracket
	stateLt
	stateDigitFirst
	stateDigitSecond
	stateDigitThird
)

const maxEscSeqLen = 32

// Reader decodes single-byte keys and SGR mouse escape sequences
// (ESC [ < btn ; col ; row M|m) from a byte stream, one byte per step.
type Reader struct {
	in <-chan byte

	primed    byte
	hasPrimed bool

	key      Key
	mouseRow int
	mouseCol int
	dragging bool

	sawDigit bool
	state    parseState
	escBuf   [maxEscSeqLen]byte
	escLen   int
}

// NewReader wraps a byte channel fed by startPump.
func NewReader(in <-chan byte) *Reader {
	return &Reader{in: in}
}

// startPump copies bytes from r into a channel until read failure or EOF,
// then closes it. The single pump goroutine is the only reader of r.
func startPump(r io.Reader) <-chan byte {
	ch := make(chan byte, 128)

	go func() {
		defer close(ch)

		reader := bufio.NewReader(r)
		for {
			b, err := reader.ReadByte()
			if err != nil {
				return
			}
			ch <- b
		}
	}()

	return ch
}

// Prime hands the reader a byte the controller already pulled off the
// channel while waiting; the next Parse consumes it first.
func (r *Reader) Prime(b byte) {
	r.primed = b
	r.hasPrimed = true
}

// Parse consumes at most one pending byte and advances the state machine.
func (r *Reader) Parse() ReadStatus {
	var b byte

	if r.hasPrimed {
		b = r.primed
		r.hasPrimed = false
	} else {
		select {
		case c, ok := <-r.in:
			if !ok {
				return ReadEOF
			}
			b = c
		default:
			return ReadFinished
		}
	}

	if r.feed(b) {
		return ReadNewKey
	}

	return ReadContinue
}

// Key returns the most recently completed key.
func (r *Reader) Key() Key {
	return r.key
}

// MousePos returns the terminal coordinates of the last mouse event,
// 1-based as reported by the terminal.
func (r *Reader) MousePos() (row, col int) {
	return r.mouseRow, r.mouseCol
}

// CancelPress drops an active drag so following motion does not paint.
func (r *Reader) CancelPress() {
	r.dragging = false
}

func (r *Reader) reset() {
	r.state = stateIdle
	r.escLen = 0
	r.sawDigit = false
}

// feed advances the state machine by one byte and reports whether a key
// completed. Malformed or oversize sequences reset to idle silently.
func (r *Reader) feed(b byte) bool {
	if r.escLen+1 == maxEscSeqLen {
		r.reset()
		return false
	}

	switch r.state {
	case stateIdle:
		if b == 0x1b {
			r.escBuf[r.escLen] = b
			r.escLen++
			r.state = stateBracket
			return false
		}

		switch Key(b) {
		case KeyPause, KeyExit, KeyRandomize, KeyClear, KeyFrame:
			r.key = Key(b)
			return true
		}

	case stateBracket:
		if b == '[' {
			r.escBuf[r.escLen] = b
			r.escLen++
			r.state = stateLt
		} else {
			r.reset()
		}

	case stateLt:
		if b == '<' {
			r.escBuf[r.escLen] = b
			r.escLen++
			r.state = stateDigitFirst
		} else {
			r.reset()
		}

	case stateDigitFirst:
		switch {
		case b >= '0' && b <= '9':
			r.escBuf[r.escLen] = b
			r.escLen++
			r.sawDigit = true
		case r.sawDigit && b == ';':
			r.escBuf[r.escLen] = b
			r.escLen++
			r.sawDigit = false
			r.state = stateDigitSecond
		default:
			r.reset()
		}

	case stateDigitSecond:
		switch {
		case b >= '0' && b <= '9':
			r.escBuf[r.escLen] = b
			r.escLen++
			r.sawDigit = true
		case r.sawDigit && b == ';':
			r.escBuf[r.escLen] = b
			r.escLen++
			r.sawDigit = false
			r.state = stateDigitThird
		default:
			r.reset()
		}

	case stateDigitThird:
		switch {
		case b >= '0' && b <= '9':
			r.escBuf[r.escLen] = b
			r.escLen++
			r.sawDigit = true
		case r.sawDigit && (b == 'M' || b == 'm'):
			r.escBuf[r.escLen] = b
			r.escLen++
			r.sawDigit = false
			r.state = stateIdle
			return r.finishEscSeq()
		default:
			r.reset()
		}
	}

	return false
}

// finishEscSeq re-parses the buffered ESC [ < btn ; col ; row M|m triple
// and classifies the terminator: M is press or drag, m is release.
func (r *Reader) finishEscSeq() bool {
	seq := string(r.escBuf[3 : r.escLen-1])
	last := r.escBuf[r.escLen-1]

	r.escLen = 0

	parts := strings.SplitN(seq, ";", 3)
	if len(parts) != 3 {
		return false
	}

	if _, err := strconv.Atoi(parts[0]); err != nil {
		return false
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	row, err := strconv.Atoi(parts[2])
	if err != nil {
		return false
	}

	r.mouseRow = row
	r.mouseCol = col

	switch last {
	case 'm':
		r.dragging = false
		r.key = KeyRelease
		return true
	case 'M':
		if !r.dragging {
			r.dragging = true
			r.key = KeyPress
		} else {
			r.key = KeyDrag
		}
		return true
	}

	return false
}
