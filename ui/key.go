package ui

// Key identifies a completed input action decoded by the reader.
type Key int

const (
	KeyPause     Key = ' '
	KeyExit      Key = 'q' & 0x1f
	KeyRandomize Key = 'r'
	KeyClear     Key = 'c'
	KeyFrame     Key = '.'

	KeyPress   Key = 1000
	KeyDrag    Key = 1001
	KeyRelease Key = 1002
)
