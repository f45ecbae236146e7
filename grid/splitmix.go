package grid

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

const (
	splitmixGamma = 0x9E3779B97F4A7C15
	splitmixM1    = 0xBF58476D1CE4E5B9
	splitmixM2    = 0x94D049BB133111EB

	splitmixShift1 = 30
	splitmixShift2 = 27
	splitmixShift3 = 3
)

// splitmixNext advances the SplitMix64 state in place.
func splitmixNext(curr *uint64) {
	z := *curr + splitmixGamma

	z = (z ^ (z >> splitmixShift1)) * splitmixM1
	z = (z ^ (z >> splitmixShift2)) * splitmixM2

	*curr = z ^ (z >> splitmixShift3)
}

// entropy draws the 64-bit seed for Randomize from the host. Tests swap it
// out for a fixed seed.
var entropy = func() (uint64, error) {
	var buf [8]byte

	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read entropy: %w", err)
	}

	return binary.LittleEndian.Uint64(buf[:]), nil
}
