package host

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// SeedSize is the length of a call-context random seed.
const SeedSize = 32

// SeededRand derives draws deterministically from a fixed call-context
// seed. Every draw within the same call context sees the same value
// until Rotate advances the counter, mirroring how the host supplies one
// seed per invocation.
type SeededRand struct {
	seed    [SeedSize]byte
	counter uint64
}

// Compile-time interface check.
var _ RandomSource = (*SeededRand)(nil)

// NewSeededRand creates a source from a 32-byte seed.
func NewSeededRand(seed []byte) (*SeededRand, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("host: seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	r := &SeededRand{}
	copy(r.seed[:], seed)
	return r, nil
}

// NewEntropyRand creates a source seeded from the operating system.
func NewEntropyRand() (*SeededRand, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("host: read entropy: %w", err)
	}
	return NewSeededRand(seed)
}

// NextIndex reduces the current draw modulo bound.
func (r *SeededRand) NextIndex(bound uint64) uint64 {
	if bound == 0 {
		return 0
	}
	return r.draw() % bound
}

// Rotate advances to the next draw within the call context.
func (r *SeededRand) Rotate() { r.counter++ }

// draw hashes the seed with the rotation counter and folds the first
// eight bytes into a uint64.
func (r *SeededRand) draw() uint64 {
	var buf [SeedSize + 8]byte
	copy(buf[:], r.seed[:])
	binary.LittleEndian.PutUint64(buf[SeedSize:], r.counter)
	sum := blake2b.Sum256(buf[:])
	return binary.LittleEndian.Uint64(sum[:8])
}
