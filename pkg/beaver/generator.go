package beaver

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"sync/atomic"
)

var (
	// ErrInvalidBatchSize is returned when requesting a non-positive batch.
	ErrInvalidBatchSize = errors.New("beaver: batch size must be positive")
	// ErrBatchMismatch is returned when batched inputs disagree in length.
	ErrBatchMismatch = errors.New("beaver: batch lengths do not match")
	// ErrProductCheck is returned when a generated triple fails the c = a⋅b
	// check before dealing.
	ErrProductCheck = errors.New("beaver: triple product check failed")
)

// Generator produces verified multiplication triples. The three backends
// (trusted dealer, OLE-based, distributed BFV) all satisfy this interface so
// the online phase never cares where its triples came from.
type Generator interface {
	// GenerateSingle produces one complete triple.
	GenerateSingle() (*Complete, error)
	// GenerateBatch produces count triples.
	GenerateBatch(count int) ([]*Complete, error)
	// VerifyTriple checks a triple under this generator's threshold,
	// failing closed.
	VerifyTriple(t *Complete) bool
	// PartyCount returns the number of parties receiving shares.
	PartyCount() int
	// Threshold returns the reconstruction threshold.
	Threshold() int
}

// IDSequence issues process-unique triple identifiers: a random 32-bit salt
// chosen at construction, with a 32-bit counter in the low bits. Two
// generators thus never collide except with negligible probability.
type IDSequence struct {
	salt    uint64
	counter atomic.Uint32
}

func NewIDSequence() *IDSequence {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("beaver: id sequence: " + err.Error())
	}
	return &IDSequence{salt: uint64(binary.BigEndian.Uint32(buf[:])) << 32}
}

// Next returns a fresh identifier.
func (s *IDSequence) Next() uint64 {
	return s.salt | uint64(s.counter.Add(1))
}
