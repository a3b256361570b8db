// Package sample provides uniform sampling of field elements from an
// arbitrary entropy source, plus a deterministic source for reproducible
// sharings.
package sample

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/shardsec/mpc/pkg/math/field"
)

// maxIterations bounds the number of rejection-sampling attempts. Since the
// acceptance probability per draw is 1 − 2⁻³², reaching the bound means the
// underlying reader is broken.
const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: rejected %d times", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// FieldElement returns a uniform element of GF(p).
func FieldElement(rand io.Reader) field.Element {
	var buf [8]byte
	for i := 0; i < maxIterations; i++ {
		mustReadBits(rand, buf[:])
		v := binary.BigEndian.Uint64(buf[:])
		if v < field.Prime {
			return field.Element(v)
		}
	}
	panic(ErrMaxIterations)
}

// FieldElementNonZero returns a uniform element of GF(p) \ {0}.
func FieldElementNonZero(rand io.Reader) field.Element {
	for i := 0; i < maxIterations; i++ {
		if e := FieldElement(rand); e != 0 {
			return e
		}
	}
	panic(ErrMaxIterations)
}

// Bytes fills a fresh slice of length n from rand.
func Bytes(rand io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil, fmt.Errorf("sample: short read: %w", err)
	}
	return buf, nil
}
