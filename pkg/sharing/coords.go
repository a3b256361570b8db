package sharing

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
)

// ErrCoordinates is returned when a strategy cannot produce the requested
// number of distinct nonzero coordinates.
var ErrCoordinates = errors.New("sharing: cannot produce distinct share coordinates")

// CoordinateStrategy chooses the x-coordinates of a sharing and the
// randomness source for the polynomial coefficients.
type CoordinateStrategy interface {
	// Coordinates returns n distinct nonzero x-coordinates and the reader
	// used to sample the remaining polynomial coefficients.
	Coordinates(n int) ([]field.Element, io.Reader, error)
}

// Sequential assigns x = 1, …, n, matching party IDs. This is the default.
type Sequential struct{}

func (Sequential) Coordinates(n int) ([]field.Element, io.Reader, error) {
	xs := make([]field.Element, n)
	for i := range xs {
		xs[i] = field.Element(i + 1)
	}
	return xs, rand.Reader, nil
}

// Random draws uniform nonzero coordinates, so the x-values themselves do
// not reveal how many parties exist or which party holds which share.
type Random struct{}

func (Random) Coordinates(n int) ([]field.Element, io.Reader, error) {
	xs, err := distinctNonZero(n, rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return xs, rand.Reader, nil
}

// Seeded derives both the coordinates and the polynomial coefficients from
// a ChaCha20 stream, making the entire sharing reproducible from the seed.
type Seeded struct {
	Seed [sample.SeedSize]byte
}

func (s Seeded) Coordinates(n int) ([]field.Element, io.Reader, error) {
	r := sample.NewDeterministicReader(s.Seed)
	xs, err := distinctNonZero(n, r)
	if err != nil {
		return nil, nil, err
	}
	// The same stream continues into the coefficients.
	return xs, r, nil
}

func distinctNonZero(n int, r io.Reader) ([]field.Element, error) {
	const maxAttempts = 64
	xs := make([]field.Element, 0, n)
	seen := make(map[field.Element]struct{}, n)
	for len(xs) < n {
		attempts := 0
		for {
			x := sample.FieldElementNonZero(r)
			if _, dup := seen[x]; !dup {
				seen[x] = struct{}{}
				xs = append(xs, x)
				break
			}
			if attempts++; attempts >= maxAttempts {
				return nil, ErrCoordinates
			}
		}
	}
	return xs, nil
}
