package hash

import (
	"fmt"
	"io"
)

// WriterToWithDomain is implemented by types that know how to feed
// themselves to the hash state under their own domain string.
type WriterToWithDomain interface {
	io.WriterTo
	// Domain returns a string uniquely identifying the type being written.
	Domain() string
}

// BytesWithDomain wraps a raw byte slice with an explicit domain tag.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

func (b BytesWithDomain) Domain() string {
	return b.TheDomain
}

// writeWithDomain writes the data as "(<domain>,<data>)" so that adjacent
// writes of different types can never collide.
func writeWithDomain(w io.Writer, data WriterToWithDomain) error {
	domain := data.Domain()

	if _, err := w.Write([]byte("(" + domain + ",")); err != nil {
		return fmt.Errorf("hash: write domain %q: %w", domain, err)
	}
	if _, err := data.WriteTo(w); err != nil {
		return fmt.Errorf("hash: write data for %q: %w", domain, err)
	}
	if _, err := w.Write([]byte(")")); err != nil {
		return fmt.Errorf("hash: write terminator for %q: %w", domain, err)
	}
	return nil
}
