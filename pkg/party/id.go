// Package party defines identifiers for protocol participants.
//
// An ID doubles as the x-coordinate of the party's Shamir shares, so the
// zero ID is invalid: evaluating a secret polynomial at 0 would reveal the
// secret itself.
package party

import (
	"encoding/binary"
	"io"
	"strconv"

	"github.com/shardsec/mpc/pkg/math/field"
)

// ByteSize is the length of a serialized ID.
const ByteSize = 2

// ID is a party identifier in [1, 2¹⁶).
type ID uint16

// Scalar returns the field element used as this party's share coordinate.
func (id ID) Scalar() field.Element {
	return field.Element(id)
}

// Valid reports whether the ID may be used as a share coordinate.
func (id ID) Valid() bool {
	return id != 0
}

// Bytes returns a big-endian encoding of the ID.
func (id ID) Bytes() []byte {
	out := make([]byte, ByteSize)
	binary.BigEndian.PutUint16(out, uint16(id))
	return out
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// WriteTo implements io.WriterTo.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(id.Bytes())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (ID) Domain() string {
	return "ID"
}
