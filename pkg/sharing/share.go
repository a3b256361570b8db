package sharing

import (
	"encoding/binary"
	"io"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/party"
)

// Share is one evaluation point (x, f(x)) of a secret polynomial. The
// x-coordinate identifies the holding party and is never zero.
type Share struct {
	X field.Element `cbor:"x"`
	Y field.Element `cbor:"y"`
}

// PartyID returns the party this share belongs to.
func (s Share) PartyID() party.ID {
	return party.ID(s.X)
}

// Equal reports whether two shares are identical.
func (s Share) Equal(other Share) bool {
	return s.X == other.X && s.Y == other.Y
}

// WriteTo implements io.WriterTo.
func (s Share) WriteTo(w io.Writer) (int64, error) {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(s.X))
	binary.BigEndian.PutUint64(buf[8:], uint64(s.Y))
	n, err := w.Write(buf[:])
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (Share) Domain() string {
	return "sharing.Share"
}

// Add returns the share of the sum of the two underlying secrets.
// Both shares must belong to the same party.
func Add(a, b Share) (Share, error) {
	if a.X != b.X {
		return Share{}, ErrInvalidShare
	}
	return Share{X: a.X, Y: field.Add(a.Y, b.Y)}, nil
}

// Sub returns the share of the difference of the two underlying secrets.
// Both shares must belong to the same party.
func Sub(a, b Share) (Share, error) {
	if a.X != b.X {
		return Share{}, ErrInvalidShare
	}
	return Share{X: a.X, Y: field.Sub(a.Y, b.Y)}, nil
}

// ScalarMul returns the share of the secret scaled by a public constant.
func ScalarMul(s Share, scalar field.Element) Share {
	return Share{X: s.X, Y: field.Mul(s.Y, scalar)}
}
