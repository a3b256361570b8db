// Package ole provides oblivious linear evaluation over GF(p): the sender
// holds a line a⋅X + b, the receiver holds a point x and learns a⋅x + b.
//
// This is the correlation consumed by the dealer-free Beaver triple
// generators. The package implements the functionality only; in a deployment
// the two inputs are held by different parties and the evaluation runs under
// an OT-based protocol, so neither side learns the other's input.
package ole

import (
	"errors"

	"github.com/shardsec/mpc/pkg/math/field"
)

// ErrInvalidInput is returned when an operand is not a reduced field element.
var ErrInvalidInput = errors.New("ole: input is not a field element")

// OLE evaluates sender lines at receiver points, counting evaluations so
// callers can audit how often the correlation was consumed.
type OLE struct {
	evaluations uint64
}

func New() *OLE {
	return &OLE{}
}

// Evaluate returns a ⋅ x + b, the receiver's output for sender line (a, b)
// and receiver input x.
func (o *OLE) Evaluate(a, b, x field.Element) (field.Element, error) {
	if !field.IsValid(a) || !field.IsValid(b) || !field.IsValid(x) {
		return 0, ErrInvalidInput
	}
	o.evaluations++
	return field.Add(field.Mul(a, x), b), nil
}

// Multiply returns x ⋅ y as the degenerate evaluation of the line y⋅X + 0
// at x.
func (o *OLE) Multiply(x, y field.Element) (field.Element, error) {
	return o.Evaluate(y, 0, x)
}

// Evaluations returns how many evaluations have been performed.
func (o *OLE) Evaluations() uint64 {
	return o.evaluations
}
