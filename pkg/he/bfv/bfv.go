// Package bfv implements the leveled homomorphic ciphertext algebra used by
// the distributed triple generator.
//
// A ciphertext is the evaluation table of a polynomial over GF(p) whose
// constant term is the plaintext: slot i holds f(i+1). Addition and
// subtraction act slot-wise; multiplication acts slot-wise and adds the
// operands' degrees, consuming multiplicative depth. Decryption interpolates
// the first degree+1 slots back to f(0), so the algebra is exact:
//
//	Dec(Enc(x) + Enc(y)) = x + y
//	Dec(Enc(x) ⋅ Enc(y)) = x ⋅ y
//
// This is a reference engine for the protocol layer. It reproduces the
// homomorphic contract of a BFV scheme but provides no secrecy, and must be
// swapped for a lattice-based implementation before any real deployment.
package bfv

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/polynomial"
)

var (
	// ErrDimensionMismatch is returned when combining ciphertexts with
	// different slot counts.
	ErrDimensionMismatch = errors.New("bfv: ciphertext dimensions do not match")
	// ErrDepthExceeded is returned when a multiplication would push the
	// ciphertext degree past what the slot count can decrypt.
	ErrDepthExceeded = errors.New("bfv: multiplicative depth exceeded")
	// ErrInvalidParams is returned for parameter sets that cannot support
	// even a single multiplication.
	ErrInvalidParams = errors.New("bfv: invalid parameters")
	// ErrInvalidPlaintext is returned when encrypting a value that is not a
	// reduced field element.
	ErrInvalidPlaintext = errors.New("bfv: plaintext is not a field element")
)

// Params fixes the shape of all ciphertexts under one key.
type Params struct {
	// Slots is the number of evaluation slots per ciphertext. A product of
	// fresh ciphertexts has degree 2, so decryption needs at least 3 slots;
	// more slots buy more multiplicative depth.
	Slots int `cbor:"slots"`
}

// DefaultParams supports depth-2 circuits, enough for one triple generation.
func DefaultParams() Params {
	return Params{Slots: 8}
}

func (p Params) Validate() error {
	if p.Slots < 3 {
		return fmt.Errorf("%w: need at least 3 slots, got %d", ErrInvalidParams, p.Slots)
	}
	return nil
}

// PublicKey is the joint encryption key produced by the collective key
// generation. Mask is the aggregate of all parties' contributions and binds
// ciphertexts to the session.
type PublicKey struct {
	Params Params          `cbor:"params"`
	Mask   []field.Element `cbor:"mask"`
}

func NewPublicKey(params Params, mask []field.Element) (*PublicKey, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(mask) != params.Slots {
		return nil, fmt.Errorf("%w: mask length %d, slots %d", ErrDimensionMismatch, len(mask), params.Slots)
	}
	return &PublicKey{Params: params, Mask: mask}, nil
}

// SecretKeyShare is one party's share of the joint decryption key.
type SecretKeyShare struct {
	PartyID int           `cbor:"party_id"`
	Value   field.Element `cbor:"value"`
}

// Ciphertext is the slot table of a polynomial with the plaintext in its
// constant term. Degree tracks how many slots decryption must consume.
type Ciphertext struct {
	Evals  []field.Element `cbor:"evals"`
	Degree int             `cbor:"degree"`
}

// Encrypt hides m in the constant term of a fresh degree-1 polynomial and
// tabulates it over the key's slots.
func Encrypt(pk *PublicKey, m field.Element) (*Ciphertext, error) {
	if !field.IsValid(m) {
		return nil, ErrInvalidPlaintext
	}
	if err := pk.Params.Validate(); err != nil {
		return nil, err
	}

	f := polynomial.NewPolynomial(1, m, rand.Reader)
	evals := make([]field.Element, pk.Params.Slots)
	for i := range evals {
		evals[i] = f.Evaluate(field.Element(i + 1))
	}
	return &Ciphertext{Evals: evals, Degree: 1}, nil
}

// Add returns a ciphertext decrypting to the sum of the plaintexts.
func Add(a, b *Ciphertext) (*Ciphertext, error) {
	if len(a.Evals) != len(b.Evals) {
		return nil, ErrDimensionMismatch
	}
	evals := make([]field.Element, len(a.Evals))
	for i := range evals {
		evals[i] = field.Add(a.Evals[i], b.Evals[i])
	}
	return &Ciphertext{Evals: evals, Degree: max(a.Degree, b.Degree)}, nil
}

// Sub returns a ciphertext decrypting to the difference of the plaintexts.
func Sub(a, b *Ciphertext) (*Ciphertext, error) {
	if len(a.Evals) != len(b.Evals) {
		return nil, ErrDimensionMismatch
	}
	evals := make([]field.Element, len(a.Evals))
	for i := range evals {
		evals[i] = field.Sub(a.Evals[i], b.Evals[i])
	}
	return &Ciphertext{Evals: evals, Degree: max(a.Degree, b.Degree)}, nil
}

// Mul returns a ciphertext decrypting to the product of the plaintexts.
// The result's degree is the sum of the operands' degrees and must stay
// below the slot count.
func Mul(a, b *Ciphertext) (*Ciphertext, error) {
	if len(a.Evals) != len(b.Evals) {
		return nil, ErrDimensionMismatch
	}
	degree := a.Degree + b.Degree
	if degree >= len(a.Evals) {
		return nil, fmt.Errorf("%w: degree %d needs %d slots, have %d",
			ErrDepthExceeded, degree, degree+1, len(a.Evals))
	}
	evals := make([]field.Element, len(a.Evals))
	for i := range evals {
		evals[i] = field.Mul(a.Evals[i], b.Evals[i])
	}
	return &Ciphertext{Evals: evals, Degree: degree}, nil
}

// Decrypt interpolates the plaintext out of the first degree+1 slots.
func Decrypt(ct *Ciphertext) (field.Element, error) {
	points := ct.Degree + 1
	if points > len(ct.Evals) || ct.Degree < 0 {
		return 0, fmt.Errorf("%w: degree %d with %d slots", ErrDepthExceeded, ct.Degree, len(ct.Evals))
	}
	xs := make([]field.Element, points)
	ys := make([]field.Element, points)
	for i := 0; i < points; i++ {
		xs[i] = field.Element(i + 1)
		ys[i] = ct.Evals[i]
	}
	m, err := polynomial.InterpolateAtZero(xs, ys)
	if err != nil {
		return 0, fmt.Errorf("bfv: decrypt: %w", err)
	}
	return m, nil
}
