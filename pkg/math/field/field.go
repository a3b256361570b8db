// Package field implements arithmetic in the prime field GF(p), where
// p = 2⁶⁴ − 2³² + 1.
//
// Elements are represented as uint64 values in [0, p). All operations assume
// reduced inputs and return reduced outputs; use IsValid to check untrusted
// values before operating on them.
package field

import (
	"errors"
	"math/bits"

	"github.com/cronokirby/saferith"
	"github.com/shardsec/mpc/internal/params"
)

// Prime is the field modulus p = 2⁶⁴ − 2³² + 1.
const Prime = params.Prime

// ErrNoInverse is returned when inverting 0, the only non-invertible element.
var ErrNoInverse = errors.New("field: element has no multiplicative inverse")

// Element is a member of GF(p), reduced modulo Prime.
type Element uint64

// modulus is used only for the modular inverse, where constant-time big-nat
// arithmetic is preferable to an exponentiation loop over secret data.
var modulus = saferith.ModulusFromNat(new(saferith.Nat).SetUint64(Prime))

// IsValid reports whether e is a reduced field element.
func IsValid(e Element) bool {
	return uint64(e) < Prime
}

// Add returns a + b mod p.
func Add(a, b Element) Element {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry == 1 || sum >= Prime {
		// a + b < 2p, so a single (wrapping) subtraction reduces.
		sum, _ = bits.Sub64(sum, Prime, 0)
	}
	return Element(sum)
}

// Sub returns a − b mod p.
func Sub(a, b Element) Element {
	if a >= b {
		return a - b
	}
	return Element(Prime - uint64(b) + uint64(a))
}

// Neg returns −a mod p.
func Neg(a Element) Element {
	if a == 0 {
		return 0
	}
	return Element(Prime - uint64(a))
}

// Mul returns a ⋅ b mod p.
func Mul(a, b Element) Element {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	// hi ≤ (p−1)² / 2⁶⁴ < p, so the 128-by-64 division cannot trap.
	_, rem := bits.Div64(hi, lo, Prime)
	return Element(rem)
}

// Inv returns a⁻¹ mod p, or ErrNoInverse when a is 0.
func Inv(a Element) (Element, error) {
	if a == 0 {
		return 0, ErrNoInverse
	}
	x := new(saferith.Nat).SetUint64(uint64(a))
	inv := new(saferith.Nat).ModInverse(x, modulus)
	return Element(inv.Uint64()), nil
}

// Exp returns base^exponent mod p by square and multiply.
func Exp(base Element, exponent uint64) Element {
	result := Element(1)
	acc := base
	for exponent > 0 {
		if exponent&1 == 1 {
			result = Mul(result, acc)
		}
		acc = Mul(acc, acc)
		exponent >>= 1
	}
	return result
}
