// Package polynomial implements polynomials over GF(p) in coefficient form,
// together with Lagrange interpolation at zero. These are the building
// blocks of threshold secret sharing: a degree t−1 polynomial hides a secret
// in its constant term, and any t evaluations recover it.
package polynomial

import (
	"errors"
	"fmt"
	"io"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
)

var (
	// ErrNoPoints is returned when interpolating an empty set of points.
	ErrNoPoints = errors.New("polynomial: no points to interpolate")
	// ErrPointMismatch is returned when the x and y slices differ in length.
	ErrPointMismatch = errors.New("polynomial: mismatched point slices")
)

// Polynomial is f(X) = constant + a₁⋅X + … + a_d⋅X^d over GF(p).
type Polynomial struct {
	coefficients []field.Element
}

// NewPolynomial samples a polynomial of the given degree whose constant term
// is fixed and whose remaining coefficients are drawn uniformly from rand.
func NewPolynomial(degree int, constant field.Element, rand io.Reader) *Polynomial {
	coefficients := make([]field.Element, degree+1)
	coefficients[0] = constant
	for i := 1; i <= degree; i++ {
		coefficients[i] = sample.FieldElement(rand)
	}
	return &Polynomial{coefficients: coefficients}
}

// Evaluate returns f(index) using Horner's method.
// Evaluating at 0 would reveal the constant term, so it panics.
func (p *Polynomial) Evaluate(index field.Element) field.Element {
	if index == 0 {
		panic("polynomial: evaluation at 0 leaks the constant term")
	}
	var result field.Element
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = field.Add(field.Mul(result, index), p.coefficients[i])
	}
	return result
}

// Constant returns the constant term f(0).
func (p *Polynomial) Constant() field.Element {
	return p.coefficients[0]
}

// Degree returns the degree of the polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// LagrangeCoefficientAtZero returns ℓᵢ(0) = ∏_{j≠i} −xⱼ / (xᵢ − xⱼ) for the
// node set xs. The xs must be pairwise distinct and nonzero.
func LagrangeCoefficientAtZero(xs []field.Element, i int) (field.Element, error) {
	numerator := field.Element(1)
	denominator := field.Element(1)
	for j := range xs {
		if j == i {
			continue
		}
		numerator = field.Mul(numerator, field.Neg(xs[j]))
		denominator = field.Mul(denominator, field.Sub(xs[i], xs[j]))
	}
	inv, err := field.Inv(denominator)
	if err != nil {
		// A zero denominator means two nodes coincide.
		return 0, fmt.Errorf("polynomial: lagrange denominator: %w", err)
	}
	return field.Mul(numerator, inv), nil
}

// InterpolateAtZero returns f(0) for the unique polynomial of degree
// len(xs)−1 passing through the points (xs[i], ys[i]).
func InterpolateAtZero(xs, ys []field.Element) (field.Element, error) {
	if len(xs) == 0 {
		return 0, ErrNoPoints
	}
	if len(xs) != len(ys) {
		return 0, ErrPointMismatch
	}
	var result field.Element
	for i := range xs {
		l, err := LagrangeCoefficientAtZero(xs, i)
		if err != nil {
			return 0, err
		}
		result = field.Add(result, field.Mul(ys[i], l))
	}
	return result, nil
}
