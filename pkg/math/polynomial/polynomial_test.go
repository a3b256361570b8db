package polynomial

import (
	"crypto/rand"
	"testing"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantAndDegree(t *testing.T) {
	secret := sample.FieldElement(rand.Reader)
	p := NewPolynomial(4, secret, rand.Reader)
	assert.Equal(t, secret, p.Constant())
	assert.Equal(t, 4, p.Degree())
}

func TestEvaluateAtZeroPanics(t *testing.T) {
	p := NewPolynomial(2, 42, rand.Reader)
	assert.Panics(t, func() { p.Evaluate(0) })
}

func TestEvaluateKnownPolynomial(t *testing.T) {
	// f(X) = 3 + 2X + X², so f(2) = 11 and f(5) = 38.
	p := &Polynomial{coefficients: []field.Element{3, 2, 1}}
	assert.Equal(t, field.Element(11), p.Evaluate(2))
	assert.Equal(t, field.Element(38), p.Evaluate(5))
}

func TestInterpolateRecoversConstant(t *testing.T) {
	secret := sample.FieldElement(rand.Reader)
	p := NewPolynomial(3, secret, rand.Reader)

	xs := []field.Element{1, 2, 3, 4}
	ys := make([]field.Element, len(xs))
	for i, x := range xs {
		ys[i] = p.Evaluate(x)
	}

	recovered, err := InterpolateAtZero(xs, ys)
	require.NoError(t, err)
	assert.Equal(t, secret, recovered)
}

func TestInterpolateAnySubset(t *testing.T) {
	secret := field.Element(123456)
	p := NewPolynomial(2, secret, rand.Reader)

	xs := []field.Element{1, 3, 5}
	ys := []field.Element{p.Evaluate(1), p.Evaluate(3), p.Evaluate(5)}

	recovered, err := InterpolateAtZero(xs, ys)
	require.NoError(t, err)
	assert.Equal(t, secret, recovered)
}

func TestInterpolateErrors(t *testing.T) {
	_, err := InterpolateAtZero(nil, nil)
	assert.ErrorIs(t, err, ErrNoPoints)

	_, err = InterpolateAtZero([]field.Element{1, 2}, []field.Element{1})
	assert.ErrorIs(t, err, ErrPointMismatch)

	// duplicate nodes
	_, err = InterpolateAtZero([]field.Element{1, 1}, []field.Element{2, 3})
	assert.ErrorIs(t, err, field.ErrNoInverse)
}

func TestLagrangeCoefficientsSumToOne(t *testing.T) {
	xs := []field.Element{1, 2, 3, 4, 5}
	var sum field.Element
	for i := range xs {
		l, err := LagrangeCoefficientAtZero(xs, i)
		require.NoError(t, err)
		sum = field.Add(sum, l)
	}
	assert.Equal(t, field.Element(1), sum)
}
