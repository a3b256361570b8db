package ole

import (
	"crypto/rand"
	"testing"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	o := New()
	got, err := o.Evaluate(3, 5, 7)
	require.NoError(t, err)
	assert.Equal(t, field.Element(26), got)
}

func TestEvaluateWraps(t *testing.T) {
	o := New()
	got, err := o.Evaluate(field.Element(field.Prime-1), 1, field.Element(field.Prime-1))
	require.NoError(t, err)
	// (p−1)² + 1 mod p = 2
	assert.Equal(t, field.Element(2), got)
}

func TestMultiplyMatchesField(t *testing.T) {
	o := New()
	for i := 0; i < 100; i++ {
		x := sample.FieldElement(rand.Reader)
		y := sample.FieldElement(rand.Reader)
		got, err := o.Multiply(x, y)
		require.NoError(t, err)
		assert.Equal(t, field.Mul(x, y), got)
	}
	assert.Equal(t, uint64(100), o.Evaluations())
}

func TestEvaluateRejectsUnreducedInputs(t *testing.T) {
	o := New()
	_, err := o.Evaluate(field.Element(field.Prime), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = o.Evaluate(0, field.Element(field.Prime), 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = o.Evaluate(0, 1, field.Element(field.Prime))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, uint64(0), o.Evaluations())
}
