package beaver

import (
	"crypto/rand"
	"testing"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/shardsec/mpc/pkg/sharing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureMultiplyConcrete(t *testing.T) {
	// t=2, n=3, 15 ⋅ 25 = 375
	tp, err := NewTrustedParty(3, 2, &TrustedConfig{SecurityChecks: true})
	require.NoError(t, err)
	defer tp.Close()

	triple, err := tp.GenerateSingle()
	require.NoError(t, err)

	xShares, err := sharing.Split(15, 2, 3)
	require.NoError(t, err)
	yShares, err := sharing.Split(25, 2, 3)
	require.NoError(t, err)

	zShares, err := SecureMultiply(xShares, yShares, triple, 2)
	require.NoError(t, err)

	z, err := sharing.Reconstruct(zShares, 2)
	require.NoError(t, err)
	assert.Equal(t, field.Element(375), z)
}

func TestSecureMultiplyRandomInputs(t *testing.T) {
	tp, err := NewTrustedParty(5, 3, &TrustedConfig{Precompute: true, PoolSize: 32, SecurityChecks: true})
	require.NoError(t, err)
	defer tp.Close()

	for i := 0; i < 16; i++ {
		x := sample.FieldElement(rand.Reader)
		y := sample.FieldElement(rand.Reader)

		xShares, err := sharing.Split(x, 3, 5)
		require.NoError(t, err)
		yShares, err := sharing.Split(y, 3, 5)
		require.NoError(t, err)

		triple, err := tp.GenerateSingle()
		require.NoError(t, err)

		zShares, err := SecureMultiply(xShares, yShares, triple, 3)
		require.NoError(t, err)

		z, err := sharing.Reconstruct(zShares, 3)
		require.NoError(t, err)
		assert.Equal(t, field.Mul(x, y), z)
	}
}

func TestSecureMultiplyAnySubsetReconstructs(t *testing.T) {
	tp, err := NewTrustedParty(3, 2, &TrustedConfig{SecurityChecks: true})
	require.NoError(t, err)
	defer tp.Close()

	triple, err := tp.GenerateSingle()
	require.NoError(t, err)

	xShares, _ := sharing.Split(111, 2, 3)
	yShares, _ := sharing.Split(222, 2, 3)

	zShares, err := SecureMultiply(xShares, yShares, triple, 2)
	require.NoError(t, err)
	want := field.Mul(111, 222)

	for i := 0; i < len(zShares); i++ {
		for j := i + 1; j < len(zShares); j++ {
			z, err := sharing.Reconstruct([]sharing.Share{zShares[i], zShares[j]}, 2)
			require.NoError(t, err)
			assert.Equal(t, want, z)
		}
	}
}

func TestSecureMultiplyValidation(t *testing.T) {
	tp, err := NewTrustedParty(3, 2, &TrustedConfig{SecurityChecks: true})
	require.NoError(t, err)
	defer tp.Close()

	triple, err := tp.GenerateSingle()
	require.NoError(t, err)

	xShares, _ := sharing.Split(1, 2, 3)
	yShares, _ := sharing.Split(2, 2, 3)

	_, err = SecureMultiply(xShares[:1], yShares[:1], triple, 2)
	assert.ErrorIs(t, err, sharing.ErrInvalidThreshold)

	// inconsistent share counts are an invalid-threshold condition too
	_, err = SecureMultiply(xShares, yShares[:2], triple, 2)
	assert.ErrorIs(t, err, sharing.ErrInvalidThreshold)
}

func TestBatchSecureMultiply(t *testing.T) {
	tp, err := NewTrustedParty(3, 2, &TrustedConfig{SecurityChecks: true})
	require.NoError(t, err)
	defer tp.Close()

	triples, err := tp.GenerateBatch(3)
	require.NoError(t, err)

	xs := []field.Element{3, 5, 7}
	ys := []field.Element{11, 13, 17}
	xBatch := make([][]sharing.Share, 3)
	yBatch := make([][]sharing.Share, 3)
	for i := range xs {
		xBatch[i], err = sharing.Split(xs[i], 2, 3)
		require.NoError(t, err)
		yBatch[i], err = sharing.Split(ys[i], 2, 3)
		require.NoError(t, err)
	}

	zBatch, err := BatchSecureMultiply(xBatch, yBatch, triples, 2)
	require.NoError(t, err)
	require.Len(t, zBatch, 3)

	for i := range zBatch {
		z, err := sharing.Reconstruct(zBatch[i], 2)
		require.NoError(t, err)
		assert.Equal(t, field.Mul(xs[i], ys[i]), z)
	}

	// mismatched lengths
	_, err = BatchSecureMultiply(xBatch[:2], yBatch, triples, 2)
	assert.ErrorIs(t, err, ErrBatchMismatch)
}

func TestVerifyBatch(t *testing.T) {
	tp, err := NewTrustedParty(3, 2, &TrustedConfig{SecurityChecks: true})
	require.NoError(t, err)
	defer tp.Close()

	triples, err := tp.GenerateBatch(4)
	require.NoError(t, err)
	assert.True(t, VerifyBatch(triples, 2))

	assert.False(t, VerifyBatch(nil, 2))

	bad := triples[2]
	slice := bad.Shares[1]
	slice.A.Y = field.Add(slice.A.Y, 1)
	bad.Shares[1] = slice
	assert.False(t, VerifyBatch(triples, 2))
}

func TestAuditor(t *testing.T) {
	tp, err := NewTrustedParty(3, 2, &TrustedConfig{SecurityChecks: true})
	require.NoError(t, err)
	defer tp.Close()

	triples, err := tp.GenerateBatch(5)
	require.NoError(t, err)

	auditor := NewAuditor(3, 2)
	assert.True(t, auditor.Audit(triples))
	assert.False(t, auditor.Audit(nil))

	// duplicated triple IDs must be flagged
	dup := []*Complete{triples[0], triples[0]}
	assert.False(t, auditor.Audit(dup))

	// wrong party count
	narrow := NewAuditor(4, 2)
	assert.False(t, narrow.Audit(triples[:1]))
}
