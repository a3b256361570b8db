package beaver

import (
	"crypto/rand"
	"testing"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/shardsec/mpc/pkg/party"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dealRandom(t *testing.T, threshold, parties int) *Complete {
	t.Helper()
	a := sample.FieldElement(rand.Reader)
	b := sample.FieldElement(rand.Reader)
	triple, err := Deal(a, b, field.Mul(a, b), threshold, parties, 1)
	require.NoError(t, err)
	return triple
}

func TestDealProducesConsistentShares(t *testing.T) {
	triple := dealRandom(t, 2, 3)
	require.Len(t, triple.Shares, 3)
	assert.Equal(t, party.IDSlice{1, 2, 3}, triple.PartyIDs())

	for id, slice := range triple.Shares {
		assert.True(t, slice.Consistent())
		assert.Equal(t, id, slice.PartyID())
		assert.Equal(t, uint64(1), slice.ID)
	}
	assert.True(t, triple.Verify(2))
}

func TestVerifyFailsClosed(t *testing.T) {
	triple := dealRandom(t, 2, 3)

	assert.False(t, triple.Verify(0))
	assert.False(t, triple.Verify(4))

	// corrupt one share's c value
	slice := triple.Shares[2]
	slice.C.Y = field.Add(slice.C.Y, 1)
	triple.Shares[2] = slice
	assert.False(t, triple.Verify(2))
}

func TestVerifyDetectsMismatchedCoordinates(t *testing.T) {
	triple := dealRandom(t, 2, 3)
	slice := triple.Shares[1]
	slice.B.X = 9
	triple.Shares[1] = slice
	assert.False(t, triple.Verify(2))
}

func TestVerifyDetectsWrongReference(t *testing.T) {
	triple := dealRandom(t, 2, 3)
	triple.Reference.C = field.Add(triple.Reference.C, 1)
	assert.False(t, triple.Verify(2))
}

func TestStripReference(t *testing.T) {
	triple := dealRandom(t, 2, 3)
	require.NotNil(t, triple.Reference)
	triple.StripReference()
	assert.Nil(t, triple.Reference)
	// structural verification still passes without the reference
	assert.True(t, triple.Verify(2))
}

func TestDealRejectsBadParameters(t *testing.T) {
	_, err := Deal(1, 2, 2, 0, 3, 1)
	assert.Error(t, err)
	_, err = Deal(1, 2, 2, 4, 3, 1)
	assert.Error(t, err)
}

func TestIDSequenceIsUnique(t *testing.T) {
	s := NewIDSequence()
	seen := map[uint64]bool{}
	for i := 0; i < 1000; i++ {
		id := s.Next()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
