package party

import (
	"testing"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/stretchr/testify/assert"
)

func TestIDScalar(t *testing.T) {
	assert.Equal(t, field.Element(7), ID(7).Scalar())
	assert.False(t, ID(0).Valid())
	assert.True(t, ID(1).Valid())
}

func TestNewIDSlice(t *testing.T) {
	s := NewIDSlice([]ID{5, 1, 3, 3, 1})
	assert.Equal(t, IDSlice{1, 3, 5}, s)
	assert.True(t, s.Valid())
	assert.True(t, s.Contains(1, 5))
	assert.False(t, s.Contains(2))
}

func TestRangeN(t *testing.T) {
	assert.Equal(t, IDSlice{1, 2, 3}, RangeN(3))
}

func TestRemove(t *testing.T) {
	s := RangeN(4).Remove(2)
	assert.Equal(t, IDSlice{1, 3, 4}, s)
}

func TestValidRejectsZeroAndUnsorted(t *testing.T) {
	assert.False(t, IDSlice{0, 1}.Valid())
	assert.False(t, IDSlice{2, 1}.Valid())
	assert.False(t, IDSlice{1, 1}.Valid())
}
