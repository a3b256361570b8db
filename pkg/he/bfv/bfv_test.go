package bfv

import (
	"crypto/rand"
	"testing"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *PublicKey {
	t.Helper()
	params := DefaultParams()
	mask := make([]field.Element, params.Slots)
	for i := range mask {
		mask[i] = sample.FieldElement(rand.Reader)
	}
	pk, err := NewPublicKey(params, mask)
	require.NoError(t, err)
	return pk
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	pk := testKey(t)
	for i := 0; i < 32; i++ {
		m := sample.FieldElement(rand.Reader)
		ct, err := Encrypt(pk, m)
		require.NoError(t, err)

		got, err := Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestHomomorphicAddSub(t *testing.T) {
	pk := testKey(t)
	x := sample.FieldElement(rand.Reader)
	y := sample.FieldElement(rand.Reader)

	cx, err := Encrypt(pk, x)
	require.NoError(t, err)
	cy, err := Encrypt(pk, y)
	require.NoError(t, err)

	sum, err := Add(cx, cy)
	require.NoError(t, err)
	got, err := Decrypt(sum)
	require.NoError(t, err)
	assert.Equal(t, field.Add(x, y), got)

	diff, err := Sub(cx, cy)
	require.NoError(t, err)
	got, err = Decrypt(diff)
	require.NoError(t, err)
	assert.Equal(t, field.Sub(x, y), got)
}

func TestHomomorphicMul(t *testing.T) {
	pk := testKey(t)
	x := field.Element(15)
	y := field.Element(25)

	cx, err := Encrypt(pk, x)
	require.NoError(t, err)
	cy, err := Encrypt(pk, y)
	require.NoError(t, err)

	prod, err := Mul(cx, cy)
	require.NoError(t, err)
	assert.Equal(t, 2, prod.Degree)

	got, err := Decrypt(prod)
	require.NoError(t, err)
	assert.Equal(t, field.Element(375), got)
}

func TestMulThenAdd(t *testing.T) {
	pk := testKey(t)
	x := sample.FieldElement(rand.Reader)
	y := sample.FieldElement(rand.Reader)
	z := sample.FieldElement(rand.Reader)

	cx, _ := Encrypt(pk, x)
	cy, _ := Encrypt(pk, y)
	cz, _ := Encrypt(pk, z)

	prod, err := Mul(cx, cy)
	require.NoError(t, err)
	out, err := Add(prod, cz)
	require.NoError(t, err)

	got, err := Decrypt(out)
	require.NoError(t, err)
	assert.Equal(t, field.Add(field.Mul(x, y), z), got)
}

func TestDepthExceeded(t *testing.T) {
	pk, err := NewPublicKey(Params{Slots: 3}, make([]field.Element, 3))
	require.NoError(t, err)

	cx, _ := Encrypt(pk, 2)
	cy, _ := Encrypt(pk, 3)

	prod, err := Mul(cx, cy)
	require.NoError(t, err)

	// degree 2 + 1 = 3 needs 4 slots
	_, err = Mul(prod, cx)
	assert.ErrorIs(t, err, ErrDepthExceeded)
}

func TestDimensionMismatch(t *testing.T) {
	big := testKey(t)
	small, err := NewPublicKey(Params{Slots: 4}, make([]field.Element, 4))
	require.NoError(t, err)

	ca, _ := Encrypt(big, 1)
	cb, _ := Encrypt(small, 2)

	_, err = Add(ca, cb)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = Sub(ca, cb)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = Mul(ca, cb)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEncryptValidation(t *testing.T) {
	pk := testKey(t)
	_, err := Encrypt(pk, field.Element(field.Prime))
	assert.ErrorIs(t, err, ErrInvalidPlaintext)

	_, err = NewPublicKey(Params{Slots: 2}, make([]field.Element, 2))
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewPublicKey(DefaultParams(), make([]field.Element, 3))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestThresholdDecryption(t *testing.T) {
	pk := testKey(t)
	x := field.Element(15)
	y := field.Element(25)

	cx, _ := Encrypt(pk, x)
	cy, _ := Encrypt(pk, y)
	prod, err := Mul(cx, cy)
	require.NoError(t, err)

	// degree 2, so parties 0, 1, 2 decrypt together
	shares := make([]*DecryptionShare, 0, 3)
	for i := 0; i <= prod.Degree; i++ {
		sk := &SecretKeyShare{PartyID: i, Value: 1}
		ds, err := PartialDecrypt(sk, prod)
		require.NoError(t, err)
		shares = append(shares, ds)
	}

	got, err := CombineShares(prod, shares)
	require.NoError(t, err)
	assert.Equal(t, field.Element(375), got)
}

func TestThresholdDecryptionErrors(t *testing.T) {
	pk := testKey(t)
	ct, _ := Encrypt(pk, 7)

	_, err := PartialDecrypt(&SecretKeyShare{PartyID: 5}, ct)
	assert.ErrorIs(t, err, ErrPartyOutOfRange)

	ds0, err := PartialDecrypt(&SecretKeyShare{PartyID: 0}, ct)
	require.NoError(t, err)

	_, err = CombineShares(ct, []*DecryptionShare{ds0})
	assert.ErrorIs(t, err, ErrIncompleteDecryption)

	_, err = CombineShares(ct, []*DecryptionShare{ds0, ds0})
	assert.ErrorIs(t, err, ErrIncompleteDecryption)
}
