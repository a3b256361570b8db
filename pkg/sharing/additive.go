package sharing

import (
	"crypto/rand"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/shardsec/mpc/pkg/party"
)

// AdditiveShare is one summand of an n-of-n additive sharing. Unlike Shamir
// shares there is no threshold structure: every part is required to recover
// the secret, and any strict subset is uniformly random.
type AdditiveShare struct {
	PartyID party.ID      `cbor:"party_id"`
	Value   field.Element `cbor:"value"`
}

// SplitAdditive splits secret into parties uniformly random summands whose
// sum is the secret.
func SplitAdditive(secret field.Element, parties int) ([]AdditiveShare, error) {
	if parties < 1 {
		return nil, ErrInvalidThreshold
	}
	if !field.IsValid(secret) {
		return nil, ErrSecretTooLarge
	}

	shares := make([]AdditiveShare, parties)
	remainder := secret
	for i := 0; i < parties-1; i++ {
		v := sample.FieldElement(rand.Reader)
		shares[i] = AdditiveShare{PartyID: party.ID(i + 1), Value: v}
		remainder = field.Sub(remainder, v)
	}
	shares[parties-1] = AdditiveShare{PartyID: party.ID(parties), Value: remainder}
	return shares, nil
}

// CombineAdditive sums the shares back into the secret. All parts of the
// sharing must be present; a partial set yields an unrelated random value.
func CombineAdditive(shares []AdditiveShare) (field.Element, error) {
	if len(shares) == 0 {
		return 0, ErrInsufficientShares
	}
	var secret field.Element
	for _, s := range shares {
		secret = field.Add(secret, s.Value)
	}
	return secret, nil
}

// AddAdditive returns the share of the sum of the two underlying secrets.
// Both shares must belong to the same party.
func AddAdditive(a, b AdditiveShare) (AdditiveShare, error) {
	if a.PartyID != b.PartyID {
		return AdditiveShare{}, ErrInvalidShare
	}
	return AdditiveShare{PartyID: a.PartyID, Value: field.Add(a.Value, b.Value)}, nil
}

// ScalarMulAdditive returns the share of the secret scaled by a public
// constant.
func ScalarMulAdditive(s AdditiveShare, scalar field.Element) AdditiveShare {
	return AdditiveShare{PartyID: s.PartyID, Value: field.Mul(s.Value, scalar)}
}
