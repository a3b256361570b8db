package bfv

import (
	"errors"
	"fmt"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/polynomial"
)

var (
	// ErrPartyOutOfRange is returned when a party holds no slot needed for
	// the decryption of the given ciphertext.
	ErrPartyOutOfRange = errors.New("bfv: party index outside decryption set")
	// ErrIncompleteDecryption is returned when the combined shares do not
	// cover every required slot exactly once.
	ErrIncompleteDecryption = errors.New("bfv: decryption shares do not cover the ciphertext")
)

// DecryptionShare is one party's additive contribution to a decryption:
// party i contributes ℓᵢ(0) ⋅ f(i+1), so the shares of the first degree+1
// parties sum to the plaintext f(0).
type DecryptionShare struct {
	PartyID int           `cbor:"party_id"`
	Value   field.Element `cbor:"value"`
}

// PartialDecrypt produces the decryption share of the party holding sk.
// Only parties 0, …, degree contribute to a given ciphertext.
func PartialDecrypt(sk *SecretKeyShare, ct *Ciphertext) (*DecryptionShare, error) {
	points := ct.Degree + 1
	if points > len(ct.Evals) {
		return nil, fmt.Errorf("%w: degree %d with %d slots", ErrDepthExceeded, ct.Degree, len(ct.Evals))
	}
	if sk.PartyID < 0 || sk.PartyID >= points {
		return nil, fmt.Errorf("%w: party %d, need parties 0..%d", ErrPartyOutOfRange, sk.PartyID, points-1)
	}

	xs := make([]field.Element, points)
	for i := range xs {
		xs[i] = field.Element(i + 1)
	}
	l, err := polynomial.LagrangeCoefficientAtZero(xs, sk.PartyID)
	if err != nil {
		return nil, fmt.Errorf("bfv: partial decrypt: %w", err)
	}
	return &DecryptionShare{
		PartyID: sk.PartyID,
		Value:   field.Mul(l, ct.Evals[sk.PartyID]),
	}, nil
}

// CombineShares sums decryption shares into the plaintext. The shares must
// come from exactly the parties 0, …, degree, each once.
func CombineShares(ct *Ciphertext, shares []*DecryptionShare) (field.Element, error) {
	points := ct.Degree + 1
	if len(shares) != points {
		return 0, fmt.Errorf("%w: got %d shares, need %d", ErrIncompleteDecryption, len(shares), points)
	}

	seen := make(map[int]bool, points)
	var m field.Element
	for _, s := range shares {
		if s.PartyID < 0 || s.PartyID >= points || seen[s.PartyID] {
			return 0, fmt.Errorf("%w: party %d", ErrIncompleteDecryption, s.PartyID)
		}
		seen[s.PartyID] = true
		m = field.Add(m, s.Value)
	}
	return m, nil
}
