package bfvgen

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"github.com/shardsec/mpc/internal/hash"
	"github.com/shardsec/mpc/pkg/he/bfv"
	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/polynomial"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/shardsec/mpc/pkg/sharing"
)

// Contribution is one party's broadcast in the collective key generation:
// its public polynomial, commitments pinning down its secret polynomial,
// and a proof digest binding the whole contribution to the sender.
type Contribution struct {
	PartyID     int               `cbor:"party_id"`
	Public      []field.Element   `cbor:"public"`
	Commitments []hash.Commitment `cbor:"commitments"`
	Proof       []byte            `cbor:"proof"`
}

// proofDigest binds the sender to its public data. Anyone can recompute it.
func (c *Contribution) proofDigest() []byte {
	h := hash.New()
	_ = h.WriteAny(c.PartyID, c.Public)
	for _, cm := range c.Commitments {
		_ = h.WriteAny(cm)
	}
	return h.Sum()
}

// KeyGen runs one party's side of the threshold key-generation
// sub-protocol: contribute a secret degree-(t−1) polynomial, collect every
// other party's contribution, and derive the aggregate public key plus this
// party's secret-key share.
type KeyGen struct {
	partyCount int
	threshold  int
	selfID     int
	params     bfv.Params

	secret        *polynomial.Polynomial
	decommitments []hash.Decommitment
	contributions map[int]*Contribution
}

func NewKeyGen(partyCount, threshold, selfID int, params bfv.Params) (*KeyGen, error) {
	if threshold < 1 || partyCount < 2 || threshold > partyCount {
		return nil, sharing.ErrInvalidThreshold
	}
	if selfID < 0 || selfID >= partyCount {
		return nil, fmt.Errorf("%w: party %d of %d", ErrWrongParty, selfID, partyCount)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &KeyGen{
		partyCount:    partyCount,
		threshold:     threshold,
		selfID:        selfID,
		params:        params,
		contributions: make(map[int]*Contribution, partyCount),
	}, nil
}

// GenerateContribution samples this party's secret polynomial and builds
// the broadcast contribution. It can be called once per run.
func (k *KeyGen) GenerateContribution() (*Contribution, error) {
	if k.secret != nil {
		return nil, fmt.Errorf("%w: contribution already generated", ErrOutOfOrder)
	}

	k.secret = polynomial.NewPolynomial(k.threshold-1, sample.FieldElement(rand.Reader), rand.Reader)

	public := make([]field.Element, k.params.Slots)
	for i := range public {
		public[i] = sample.FieldElement(rand.Reader)
	}

	commitments := make([]hash.Commitment, k.threshold)
	k.decommitments = make([]hash.Decommitment, k.threshold)
	for i := 0; i < k.threshold; i++ {
		// The evaluations at 1..t pin down the degree-(t−1) secret
		// polynomial; each gets its own commitment, opened only on dispute.
		coeff := k.secret.Evaluate(field.Element(i + 1))
		c, d, err := hash.New().Commit(k.selfID, i, coeff)
		if err != nil {
			return nil, fmt.Errorf("bfvgen: keygen commit: %w", err)
		}
		commitments[i] = c
		k.decommitments[i] = d
	}

	contribution := &Contribution{
		PartyID:     k.selfID,
		Public:      public,
		Commitments: commitments,
	}
	contribution.Proof = contribution.proofDigest()

	k.contributions[k.selfID] = contribution
	return contribution, nil
}

// AddContribution verifies and stores another party's contribution.
func (k *KeyGen) AddContribution(c *Contribution) error {
	if c == nil {
		return fmt.Errorf("%w: nil", ErrInvalidContribution)
	}
	if c.PartyID < 0 || c.PartyID >= k.partyCount {
		return fmt.Errorf("%w: party %d out of range", ErrInvalidContribution, c.PartyID)
	}
	if _, dup := k.contributions[c.PartyID]; dup {
		return fmt.Errorf("%w: duplicate from party %d", ErrInvalidContribution, c.PartyID)
	}
	if len(c.Public) != k.params.Slots {
		return fmt.Errorf("%w: public polynomial length %d, want %d",
			ErrInvalidContribution, len(c.Public), k.params.Slots)
	}
	for _, e := range c.Public {
		if !field.IsValid(e) {
			return fmt.Errorf("%w: coefficient out of range", ErrInvalidContribution)
		}
	}
	if len(c.Commitments) != k.threshold {
		return fmt.Errorf("%w: %d commitments, want %d",
			ErrInvalidContribution, len(c.Commitments), k.threshold)
	}
	for _, cm := range c.Commitments {
		if err := cm.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidContribution, err)
		}
	}
	if !bytes.Equal(c.Proof, c.proofDigest()) {
		return fmt.Errorf("%w: proof check failed for party %d", ErrInvalidContribution, c.PartyID)
	}

	k.contributions[c.PartyID] = c
	return nil
}

// Complete reports whether contributions from all parties are present.
func (k *KeyGen) Complete() bool {
	return len(k.contributions) == k.partyCount
}

// Contributions returns how many contributions have been collected.
func (k *KeyGen) Contributions() int {
	return len(k.contributions)
}

// Keypair derives the aggregate public key and this party's secret-key
// share. The mask is the coefficient-wise sum of every public polynomial,
// so all parties derive the same key; the secret share is the
// Lagrange-weighted combination of this party's secret polynomial over the
// party nodes.
func (k *KeyGen) Keypair() (*bfv.PublicKey, *bfv.SecretKeyShare, error) {
	if !k.Complete() {
		return nil, nil, fmt.Errorf("%w: %d of %d keygen contributions",
			ErrMissingMessages, len(k.contributions), k.partyCount)
	}

	mask := make([]field.Element, k.params.Slots)
	for _, c := range k.contributions {
		for i, e := range c.Public {
			mask[i] = field.Add(mask[i], e)
		}
	}
	pk, err := bfv.NewPublicKey(k.params, mask)
	if err != nil {
		return nil, nil, fmt.Errorf("bfvgen: keygen: %w", err)
	}

	nodes := make([]field.Element, k.partyCount)
	for i := range nodes {
		nodes[i] = field.Element(i + 1)
	}
	var share field.Element
	for j := range nodes {
		l, err := polynomial.LagrangeCoefficientAtZero(nodes, j)
		if err != nil {
			return nil, nil, fmt.Errorf("bfvgen: keygen: %w", err)
		}
		share = field.Add(share, field.Mul(l, k.secret.Evaluate(nodes[j])))
	}

	return pk, &bfv.SecretKeyShare{PartyID: k.selfID, Value: share}, nil
}

// Reset discards all state so the KeyGen can run again.
func (k *KeyGen) Reset() {
	k.secret = nil
	k.decommitments = nil
	k.contributions = make(map[int]*Contribution, k.partyCount)
}
