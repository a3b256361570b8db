// Package beaver implements Beaver multiplication triples: correlated
// randomness (a, b, c) with c = a ⋅ b, Shamir-shared across parties during a
// preprocessing phase and consumed later to multiply secret-shared values
// with only local work and two public openings.
package beaver

import (
	"sort"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/party"
	"github.com/shardsec/mpc/pkg/sharing"
)

// Triple is one party's slice of a multiplication triple: its shares of a,
// b and c, all at the same x-coordinate.
type Triple struct {
	A  sharing.Share `cbor:"a"`
	B  sharing.Share `cbor:"b"`
	C  sharing.Share `cbor:"c"`
	ID uint64        `cbor:"id"`
}

// PartyID returns the party this slice belongs to.
func (t Triple) PartyID() party.ID {
	return t.A.PartyID()
}

// Consistent reports whether all three shares sit at the same nonzero
// x-coordinate.
func (t Triple) Consistent() bool {
	return t.A.X != 0 && t.A.X == t.B.X && t.A.X == t.C.X
}

// Values holds the cleartext (a, b, c) of a triple. It exists only so that
// generators can hand auditors a reference to check against; deployment
// paths strip it before shares leave the dealer.
type Values struct {
	A field.Element `cbor:"a"`
	B field.Element `cbor:"b"`
	C field.Element `cbor:"c"`
}

// Complete is a full triple: every party's slice, plus the optional
// cleartext reference values.
type Complete struct {
	Shares    map[party.ID]Triple
	Reference *Values
}

// NewComplete builds a Complete triple without reference values.
func NewComplete(shares map[party.ID]Triple) *Complete {
	return &Complete{Shares: shares}
}

// Share returns the slice belonging to the given party.
func (c *Complete) Share(id party.ID) (Triple, bool) {
	t, ok := c.Shares[id]
	return t, ok
}

// PartyIDs returns the sorted IDs of all share holders.
func (c *Complete) PartyIDs() party.IDSlice {
	ids := make([]party.ID, 0, len(c.Shares))
	for id := range c.Shares {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// StripReference removes the cleartext values, leaving only the shares.
func (c *Complete) StripReference() {
	c.Reference = nil
}

// Verify checks the triple under the given reconstruction threshold. It
// fails closed: any structural defect, reconstruction failure or product
// mismatch yields false rather than an error.
func (c *Complete) Verify(threshold int) bool {
	if threshold < 1 || len(c.Shares) < threshold {
		return false
	}
	for id, t := range c.Shares {
		if !t.Consistent() || t.PartyID() != id {
			return false
		}
	}
	if c.Reference == nil {
		return true
	}

	ids := c.PartyIDs()[:threshold]
	aShares := make([]sharing.Share, threshold)
	bShares := make([]sharing.Share, threshold)
	cShares := make([]sharing.Share, threshold)
	for i, id := range ids {
		t := c.Shares[id]
		aShares[i], bShares[i], cShares[i] = t.A, t.B, t.C
	}

	a, err := sharing.Reconstruct(aShares, threshold)
	if err != nil || a != c.Reference.A {
		return false
	}
	b, err := sharing.Reconstruct(bShares, threshold)
	if err != nil || b != c.Reference.B {
		return false
	}
	cc, err := sharing.Reconstruct(cShares, threshold)
	if err != nil || cc != c.Reference.C {
		return false
	}
	return cc == field.Mul(a, b)
}

// Deal Shamir-shares the values (a, b, c) across parties under the given
// threshold and returns the resulting triple with its reference attached.
func Deal(a, b, c field.Element, threshold, parties int, id uint64) (*Complete, error) {
	aShares, err := sharing.Split(a, threshold, parties)
	if err != nil {
		return nil, err
	}
	bShares, err := sharing.Split(b, threshold, parties)
	if err != nil {
		return nil, err
	}
	cShares, err := sharing.Split(c, threshold, parties)
	if err != nil {
		return nil, err
	}

	shares := make(map[party.ID]Triple, parties)
	for i := 0; i < parties; i++ {
		pid := party.ID(i + 1)
		shares[pid] = Triple{A: aShares[i], B: bShares[i], C: cShares[i], ID: id}
	}
	return &Complete{
		Shares:    shares,
		Reference: &Values{A: a, B: b, C: c},
	}, nil
}
