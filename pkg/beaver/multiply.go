package beaver

import (
	"fmt"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/sharing"
)

// SecureMultiply multiplies two secret-shared values using one triple.
//
// The parties open d = x − a and e = y − b. Both are uniformly random
// because a and b are uniform and never reused, so the openings reveal
// nothing about x or y. Each party then computes locally
//
//	zᵢ = cᵢ + d⋅bᵢ + e⋅aᵢ + d⋅e
//
// where the public constant d⋅e enters every share, as adding a constant to
// a Shamir sharing means adding it to each evaluation. The zᵢ form a valid
// sharing of x⋅y under the same threshold. This in-process form performs the
// two openings directly from the supplied shares; distributing them is the
// transport layer's concern.
func SecureMultiply(xShares, yShares []sharing.Share, triple *Complete, threshold int) ([]sharing.Share, error) {
	if threshold < 1 || len(xShares) < threshold || len(xShares) != len(yShares) {
		return nil, sharing.ErrInvalidThreshold
	}

	x, err := sharing.Reconstruct(xShares, threshold)
	if err != nil {
		return nil, fmt.Errorf("beaver: open x: %w", err)
	}
	y, err := sharing.Reconstruct(yShares, threshold)
	if err != nil {
		return nil, fmt.Errorf("beaver: open y: %w", err)
	}

	ids := triple.PartyIDs()
	if len(ids) < threshold {
		return nil, sharing.ErrInsufficientShares
	}

	aShares := make([]sharing.Share, threshold)
	bShares := make([]sharing.Share, threshold)
	for i, id := range ids[:threshold] {
		t := triple.Shares[id]
		aShares[i], bShares[i] = t.A, t.B
	}
	a, err := sharing.Reconstruct(aShares, threshold)
	if err != nil {
		return nil, fmt.Errorf("beaver: open a: %w", err)
	}
	b, err := sharing.Reconstruct(bShares, threshold)
	if err != nil {
		return nil, fmt.Errorf("beaver: open b: %w", err)
	}

	d := field.Sub(x, a)
	e := field.Sub(y, b)
	de := field.Mul(d, e)

	out := make([]sharing.Share, 0, len(xShares))
	for _, id := range ids {
		if len(out) == len(xShares) {
			break
		}
		t := triple.Shares[id]
		z := field.Add(t.C.Y, field.Add(field.Mul(d, t.B.Y), field.Mul(e, t.A.Y)))
		z = field.Add(z, de)
		out = append(out, sharing.Share{X: t.A.X, Y: z})
	}
	if len(out) < len(xShares) {
		return nil, sharing.ErrInsufficientShares
	}
	return out, nil
}

// BatchSecureMultiply multiplies pairs of sharings, consuming one triple per
// pair.
func BatchSecureMultiply(xBatch, yBatch [][]sharing.Share, triples []*Complete, threshold int) ([][]sharing.Share, error) {
	if len(xBatch) != len(yBatch) || len(xBatch) != len(triples) {
		return nil, ErrBatchMismatch
	}
	out := make([][]sharing.Share, len(xBatch))
	for i := range xBatch {
		z, err := SecureMultiply(xBatch[i], yBatch[i], triples[i], threshold)
		if err != nil {
			return nil, fmt.Errorf("beaver: batch element %d: %w", i, err)
		}
		out[i] = z
	}
	return out, nil
}

// VerifyBatch verifies every triple in the batch, failing closed on the
// first defect.
func VerifyBatch(triples []*Complete, threshold int) bool {
	if len(triples) == 0 {
		return false
	}
	for _, t := range triples {
		if t == nil || !t.Verify(threshold) {
			return false
		}
	}
	return true
}
