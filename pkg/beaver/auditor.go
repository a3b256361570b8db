package beaver

import "github.com/shardsec/mpc/pkg/math/field"

// Auditor performs offline checks over batches of dealt triples before they
// are handed to the online phase.
type Auditor struct {
	partyCount int
	threshold  int
}

func NewAuditor(partyCount, threshold int) *Auditor {
	return &Auditor{partyCount: partyCount, threshold: threshold}
}

// Audit checks a batch structurally and, where reference values are still
// attached, algebraically. It fails closed.
//
// Checks per triple: full share set for every party, consistent
// x-coordinates, threshold verification, c = a⋅b on the reference, and
// batch-unique triple IDs.
func (a *Auditor) Audit(triples []*Complete) bool {
	if len(triples) == 0 {
		return false
	}

	seenIDs := make(map[uint64]bool, len(triples))
	for _, t := range triples {
		if t == nil || len(t.Shares) != a.partyCount {
			return false
		}
		if !t.Verify(a.threshold) {
			return false
		}
		if t.Reference != nil && t.Reference.C != field.Mul(t.Reference.A, t.Reference.B) {
			return false
		}

		var id uint64
		for _, slice := range t.Shares {
			id = slice.ID
			break
		}
		for _, slice := range t.Shares {
			if slice.ID != id {
				return false
			}
		}
		if seenIDs[id] {
			return false
		}
		seenIDs[id] = true
	}
	return true
}
