package beaver

import (
	"crypto/rand"
	"fmt"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/shardsec/mpc/pkg/ole"
	"github.com/shardsec/mpc/pkg/sharing"
)

var _ Generator = (*TrustedParty)(nil)
var _ Generator = (*OLEGenerator)(nil)

// OLEGenerator is the dealer-free backend built on oblivious linear
// evaluation: a and b are sampled locally, the cross product is obtained
// through the OLE correlation, and the result is checked before dealing.
// No single party ever needs to be trusted with a full triple.
type OLEGenerator struct {
	partyCount int
	threshold  int
	ids        *IDSequence
	ole        *ole.OLE
}

func NewOLEGenerator(partyCount, threshold int) (*OLEGenerator, error) {
	if threshold < 1 || partyCount < 1 || threshold > partyCount {
		return nil, sharing.ErrInvalidThreshold
	}
	return &OLEGenerator{
		partyCount: partyCount,
		threshold:  threshold,
		ids:        NewIDSequence(),
		ole:        ole.New(),
	}, nil
}

// GenerateSingle samples a and b, multiplies them through the OLE
// correlation, and deals the verified triple.
func (g *OLEGenerator) GenerateSingle() (*Complete, error) {
	a := sample.FieldElement(rand.Reader)
	b := sample.FieldElement(rand.Reader)

	c, err := g.ole.Multiply(a, b)
	if err != nil {
		return nil, fmt.Errorf("beaver: ole backend: %w", err)
	}
	if c != field.Mul(a, b) {
		return nil, ErrProductCheck
	}
	return Deal(a, b, c, g.threshold, g.partyCount, g.ids.Next())
}

// GenerateBatch produces count independent triples. There is no cross-triple
// amortization in this backend; each triple consumes one OLE evaluation.
func (g *OLEGenerator) GenerateBatch(count int) ([]*Complete, error) {
	if count < 1 {
		return nil, ErrInvalidBatchSize
	}
	out := make([]*Complete, count)
	for i := range out {
		t, err := g.GenerateSingle()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// VerifyTriple checks the triple under this generator's threshold.
func (g *OLEGenerator) VerifyTriple(t *Complete) bool {
	return t != nil && t.Verify(g.threshold)
}

func (g *OLEGenerator) PartyCount() int { return g.partyCount }
func (g *OLEGenerator) Threshold() int  { return g.threshold }
