package twoparty

import (
	"github.com/shardsec/mpc/pkg/beaver"
)

var _ beaver.Generator = (*Generator)(nil)

// Generator drives both parties of the two-party protocol in process and
// exposes the result through the beaver.Generator contract. In a deployment
// the two Protocol values live on different hosts and the transcript
// messages travel over a transport; here the generator plays postman.
type Generator struct {
	p1     *Protocol
	pn     *Protocol
	verify bool
}

func NewGenerator() *Generator {
	return &Generator{
		p1:     NewProtocol(RoleP1),
		pn:     NewProtocol(RolePN),
		verify: true,
	}
}

// SetVerification toggles triple verification after each run.
func (g *Generator) SetVerification(enable bool) {
	g.verify = enable
}

// execute runs one full seven-step protocol and returns the triple along
// with the transcript.
func (g *Generator) execute() (*beaver.Complete, []Message, error) {
	p1X, p1Y, err := g.p1.SampleInputs()
	if err != nil {
		return nil, nil, err
	}
	pnX, pnY, err := g.pn.SampleInputs()
	if err != nil {
		return nil, nil, err
	}

	firstP1, err := g.p1.FirstOLE(pnX)
	if err != nil {
		return nil, nil, err
	}
	firstPN, err := g.pn.FirstOLE(p1X)
	if err != nil {
		return nil, nil, err
	}

	secondP1, err := g.p1.SecondOLE(pnY)
	if err != nil {
		return nil, nil, err
	}
	secondPN, err := g.pn.SecondOLE(p1Y)
	if err != nil {
		return nil, nil, err
	}

	// Step 7 runs on P1 only; PN's state is reset with the transcript done.
	triple, err := g.p1.Finalize()
	if err != nil {
		return nil, nil, err
	}

	transcript := []Message{
		{Kind: MessageFirstOLERequest, From: RoleP1, Value: p1X},
		{Kind: MessageFirstOLEResponse, From: RolePN, Value: firstPN},
		{Kind: MessageFirstOLEResponse, From: RoleP1, Value: firstP1},
		{Kind: MessageSecondOLERequest, From: RoleP1, Value: p1Y},
		{Kind: MessageSecondOLEResponse, From: RolePN, Value: secondPN},
		{Kind: MessageSecondOLEResponse, From: RoleP1, Value: secondP1},
	}

	if g.verify && !triple.Verify(2) {
		g.p1.Reset()
		g.pn.Reset()
		return nil, transcript, ErrVerification
	}

	g.p1.Reset()
	g.pn.Reset()
	return triple, transcript, nil
}

// GenerateSingle runs one protocol execution.
func (g *Generator) GenerateSingle() (*beaver.Complete, error) {
	triple, _, err := g.execute()
	return triple, err
}

// GenerateWithTranscript runs one execution and also returns the protocol
// transcript, validated message by message.
func (g *Generator) GenerateWithTranscript() (*beaver.Complete, []Message, error) {
	triple, transcript, err := g.execute()
	if err != nil {
		return nil, transcript, err
	}
	for i := range transcript {
		if err := transcript[i].Validate(); err != nil {
			return nil, transcript, err
		}
	}
	return triple, transcript, nil
}

// GenerateBatch runs the protocol count times.
func (g *Generator) GenerateBatch(count int) ([]*beaver.Complete, error) {
	if count < 1 {
		return nil, beaver.ErrInvalidBatchSize
	}
	out := make([]*beaver.Complete, count)
	for i := range out {
		t, err := g.GenerateSingle()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// VerifyTriple checks a triple under the fixed 2-of-2 threshold.
func (g *Generator) VerifyTriple(t *beaver.Complete) bool {
	return t != nil && t.Verify(2)
}

// PartyCount is always 2 for this backend.
func (g *Generator) PartyCount() int { return 2 }

// Threshold is always 2 for this backend.
func (g *Generator) Threshold() int { return 2 }
