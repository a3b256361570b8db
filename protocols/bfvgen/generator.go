// Package bfvgen implements the distributed Beaver triple backend: n
// parties jointly generate a triple under a collectively generated
// homomorphic key, so no single party ever sees (a, b, c) in the clear
// during the protocol itself.
//
// One run proceeds in eight steps. (1) The parties run the threshold
// key-generation sub-protocol. (2) Each party samples random (aᵢ, bᵢ) and
// (3) broadcasts their encryptions with a commitment. (4) Party 0
// homomorphically sums the Enc(aᵢ) and Enc(bᵢ) and (5) multiplies the sums
// into Enc(a⋅b). (6–7) The first n−1 parties each subtract an encryption of
// a random cᵢ from the running ciphertext, in sequence. (8) The last party
// decrypts the remainder, obtaining c_{n−1} = a⋅b − Σcᵢ, which completes an
// additive sharing of c. The values are then Shamir-shared like every other
// backend's output.
package bfvgen

import (
	"fmt"

	"github.com/shardsec/mpc/pkg/beaver"
	"github.com/shardsec/mpc/pkg/he/bfv"
	"github.com/shardsec/mpc/pkg/math/field"
)

var _ beaver.Generator = (*Generator)(nil)

// Generator drives all n party contexts of the protocol in process and
// exposes the result through the beaver.Generator contract. In a deployment
// each Context runs on its own host; the generator stands in for the
// transport by delivering every broadcast directly.
type Generator struct {
	cfg       Config
	contexts  []*Context
	ids       *beaver.IDSequence
	keysReady bool
}

// NewGenerator creates the distributed backend for the given sizes.
func NewGenerator(partyCount, threshold int) (*Generator, error) {
	return NewGeneratorWithConfig(NewConfig(partyCount, threshold))
}

// NewGeneratorWithConfig creates the backend with explicit parameters.
func NewGeneratorWithConfig(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	contexts := make([]*Context, cfg.PartyCount)
	for i := range contexts {
		ctx, err := NewContext(cfg, i)
		if err != nil {
			return nil, err
		}
		contexts[i] = ctx
	}
	return &Generator{
		cfg:      cfg,
		contexts: contexts,
		ids:      beaver.NewIDSequence(),
	}, nil
}

// Context returns party i's context, mainly for inspection in tests and
// diagnostics.
func (g *Generator) Context(i int) *Context {
	return g.contexts[i]
}

// broadcast delivers msg to every context except the sender's.
func (g *Generator) broadcast(msg *Message) error {
	for _, ctx := range g.contexts {
		if ctx.selfID == msg.From {
			continue
		}
		if err := ctx.AddMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

// runKeyGen executes step 1 across all contexts. Every party starts key
// generation before any contribution is delivered, since a context only
// accepts contributions once its own key generation has begun.
func (g *Generator) runKeyGen() error {
	msgs := make([]*Message, len(g.contexts))
	for i, ctx := range g.contexts {
		msg, err := ctx.StartKeyGen()
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	for _, msg := range msgs {
		if err := g.broadcast(msg); err != nil {
			return err
		}
	}
	for _, ctx := range g.contexts {
		if err := ctx.FinishKeyGen(); err != nil {
			return err
		}
	}
	return nil
}

// GenerateSingle runs one full protocol execution and deals the resulting
// triple. The collective keys are generated on the first run and reused
// afterwards.
func (g *Generator) GenerateSingle() (*beaver.Complete, error) {
	if !g.keysReady {
		if err := g.runKeyGen(); err != nil {
			return nil, err
		}
		g.keysReady = true
	} else {
		for _, ctx := range g.contexts {
			if err := ctx.NextTriple(); err != nil {
				return nil, err
			}
		}
	}

	// Steps 2 and 3: inputs and their encrypted broadcasts.
	for _, ctx := range g.contexts {
		if _, _, err := ctx.SampleInputs(); err != nil {
			return nil, err
		}
		msg, err := ctx.EncryptInputs()
		if err != nil {
			return nil, err
		}
		if err := g.broadcast(msg); err != nil {
			return nil, err
		}
	}

	// Steps 4 and 5 run on party 0.
	p0 := g.contexts[0]
	if err := p0.AggregateSums(); err != nil {
		return nil, err
	}
	aggMsg, err := p0.MultiplySums()
	if err != nil {
		return nil, err
	}
	if err := g.broadcast(aggMsg); err != nil {
		return nil, err
	}

	// Steps 6 and 7: the first n−1 parties mask the product in sequence.
	running := aggMsg.Product
	for i := 0; i < g.cfg.PartyCount-1; i++ {
		updated, msg, err := g.contexts[i].ContributeCShare(running)
		if err != nil {
			return nil, err
		}
		if err := g.broadcast(msg); err != nil {
			return nil, err
		}
		running = updated
	}

	// Step 8: the last party decrypts its own c-share.
	last := g.contexts[g.cfg.PartyCount-1]
	finalC, decMsg, err := last.FinalDecrypt(running)
	if err != nil {
		return nil, err
	}
	if err := g.broadcast(decMsg); err != nil {
		return nil, err
	}

	triple, err := g.assemble(finalC)
	if err != nil {
		abort := last.Abort(err.Error())
		_ = g.broadcast(abort)
		return nil, err
	}

	done := &Message{
		Type:      MessageProtocolComplete,
		From:      last.selfID,
		SessionID: g.cfg.SessionID,
		TripleID:  triple.Shares[1].ID,
		Success:   true,
	}
	if err := g.broadcast(done); err != nil {
		return nil, err
	}
	if err := last.AddMessage(done); err != nil {
		return nil, err
	}
	return triple, nil
}

// assemble recombines the protocol outputs into a dealt triple. The triple
// values are the aggregated sums a = Σaᵢ and b = Σbᵢ together with the
// additively shared c, which must satisfy c = a⋅b for the run to count.
func (g *Generator) assemble(finalC field.Element) (*beaver.Complete, error) {
	var a, b, c field.Element
	for _, ctx := range g.contexts {
		a = field.Add(a, ctx.inputA)
		b = field.Add(b, ctx.inputB)
		if ctx.haveCShare {
			c = field.Add(c, ctx.cShare)
		}
	}
	c = field.Add(c, finalC)

	if c != field.Mul(a, b) {
		return nil, fmt.Errorf("%w: recombined c does not match a*b", beaver.ErrProductCheck)
	}
	return beaver.Deal(a, b, c, g.cfg.Threshold, g.cfg.PartyCount, g.ids.Next())
}

// GenerateBatch runs the protocol count times under the same session keys.
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

// VerifyTriple checks a triple under this generator's threshold.
func (g *Generator) VerifyTriple(t *beaver.Complete) bool {
	return t != nil && t.Verify(g.cfg.Threshold)
}

func (g *Generator) PartyCount() int { return g.cfg.PartyCount }
func (g *Generator) Threshold() int  { return g.cfg.Threshold }

// Params returns the ciphertext parameters of the session, for callers
// that need to size transports or swap in a production engine.
func (g *Generator) Params() bfv.Params {
	return g.cfg.Params
}
