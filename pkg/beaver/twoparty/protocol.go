// Package twoparty implements a two-party Beaver triple protocol built on
// two OLE evaluations.
//
// The protocol runs in seven steps grouped into four transitions per party:
//
//	1–2. each party samples random (x, y)
//	3–4. first OLE over the x values
//	5–6. second OLE over the y values
//	7.   one party combines the results into a 2-of-2 triple
//
// Each party drives its own Protocol value through the transitions; calling
// a step out of order fails with ErrInvalidStep. The triple is always dealt
// with threshold 2 among 2 parties.
package twoparty

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/shardsec/mpc/pkg/beaver"
	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/shardsec/mpc/pkg/ole"
)

var (
	// ErrInvalidStep is returned when a protocol step is invoked out of
	// order.
	ErrInvalidStep = errors.New("twoparty: protocol step out of order")
	// ErrVerification is returned by the generator when the finished triple
	// fails verification.
	ErrVerification = errors.New("twoparty: generated triple failed verification")
)

// Role distinguishes the two participants.
type Role uint8

const (
	RoleP1 Role = iota + 1
	RolePN
)

func (r Role) String() string {
	switch r {
	case RoleP1:
		return "P1"
	case RolePN:
		return "PN"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Step is the protocol position of one party.
type Step uint8

const (
	StepRandomGeneration Step = iota + 1
	StepFirstOLE
	StepSecondOLE
	StepFinalComputation
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepRandomGeneration:
		return "random-generation"
	case StepFirstOLE:
		return "first-ole"
	case StepSecondOLE:
		return "second-ole"
	case StepFinalComputation:
		return "final-computation"
	case StepCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Step(%d)", uint8(s))
	}
}

// Protocol is one party's state in the two-party run.
type Protocol struct {
	role Role
	step Step
	ole  *ole.OLE
	ids  *beaver.IDSequence

	myX, myY       field.Element
	otherX, otherY field.Element
	firstResult    field.Element
	secondResult   field.Element
}

// NewProtocol creates a party in the random-generation step.
func NewProtocol(role Role) *Protocol {
	return &Protocol{
		role: role,
		step: StepRandomGeneration,
		ole:  ole.New(),
		ids:  beaver.NewIDSequence(),
	}
}

// SampleInputs performs steps 1–2: sampling this party's random (x, y).
// The values are returned so the driver can feed them into the peer's OLE
// evaluations.
func (p *Protocol) SampleInputs() (x, y field.Element, err error) {
	if p.step != StepRandomGeneration {
		return 0, 0, fmt.Errorf("%w: in %s", ErrInvalidStep, p.step)
	}
	p.myX = sample.FieldElement(rand.Reader)
	p.myY = sample.FieldElement(rand.Reader)
	p.step = StepFirstOLE
	return p.myX, p.myY, nil
}

// FirstOLE performs steps 3–4: the OLE evaluation over the x values. P1
// acts as the line holder and PN as the evaluation point holder.
func (p *Protocol) FirstOLE(otherX field.Element) (field.Element, error) {
	if p.step != StepFirstOLE {
		return 0, fmt.Errorf("%w: in %s", ErrInvalidStep, p.step)
	}

	var result field.Element
	var err error
	switch p.role {
	case RoleP1:
		result, err = p.ole.Evaluate(p.myX, 0, otherX)
	case RolePN:
		result, err = p.ole.Evaluate(otherX, 0, p.myX)
	default:
		return 0, fmt.Errorf("twoparty: unknown role %d", p.role)
	}
	if err != nil {
		return 0, fmt.Errorf("twoparty: first ole: %w", err)
	}

	p.otherX = otherX
	p.firstResult = result
	p.step = StepSecondOLE
	return result, nil
}

// SecondOLE performs steps 5–6: the OLE evaluation over the y values.
func (p *Protocol) SecondOLE(otherY field.Element) (field.Element, error) {
	if p.step != StepSecondOLE {
		return 0, fmt.Errorf("%w: in %s", ErrInvalidStep, p.step)
	}

	var result field.Element
	var err error
	switch p.role {
	case RoleP1:
		result, err = p.ole.Evaluate(p.myY, 0, otherY)
	case RolePN:
		result, err = p.ole.Evaluate(otherY, 0, p.myY)
	default:
		return 0, fmt.Errorf("twoparty: unknown role %d", p.role)
	}
	if err != nil {
		return 0, fmt.Errorf("twoparty: second ole: %w", err)
	}

	p.otherY = otherY
	p.secondResult = result
	p.step = StepFinalComputation
	return result, nil
}

// Finalize performs step 7: combining this party's values into a complete
// 2-of-2 triple.
func (p *Protocol) Finalize() (*beaver.Complete, error) {
	if p.step != StepFinalComputation {
		return nil, fmt.Errorf("%w: in %s", ErrInvalidStep, p.step)
	}

	a := p.myX
	b := p.myY
	c := field.Mul(a, b)

	triple, err := beaver.Deal(a, b, c, 2, 2, p.ids.Next())
	if err != nil {
		return nil, fmt.Errorf("twoparty: finalize: %w", err)
	}
	p.step = StepCompleted
	return triple, nil
}

// Reset returns the party to the random-generation step, discarding all
// per-run values.
func (p *Protocol) Reset() {
	p.step = StepRandomGeneration
	p.myX, p.myY = 0, 0
	p.otherX, p.otherY = 0, 0
	p.firstResult, p.secondResult = 0, 0
}

// Step returns the party's current protocol position.
func (p *Protocol) Step() Step { return p.step }

// Role returns the party's role.
func (p *Protocol) Role() Role { return p.role }

// Completed reports whether the run has finished.
func (p *Protocol) Completed() bool { return p.step == StepCompleted }
