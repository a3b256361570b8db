package bfvgen

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
	"github.com/shardsec/mpc/internal/hash"
	"github.com/shardsec/mpc/pkg/he/bfv"
	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/shardsec/mpc/pkg/sharing"
)

// Config fixes the parameters of one protocol session. All parties must
// share the same Config, including the session identifier that every
// message is bound to.
type Config struct {
	PartyCount int
	Threshold  int
	Params     bfv.Params
	SessionID  uuid.UUID
}

// NewConfig returns a Config for the given sizes with default ciphertext
// parameters and a fresh session identifier.
func NewConfig(partyCount, threshold int) Config {
	return Config{
		PartyCount: partyCount,
		Threshold:  threshold,
		Params:     bfv.DefaultParams(),
		SessionID:  uuid.New(),
	}
}

func (c Config) Validate() error {
	if c.Threshold < 1 || c.PartyCount < 2 || c.Threshold > c.PartyCount {
		return sharing.ErrInvalidThreshold
	}
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("%w: missing session id", ErrInvalidMessage)
	}
	return nil
}

type messageKey struct {
	from  int
	round Round
}

// Context is one party's state machine for a protocol run. It owns the
// message buffer, the derived keys and every intermediate value; it is not
// safe for concurrent use and must never be shared between parties.
type Context struct {
	cfg    Config
	selfID int

	phase      Phase
	round      Round
	failReason string

	keygen      *KeyGen
	publicKey   *bfv.PublicKey
	secretShare *bfv.SecretKeyShare

	received map[messageKey]*Message

	inputA, inputB field.Element
	haveInputs     bool
	encA, encB     *bfv.Ciphertext
	decommitment   hash.Decommitment

	aggA, aggB *bfv.Ciphertext
	product    *bfv.Ciphertext

	cShare     field.Element
	haveCShare bool
	finalC     field.Element
	haveFinalC bool

	tripleID uint64
}

// NewContext creates party selfID's context for the session.
func NewContext(cfg Config, selfID int) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if selfID < 0 || selfID >= cfg.PartyCount {
		return nil, fmt.Errorf("%w: party %d of %d", ErrWrongParty, selfID, cfg.PartyCount)
	}
	return &Context{
		cfg:      cfg,
		selfID:   selfID,
		phase:    PhaseInitialized,
		round:    RoundKeyGen,
		received: make(map[messageKey]*Message),
	}, nil
}

func (c *Context) SelfID() int          { return c.selfID }
func (c *Context) Phase() Phase         { return c.phase }
func (c *Context) Round() Round         { return c.round }
func (c *Context) FailReason() string   { return c.failReason }
func (c *Context) SessionID() uuid.UUID { return c.cfg.SessionID }
func (c *Context) TripleID() uint64     { return c.tripleID }

// PublicKey returns the aggregate key once key generation has finished.
func (c *Context) PublicKey() *bfv.PublicKey { return c.publicKey }

// SecretShare returns this party's share of the joint secret key.
func (c *Context) SecretShare() *bfv.SecretKeyShare { return c.secretShare }

func (c *Context) lastParty() int { return c.cfg.PartyCount - 1 }

// fail moves the context to the failed phase. Buffered messages stay
// inspectable.
func (c *Context) fail(reason string) {
	c.phase = PhaseFailed
	c.failReason = reason
}

// Abort fails the run locally and returns the abort broadcast for the other
// parties.
func (c *Context) Abort(reason string) *Message {
	c.fail(reason)
	return &Message{
		Type:      MessageProtocolAbort,
		From:      c.selfID,
		SessionID: c.cfg.SessionID,
		Reason:    reason,
	}
}

// AddMessage validates msg and stores it in the round buffer. Completion
// and abort messages transition the phase instead of being buffered.
func (c *Context) AddMessage(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("%w: nil", ErrInvalidMessage)
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if msg.SessionID != c.cfg.SessionID {
		return fmt.Errorf("%w: session %s, want %s", ErrInvalidMessage, msg.SessionID, c.cfg.SessionID)
	}
	if msg.From >= c.cfg.PartyCount {
		return fmt.Errorf("%w: sender %d of %d parties", ErrInvalidMessage, msg.From, c.cfg.PartyCount)
	}

	switch msg.Type {
	case MessageProtocolAbort:
		c.fail(fmt.Sprintf("aborted by party %d: %s", msg.From, msg.Reason))
		return nil
	case MessageProtocolComplete:
		if c.phase != PhaseFailed {
			c.tripleID = msg.TripleID
			c.phase = PhaseCompleted
		}
		return nil
	case MessageKeyGenContribution:
		if c.keygen == nil {
			return fmt.Errorf("%w: key generation not started", ErrOutOfOrder)
		}
		if msg.From != c.selfID {
			if err := c.keygen.AddContribution(msg.Contribution); err != nil {
				return err
			}
		}
	}

	round, ok := msg.Type.Round()
	if !ok {
		return nil
	}
	key := messageKey{from: msg.From, round: round}
	if _, dup := c.received[key]; dup {
		return fmt.Errorf("%w: duplicate %s from party %d", ErrInvalidMessage, msg.Type, msg.From)
	}
	c.received[key] = msg
	c.maybeAdvance()
	return nil
}

// Message returns the buffered message from the given party and round.
func (c *Context) Message(from int, round Round) (*Message, bool) {
	m, ok := c.received[messageKey{from: from, round: round}]
	return m, ok
}

// RoundComplete reports whether every message the round structurally
// requires is buffered. The requirement differs per round: all other
// parties for key generation and encrypted shares, party 0 for the
// aggregation, the first n−1 parties for the c-shares, and the last party
// for the reconstruction.
func (c *Context) RoundComplete(round Round) bool {
	switch round {
	case RoundKeyGen, RoundEncryptedShares:
		for p := 0; p < c.cfg.PartyCount; p++ {
			if p == c.selfID {
				continue
			}
			if _, ok := c.received[messageKey{from: p, round: round}]; !ok {
				return false
			}
		}
		return true
	case RoundAggregation:
		_, ok := c.received[messageKey{from: 0, round: round}]
		return ok
	case RoundCShare:
		for p := 0; p < c.cfg.PartyCount-1; p++ {
			if p == c.selfID {
				continue
			}
			if _, ok := c.received[messageKey{from: p, round: round}]; !ok {
				return false
			}
		}
		return true
	case RoundReconstruction:
		if c.selfID == c.lastParty() {
			return true
		}
		_, ok := c.received[messageKey{from: c.lastParty(), round: round}]
		return ok
	default:
		return false
	}
}

// AdvanceRound moves to the next round, rejecting advancement past the
// final one.
func (c *Context) AdvanceRound() error {
	next, err := c.round.Next()
	if err != nil {
		return err
	}
	c.round = next
	return nil
}

// maybeAdvance walks the round counter forward over completed rounds.
func (c *Context) maybeAdvance() {
	for c.round < RoundReconstruction && c.RoundComplete(c.round) {
		if err := c.AdvanceRound(); err != nil {
			return
		}
	}
}

// StartKeyGen begins the run: it samples this party's key-generation
// contribution and returns the broadcast for the other parties.
func (c *Context) StartKeyGen() (*Message, error) {
	if c.phase == PhaseFailed {
		return nil, fmt.Errorf("%w: %s", ErrProtocolFailed, c.failReason)
	}
	if c.phase != PhaseInitialized {
		return nil, fmt.Errorf("%w: key generation in phase %s", ErrOutOfOrder, c.phase)
	}

	kg, err := NewKeyGen(c.cfg.PartyCount, c.cfg.Threshold, c.selfID, c.cfg.Params)
	if err != nil {
		return nil, err
	}
	contribution, err := kg.GenerateContribution()
	if err != nil {
		return nil, err
	}

	c.keygen = kg
	c.phase = PhaseKeyGeneration
	return &Message{
		Type:         MessageKeyGenContribution,
		From:         c.selfID,
		SessionID:    c.cfg.SessionID,
		Contribution: contribution,
	}, nil
}

// FinishKeyGen derives the aggregate public key and this party's secret
// share once all contributions have arrived.
func (c *Context) FinishKeyGen() error {
	if c.phase != PhaseKeyGeneration {
		return fmt.Errorf("%w: finish keygen in phase %s", ErrOutOfOrder, c.phase)
	}
	if !c.keygen.Complete() {
		return fmt.Errorf("%w: %d of %d keygen contributions",
			ErrMissingMessages, c.keygen.Contributions(), c.cfg.PartyCount)
	}

	pk, sk, err := c.keygen.Keypair()
	if err != nil {
		return err
	}
	c.publicKey = pk
	c.secretShare = sk
	c.phase = PhaseWaitingForShares
	return nil
}

// SampleInputs draws this party's random triple inputs (aᵢ, bᵢ).
func (c *Context) SampleInputs() (a, b field.Element, err error) {
	if c.phase != PhaseWaitingForShares {
		return 0, 0, fmt.Errorf("%w: sample inputs in phase %s", ErrOutOfOrder, c.phase)
	}
	if c.haveInputs {
		return 0, 0, fmt.Errorf("%w: inputs already sampled", ErrOutOfOrder)
	}
	c.inputA = sample.FieldElement(rand.Reader)
	c.inputB = sample.FieldElement(rand.Reader)
	c.haveInputs = true
	return c.inputA, c.inputB, nil
}

// EncryptInputs encrypts the sampled inputs under the aggregate key and
// returns the broadcast carrying the ciphertexts plus a commitment to
// (aᵢ, bᵢ, party id).
func (c *Context) EncryptInputs() (*Message, error) {
	if c.phase != PhaseWaitingForShares || !c.haveInputs {
		return nil, fmt.Errorf("%w: encrypt inputs before sampling", ErrOutOfOrder)
	}
	if c.encA != nil {
		return nil, fmt.Errorf("%w: inputs already encrypted", ErrOutOfOrder)
	}

	encA, err := bfv.Encrypt(c.publicKey, c.inputA)
	if err != nil {
		return nil, fmt.Errorf("bfvgen: encrypt a: %w", err)
	}
	encB, err := bfv.Encrypt(c.publicKey, c.inputB)
	if err != nil {
		return nil, fmt.Errorf("bfvgen: encrypt b: %w", err)
	}
	commitment, decommitment, err := hash.New().Commit(c.inputA, c.inputB, c.selfID)
	if err != nil {
		return nil, fmt.Errorf("bfvgen: commit inputs: %w", err)
	}

	c.encA, c.encB = encA, encB
	c.decommitment = decommitment
	return &Message{
		Type:       MessageEncryptedShares,
		From:       c.selfID,
		SessionID:  c.cfg.SessionID,
		EncA:       encA,
		EncB:       encB,
		Commitment: commitment,
	}, nil
}

// AggregateSums homomorphically sums every party's Enc(aᵢ) and Enc(bᵢ).
// Only party 0 may perform this step, and only once the encrypted-shares
// round is complete.
func (c *Context) AggregateSums() error {
	if c.selfID != 0 {
		return fmt.Errorf("%w: aggregation is reserved for party 0, not %d", ErrWrongParty, c.selfID)
	}
	if c.phase != PhaseWaitingForShares || c.encA == nil {
		return fmt.Errorf("%w: aggregate in phase %s", ErrOutOfOrder, c.phase)
	}
	if !c.RoundComplete(RoundEncryptedShares) {
		return fmt.Errorf("%w: encrypted shares incomplete", ErrMissingMessages)
	}

	aggA, aggB := c.encA, c.encB
	var err error
	for p := 1; p < c.cfg.PartyCount; p++ {
		msg, _ := c.Message(p, RoundEncryptedShares)
		if aggA, err = bfv.Add(aggA, msg.EncA); err != nil {
			return fmt.Errorf("bfvgen: aggregate a: %w", err)
		}
		if aggB, err = bfv.Add(aggB, msg.EncB); err != nil {
			return fmt.Errorf("bfvgen: aggregate b: %w", err)
		}
	}

	c.aggA, c.aggB = aggA, aggB
	c.phase = PhaseHomomorphicComputation
	return nil
}

// MultiplySums computes Enc(a⋅b) from the aggregated sums and returns the
// broadcast announcing the result. Party 0 only.
func (c *Context) MultiplySums() (*Message, error) {
	if c.selfID != 0 {
		return nil, fmt.Errorf("%w: multiplication is reserved for party 0, not %d", ErrWrongParty, c.selfID)
	}
	if c.phase != PhaseHomomorphicComputation {
		return nil, fmt.Errorf("%w: multiply in phase %s", ErrOutOfOrder, c.phase)
	}

	product, err := bfv.Mul(c.aggA, c.aggB)
	if err != nil {
		return nil, fmt.Errorf("bfvgen: multiply sums: %w", err)
	}
	c.product = product
	c.phase = PhaseCShareGeneration

	msg := &Message{
		Type:      MessageAggregatedResult,
		From:      c.selfID,
		SessionID: c.cfg.SessionID,
		AggA:      c.aggA,
		AggB:      c.aggB,
		Product:   product,
	}
	// Party 0's own broadcast also satisfies its aggregation predicate.
	key := messageKey{from: c.selfID, round: RoundAggregation}
	c.received[key] = msg
	c.maybeAdvance()
	return msg, nil
}

// ContributeCShare samples this party's random cᵢ and subtracts Enc(cᵢ)
// from the running ciphertext. The first n−1 parties each do this once, in
// sequence; the last party is excluded because it learns its share from the
// final decryption.
func (c *Context) ContributeCShare(running *bfv.Ciphertext) (*bfv.Ciphertext, *Message, error) {
	if c.selfID == c.lastParty() {
		return nil, nil, fmt.Errorf("%w: last party receives its c-share from the decryption", ErrWrongParty)
	}
	if c.haveCShare {
		return nil, nil, fmt.Errorf("%w: c-share already contributed", ErrOutOfOrder)
	}
	switch {
	case c.selfID == 0:
		if c.phase != PhaseCShareGeneration {
			return nil, nil, fmt.Errorf("%w: c-share in phase %s", ErrOutOfOrder, c.phase)
		}
	default:
		if c.phase != PhaseWaitingForShares {
			return nil, nil, fmt.Errorf("%w: c-share in phase %s", ErrOutOfOrder, c.phase)
		}
		if !c.RoundComplete(RoundAggregation) {
			return nil, nil, fmt.Errorf("%w: aggregation result not received", ErrMissingMessages)
		}
	}
	if running == nil {
		return nil, nil, fmt.Errorf("%w: missing running ciphertext", ErrInvalidMessage)
	}

	cShare := sample.FieldElement(rand.Reader)
	encC, err := bfv.Encrypt(c.publicKey, cShare)
	if err != nil {
		return nil, nil, fmt.Errorf("bfvgen: encrypt c-share: %w", err)
	}
	updated, err := bfv.Sub(running, encC)
	if err != nil {
		return nil, nil, fmt.Errorf("bfvgen: subtract c-share: %w", err)
	}

	c.cShare = cShare
	c.haveCShare = true
	c.phase = PhaseCShareGeneration

	msg := &Message{
		Type:      MessageCShareContribution,
		From:      c.selfID,
		SessionID: c.cfg.SessionID,
		EncC:      encC,
		Updated:   updated,
	}
	key := messageKey{from: c.selfID, round: RoundCShare}
	c.received[key] = msg
	c.maybeAdvance()
	return updated, msg, nil
}

// FinalDecrypt decrypts the fully masked ciphertext, yielding the last
// party's c-share c_{n−1} = a⋅b − Σcᵢ. Only the last party may do this,
// and only once every other party's c-share is in.
func (c *Context) FinalDecrypt(running *bfv.Ciphertext) (field.Element, *Message, error) {
	if c.selfID != c.lastParty() {
		return 0, nil, fmt.Errorf("%w: decryption is reserved for party %d, not %d",
			ErrWrongParty, c.lastParty(), c.selfID)
	}
	if c.phase != PhaseWaitingForShares {
		return 0, nil, fmt.Errorf("%w: decrypt in phase %s", ErrOutOfOrder, c.phase)
	}
	if !c.RoundComplete(RoundCShare) {
		return 0, nil, fmt.Errorf("%w: c-share round incomplete", ErrMissingMessages)
	}
	if running == nil {
		return 0, nil, fmt.Errorf("%w: missing running ciphertext", ErrInvalidMessage)
	}

	value, err := bfv.Decrypt(running)
	if err != nil {
		return 0, nil, fmt.Errorf("bfvgen: final decrypt: %w", err)
	}

	c.finalC = value
	c.haveFinalC = true
	c.phase = PhaseFinalDecryption

	msg := &Message{
		Type:      MessagePartialDecryption,
		From:      c.selfID,
		SessionID: c.cfg.SessionID,
		DecShare:  &bfv.DecryptionShare{PartyID: c.selfID, Value: value},
	}
	key := messageKey{from: c.selfID, round: RoundReconstruction}
	c.received[key] = msg
	return value, msg, nil
}

// NextTriple rewinds the context to the waiting-for-shares phase so another
// triple can be generated under the same session keys.
func (c *Context) NextTriple() error {
	if c.phase != PhaseCompleted {
		return fmt.Errorf("%w: next triple in phase %s", ErrOutOfOrder, c.phase)
	}
	for key := range c.received {
		if key.round != RoundKeyGen {
			delete(c.received, key)
		}
	}
	c.round = RoundEncryptedShares
	c.phase = PhaseWaitingForShares
	c.haveInputs = false
	c.inputA, c.inputB = 0, 0
	c.encA, c.encB = nil, nil
	c.decommitment = nil
	c.aggA, c.aggB, c.product = nil, nil, nil
	c.cShare, c.haveCShare = 0, false
	c.finalC, c.haveFinalC = 0, false
	c.tripleID = 0
	return nil
}

// Reset discards the whole run, keys included.
func (c *Context) Reset() {
	c.phase = PhaseInitialized
	c.round = RoundKeyGen
	c.failReason = ""
	c.keygen = nil
	c.publicKey = nil
	c.secretShare = nil
	c.received = make(map[messageKey]*Message)
	c.haveInputs = false
	c.inputA, c.inputB = 0, 0
	c.encA, c.encB = nil, nil
	c.decommitment = nil
	c.aggA, c.aggB, c.product = nil, nil, nil
	c.cShare, c.haveCShare = 0, false
	c.finalC, c.haveFinalC = 0, false
	c.tripleID = 0
}
