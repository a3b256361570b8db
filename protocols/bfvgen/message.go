package bfvgen

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/shardsec/mpc/internal/hash"
	"github.com/shardsec/mpc/pkg/he/bfv"
)

// MessageType tags the closed set of protocol messages.
type MessageType uint8

const (
	MessageKeyGenContribution MessageType = iota + 1
	MessagePublicKeyBroadcast
	MessageEncryptedShares
	MessageAggregatedResult
	MessageCShareContribution
	MessagePartialDecryption
	MessageProtocolComplete
	MessageProtocolAbort
)

func (t MessageType) String() string {
	switch t {
	case MessageKeyGenContribution:
		return "keygen-contribution"
	case MessagePublicKeyBroadcast:
		return "public-key-broadcast"
	case MessageEncryptedShares:
		return "encrypted-shares"
	case MessageAggregatedResult:
		return "aggregated-result"
	case MessageCShareContribution:
		return "c-share-contribution"
	case MessagePartialDecryption:
		return "partial-decryption"
	case MessageProtocolComplete:
		return "protocol-complete"
	case MessageProtocolAbort:
		return "protocol-abort"
	default:
		return fmt.Sprintf("MessageType(%d)", uint8(t))
	}
}

// Round returns the message round this type is buffered under. Completion
// and abort messages affect the whole run and carry no round.
func (t MessageType) Round() (Round, bool) {
	switch t {
	case MessageKeyGenContribution, MessagePublicKeyBroadcast:
		return RoundKeyGen, true
	case MessageEncryptedShares:
		return RoundEncryptedShares, true
	case MessageAggregatedResult:
		return RoundAggregation, true
	case MessageCShareContribution:
		return RoundCShare, true
	case MessagePartialDecryption:
		return RoundReconstruction, true
	default:
		return 0, false
	}
}

// Message is one protocol broadcast. Only the payload fields matching Type
// are set; Validate enforces this shape.
type Message struct {
	Type      MessageType `cbor:"type"`
	From      int         `cbor:"from"`
	SessionID uuid.UUID   `cbor:"session_id"`

	// MessageKeyGenContribution
	Contribution *Contribution `cbor:"contribution,omitempty"`

	// MessagePublicKeyBroadcast
	PublicKey *bfv.PublicKey `cbor:"public_key,omitempty"`

	// MessageEncryptedShares
	EncA       *bfv.Ciphertext `cbor:"enc_a,omitempty"`
	EncB       *bfv.Ciphertext `cbor:"enc_b,omitempty"`
	Commitment hash.Commitment `cbor:"commitment,omitempty"`

	// MessageAggregatedResult
	AggA    *bfv.Ciphertext `cbor:"agg_a,omitempty"`
	AggB    *bfv.Ciphertext `cbor:"agg_b,omitempty"`
	Product *bfv.Ciphertext `cbor:"product,omitempty"`

	// MessageCShareContribution
	EncC    *bfv.Ciphertext `cbor:"enc_c,omitempty"`
	Updated *bfv.Ciphertext `cbor:"updated,omitempty"`

	// MessagePartialDecryption
	DecShare *bfv.DecryptionShare `cbor:"dec_share,omitempty"`

	// MessageProtocolComplete
	TripleID uint64 `cbor:"triple_id,omitempty"`
	Success  bool   `cbor:"success,omitempty"`

	// MessageProtocolAbort
	Reason string `cbor:"reason,omitempty"`
}

// Validate checks the structural invariants of the message: sender range,
// non-empty payload for its type, and consistent ciphertext dimensions.
func (m *Message) Validate() error {
	if m.From < 0 {
		return fmt.Errorf("%w: negative sender %d", ErrInvalidMessage, m.From)
	}

	switch m.Type {
	case MessageKeyGenContribution:
		if m.Contribution == nil {
			return fmt.Errorf("%w: missing contribution", ErrInvalidMessage)
		}
		if m.Contribution.PartyID != m.From {
			return fmt.Errorf("%w: contribution from party %d sent by %d",
				ErrInvalidMessage, m.Contribution.PartyID, m.From)
		}
	case MessagePublicKeyBroadcast:
		if m.PublicKey == nil || len(m.PublicKey.Mask) == 0 {
			return fmt.Errorf("%w: missing public key", ErrInvalidMessage)
		}
	case MessageEncryptedShares:
		if m.EncA == nil || m.EncB == nil {
			return fmt.Errorf("%w: missing encrypted shares", ErrInvalidMessage)
		}
		if len(m.EncA.Evals) != len(m.EncB.Evals) {
			return fmt.Errorf("%w: %v", ErrInvalidMessage, bfv.ErrDimensionMismatch)
		}
		if err := m.Commitment.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		}
	case MessageAggregatedResult:
		if m.AggA == nil || m.AggB == nil || m.Product == nil {
			return fmt.Errorf("%w: missing aggregation payload", ErrInvalidMessage)
		}
		if len(m.AggA.Evals) != len(m.AggB.Evals) || len(m.AggA.Evals) != len(m.Product.Evals) {
			return fmt.Errorf("%w: %v", ErrInvalidMessage, bfv.ErrDimensionMismatch)
		}
	case MessageCShareContribution:
		if m.EncC == nil || m.Updated == nil {
			return fmt.Errorf("%w: missing c-share payload", ErrInvalidMessage)
		}
		if len(m.EncC.Evals) != len(m.Updated.Evals) {
			return fmt.Errorf("%w: %v", ErrInvalidMessage, bfv.ErrDimensionMismatch)
		}
	case MessagePartialDecryption:
		if m.DecShare == nil {
			return fmt.Errorf("%w: missing decryption share", ErrInvalidMessage)
		}
	case MessageProtocolComplete:
		if m.TripleID == 0 {
			return fmt.Errorf("%w: missing triple id", ErrInvalidMessage)
		}
	case MessageProtocolAbort:
		if m.Reason == "" {
			return fmt.Errorf("%w: empty abort reason", ErrInvalidMessage)
		}
	default:
		return fmt.Errorf("%w: unknown type %d", ErrInvalidMessage, m.Type)
	}
	return nil
}

// messageAlias strips Message's BinaryMarshaler/BinaryUnmarshaler methods so
// cbor encodes the struct fields instead of recursing into them.
type messageAlias Message

// MarshalBinary encodes the message with CBOR.
func (m *Message) MarshalBinary() ([]byte, error) {
	return cbor.Marshal((*messageAlias)(m))
}

// UnmarshalBinary decodes and validates a CBOR message.
func (m *Message) UnmarshalBinary(data []byte) error {
	if err := cbor.Unmarshal(data, (*messageAlias)(m)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return m.Validate()
}
