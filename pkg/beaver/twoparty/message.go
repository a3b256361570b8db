package twoparty

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/shardsec/mpc/pkg/math/field"
)

// ErrInvalidMessage is returned when a message fails structural validation.
var ErrInvalidMessage = errors.New("twoparty: invalid message")

// MessageKind tags the closed set of protocol messages.
type MessageKind uint8

const (
	MessageFirstOLERequest MessageKind = iota + 1
	MessageFirstOLEResponse
	MessageSecondOLERequest
	MessageSecondOLEResponse
	MessageFinalTripleShare
	MessageFault
)

func (k MessageKind) String() string {
	switch k {
	case MessageFirstOLERequest:
		return "first-ole-request"
	case MessageFirstOLEResponse:
		return "first-ole-response"
	case MessageSecondOLERequest:
		return "second-ole-request"
	case MessageSecondOLEResponse:
		return "second-ole-response"
	case MessageFinalTripleShare:
		return "final-triple-share"
	case MessageFault:
		return "fault"
	default:
		return fmt.Sprintf("MessageKind(%d)", uint8(k))
	}
}

// Message is one transcript entry of a two-party run. Value carries the
// request input or response result; the triple share fields are set only
// for MessageFinalTripleShare.
type Message struct {
	Kind   MessageKind   `cbor:"kind"`
	From   Role          `cbor:"from"`
	Value  field.Element `cbor:"value,omitempty"`
	AShare field.Element `cbor:"a_share,omitempty"`
	BShare field.Element `cbor:"b_share,omitempty"`
	CShare field.Element `cbor:"c_share,omitempty"`
	Fault  string        `cbor:"fault,omitempty"`
}

// Validate checks the structural invariants of the message.
func (m *Message) Validate() error {
	if m.From != RoleP1 && m.From != RolePN {
		return fmt.Errorf("%w: sender %d", ErrInvalidMessage, m.From)
	}
	switch m.Kind {
	case MessageFirstOLERequest, MessageFirstOLEResponse,
		MessageSecondOLERequest, MessageSecondOLEResponse:
		if !field.IsValid(m.Value) {
			return fmt.Errorf("%w: %s value out of range", ErrInvalidMessage, m.Kind)
		}
	case MessageFinalTripleShare:
		if !field.IsValid(m.AShare) || !field.IsValid(m.BShare) || !field.IsValid(m.CShare) {
			return fmt.Errorf("%w: triple share out of range", ErrInvalidMessage)
		}
	case MessageFault:
		if m.Fault == "" {
			return fmt.Errorf("%w: empty fault reason", ErrInvalidMessage)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidMessage, m.Kind)
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
