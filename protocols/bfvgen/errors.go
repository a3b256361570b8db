package bfvgen

import "errors"

var (
	// ErrWrongParty is returned when a step reserved for a specific party
	// is invoked by another.
	ErrWrongParty = errors.New("bfvgen: step invoked by the wrong party")
	// ErrOutOfOrder is returned when a step is invoked outside its place in
	// the protocol sequence.
	ErrOutOfOrder = errors.New("bfvgen: protocol step out of order")
	// ErrMissingMessages is returned when a step needs round messages that
	// have not arrived yet.
	ErrMissingMessages = errors.New("bfvgen: required round messages are missing")
	// ErrInvalidMessage is returned when a message fails structural
	// validation or session binding.
	ErrInvalidMessage = errors.New("bfvgen: invalid protocol message")
	// ErrInvalidContribution is returned when a key-generation contribution
	// is malformed or fails its commitment or proof check.
	ErrInvalidContribution = errors.New("bfvgen: invalid key-generation contribution")
	// ErrProtocolFailed is returned when operating on a context that has
	// aborted.
	ErrProtocolFailed = errors.New("bfvgen: protocol run has failed")
)
