package bfvgen

import "fmt"

// Round identifies the five message rounds of the protocol.
type Round uint8

const (
	RoundKeyGen Round = iota + 1
	RoundEncryptedShares
	RoundAggregation
	RoundCShare
	RoundReconstruction
)

func (r Round) String() string {
	switch r {
	case RoundKeyGen:
		return "key-generation"
	case RoundEncryptedShares:
		return "encrypted-shares"
	case RoundAggregation:
		return "aggregation"
	case RoundCShare:
		return "c-share"
	case RoundReconstruction:
		return "reconstruction"
	default:
		return fmt.Sprintf("Round(%d)", uint8(r))
	}
}

// Next returns the following round, or ErrOutOfOrder past the last one.
func (r Round) Next() (Round, error) {
	if r >= RoundReconstruction {
		return r, fmt.Errorf("%w: no round after %s", ErrOutOfOrder, r)
	}
	return r + 1, nil
}

// Phase is the lifecycle position of one party's protocol context.
type Phase uint8

const (
	PhaseInitialized Phase = iota + 1
	PhaseKeyGeneration
	PhaseWaitingForShares
	PhaseHomomorphicComputation
	PhaseCShareGeneration
	PhaseFinalDecryption
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialized:
		return "initialized"
	case PhaseKeyGeneration:
		return "key-generation"
	case PhaseWaitingForShares:
		return "waiting-for-shares"
	case PhaseHomomorphicComputation:
		return "homomorphic-computation"
	case PhaseCShareGeneration:
		return "c-share-generation"
	case PhaseFinalDecryption:
		return "final-decryption"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}
