package bfvgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shardsec/mpc/pkg/he/bfv"
	"github.com/shardsec/mpc/pkg/sharing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, NewConfig(3, 2).Validate())

	cfg := NewConfig(3, 0)
	assert.ErrorIs(t, cfg.Validate(), sharing.ErrInvalidThreshold)

	cfg = NewConfig(1, 1)
	assert.ErrorIs(t, cfg.Validate(), sharing.ErrInvalidThreshold)

	cfg = NewConfig(3, 2)
	cfg.Params = bfv.Params{Slots: 2}
	assert.ErrorIs(t, cfg.Validate(), bfv.ErrInvalidParams)

	cfg = NewConfig(3, 2)
	cfg.SessionID = uuid.Nil
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMessage)
}

func TestNewContextRejectsBadParty(t *testing.T) {
	cfg := NewConfig(3, 2)
	_, err := NewContext(cfg, -1)
	assert.ErrorIs(t, err, ErrWrongParty)
	_, err = NewContext(cfg, 3)
	assert.ErrorIs(t, err, ErrWrongParty)
}

// twoPartyContexts runs key generation between two fresh contexts and
// returns them ready for input sampling.
func twoPartyContexts(t *testing.T) (*Context, *Context) {
	t.Helper()
	cfg := NewConfig(2, 2)
	c0, err := NewContext(cfg, 0)
	require.NoError(t, err)
	c1, err := NewContext(cfg, 1)
	require.NoError(t, err)

	m0, err := c0.StartKeyGen()
	require.NoError(t, err)
	m1, err := c1.StartKeyGen()
	require.NoError(t, err)
	require.NoError(t, c0.AddMessage(m1))
	require.NoError(t, c1.AddMessage(m0))
	require.NoError(t, c0.FinishKeyGen())
	require.NoError(t, c1.FinishKeyGen())
	return c0, c1
}

func TestContextKeyGenFlow(t *testing.T) {
	c0, c1 := twoPartyContexts(t)

	assert.Equal(t, PhaseWaitingForShares, c0.Phase())
	assert.Equal(t, PhaseWaitingForShares, c1.Phase())
	// the completed keygen round advances the round counter
	assert.Equal(t, RoundEncryptedShares, c0.Round())
	assert.Equal(t, RoundEncryptedShares, c1.Round())

	require.NotNil(t, c0.PublicKey())
	assert.Equal(t, c0.PublicKey().Mask, c1.PublicKey().Mask)
	assert.NotEqual(t, c0.SecretShare().Value, c1.SecretShare().Value)
}

func TestContextStepOrdering(t *testing.T) {
	cfg := NewConfig(2, 2)
	c0, err := NewContext(cfg, 0)
	require.NoError(t, err)

	_, _, err = c0.SampleInputs()
	assert.ErrorIs(t, err, ErrOutOfOrder)
	_, err = c0.EncryptInputs()
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.ErrorIs(t, c0.AggregateSums(), ErrOutOfOrder)

	_, err = c0.StartKeyGen()
	require.NoError(t, err)
	_, err = c0.StartKeyGen()
	assert.ErrorIs(t, err, ErrOutOfOrder)

	assert.ErrorIs(t, c0.FinishKeyGen(), ErrMissingMessages)
}

func TestContextReservedSteps(t *testing.T) {
	cfg := NewConfig(3, 2)
	c1, err := NewContext(cfg, 1)
	require.NoError(t, err)
	c2, err := NewContext(cfg, 2)
	require.NoError(t, err)

	// homomorphic summation and multiplication belong to party 0
	assert.ErrorIs(t, c1.AggregateSums(), ErrWrongParty)
	_, err = c1.MultiplySums()
	assert.ErrorIs(t, err, ErrWrongParty)

	// the final decryption belongs to the last party
	_, _, err = c1.FinalDecrypt(&bfv.Ciphertext{})
	assert.ErrorIs(t, err, ErrWrongParty)

	// the last party never contributes a c-share
	_, _, err = c2.ContributeCShare(&bfv.Ciphertext{})
	assert.ErrorIs(t, err, ErrWrongParty)
}

func TestFinalDecryptNeedsAllCShares(t *testing.T) {
	cfg := NewConfig(3, 2)
	contexts := make([]*Context, 3)
	msgs := make([]*Message, 3)
	for i := range contexts {
		ctx, err := NewContext(cfg, i)
		require.NoError(t, err)
		contexts[i] = ctx
		msgs[i], err = ctx.StartKeyGen()
		require.NoError(t, err)
	}
	for i, ctx := range contexts {
		for j, m := range msgs {
			if i == j {
				continue
			}
			require.NoError(t, ctx.AddMessage(m))
		}
		require.NoError(t, ctx.FinishKeyGen())
	}

	last := contexts[2]
	enc, err := bfv.Encrypt(last.PublicKey(), 42)
	require.NoError(t, err)
	_, _, err = last.FinalDecrypt(enc)
	assert.ErrorIs(t, err, ErrMissingMessages)
}

func TestAddMessageValidation(t *testing.T) {
	c0, c1 := twoPartyContexts(t)

	assert.ErrorIs(t, c0.AddMessage(nil), ErrInvalidMessage)

	_, _, err := c1.SampleInputs()
	require.NoError(t, err)
	msg, err := c1.EncryptInputs()
	require.NoError(t, err)

	// session binding
	foreign := *msg
	foreign.SessionID = uuid.New()
	assert.ErrorIs(t, c0.AddMessage(&foreign), ErrInvalidMessage)

	// sender range
	stray := *msg
	stray.From = 5
	stray.Contribution = nil
	assert.ErrorIs(t, c0.AddMessage(&stray), ErrInvalidMessage)

	// first delivery is accepted, the replay is not
	require.NoError(t, c0.AddMessage(msg))
	assert.ErrorIs(t, c0.AddMessage(msg), ErrInvalidMessage)
}

func TestAbortFailsTheRun(t *testing.T) {
	c0, c1 := twoPartyContexts(t)

	abort := c1.Abort("commitment mismatch")
	require.NoError(t, c0.AddMessage(abort))

	assert.Equal(t, PhaseFailed, c0.Phase())
	assert.Contains(t, c0.FailReason(), "aborted by party 1")
	assert.Equal(t, PhaseFailed, c1.Phase())

	_, err := c0.StartKeyGen()
	assert.ErrorIs(t, err, ErrProtocolFailed)

	c0.Reset()
	_, err = c0.StartKeyGen()
	assert.NoError(t, err)
}

func TestAdvanceRoundStopsAtReconstruction(t *testing.T) {
	cfg := NewConfig(2, 2)
	ctx, err := NewContext(cfg, 0)
	require.NoError(t, err)

	for ctx.Round() < RoundReconstruction {
		require.NoError(t, ctx.AdvanceRound())
	}
	assert.ErrorIs(t, ctx.AdvanceRound(), ErrOutOfOrder)
}

func TestNextTripleRequiresCompletion(t *testing.T) {
	c0, _ := twoPartyContexts(t)
	assert.ErrorIs(t, c0.NextTriple(), ErrOutOfOrder)
}

func TestMessageValidate(t *testing.T) {
	sid := uuid.New()

	tests := []struct {
		name string
		msg  Message
	}{
		{"unknown type", Message{Type: 99, From: 0, SessionID: sid}},
		{"negative sender", Message{Type: MessageProtocolAbort, From: -1, SessionID: sid, Reason: "x"}},
		{"keygen without contribution", Message{Type: MessageKeyGenContribution, From: 0, SessionID: sid}},
		{"encrypted shares without payload", Message{Type: MessageEncryptedShares, From: 0, SessionID: sid}},
		{"aggregation without product", Message{Type: MessageAggregatedResult, From: 0, SessionID: sid}},
		{"c-share without payload", Message{Type: MessageCShareContribution, From: 0, SessionID: sid}},
		{"decryption without share", Message{Type: MessagePartialDecryption, From: 1, SessionID: sid}},
		{"complete without triple id", Message{Type: MessageProtocolComplete, From: 1, SessionID: sid}},
		{"abort without reason", Message{Type: MessageProtocolAbort, From: 1, SessionID: sid}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.msg.Validate(), ErrInvalidMessage)
		})
	}
}

func TestMessageRoundTrip(t *testing.T) {
	_, c1 := twoPartyContexts(t)
	_, _, err := c1.SampleInputs()
	require.NoError(t, err)
	msg, err := c1.EncryptInputs()
	require.NoError(t, err)

	data, err := msg.MarshalBinary()
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, msg.Type, decoded.Type)
	assert.Equal(t, msg.From, decoded.From)
	assert.Equal(t, msg.SessionID, decoded.SessionID)
	assert.Equal(t, msg.EncA, decoded.EncA)
	assert.Equal(t, msg.EncB, decoded.EncB)
	assert.Equal(t, msg.Commitment, decoded.Commitment)

	var garbage Message
	assert.ErrorIs(t, garbage.UnmarshalBinary([]byte{0xff, 0x00}), ErrInvalidMessage)
}

func TestMessageTypeRounds(t *testing.T) {
	for _, typ := range []MessageType{
		MessageKeyGenContribution, MessagePublicKeyBroadcast, MessageEncryptedShares,
		MessageAggregatedResult, MessageCShareContribution, MessagePartialDecryption,
	} {
		_, ok := typ.Round()
		assert.True(t, ok, typ.String())
	}
	for _, typ := range []MessageType{MessageProtocolComplete, MessageProtocolAbort} {
		_, ok := typ.Round()
		assert.False(t, ok, typ.String())
	}
}
