package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/shardsec/mpc/internal/params"
)

type (
	Commitment   []byte
	Decommitment []byte
)

// WriteTo implements io.WriterTo.
func (c Commitment) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c)
	return int64(n), err
}

// Domain implements WriterToWithDomain.
func (Commitment) Domain() string {
	return "Commitment"
}

func (c Commitment) Validate() error {
	if l := len(c); l != DigestLengthBytes {
		return fmt.Errorf("commitment: incorrect length (got %d, expected %d)", l, DigestLengthBytes)
	}
	return nil
}

// WriteTo implements io.WriterTo.
func (d Decommitment) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d)
	return int64(n), err
}

// Domain implements WriterToWithDomain.
func (Decommitment) Domain() string {
	return "Decommitment"
}

func (d Decommitment) Validate() error {
	if l := len(d); l != params.SecBytes {
		return fmt.Errorf("decommitment: incorrect length (got %d, expected %d)", l, params.SecBytes)
	}
	return nil
}

// Commit binds the caller to data without revealing it: it samples a fresh
// nonce, absorbs nonce then data into a clone of the hash state, and returns
// the digest as the commitment. The nonce is the decommitment string; data
// accepts the same value types as WriteAny.
func (hash *Hash) Commit(data ...interface{}) (Commitment, Decommitment, error) {
	nonce := Decommitment(make([]byte, params.SecBytes))
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("hash: commit: sample nonce: %w", err)
	}

	h := hash.Clone()
	// Nonce first, so the transcript prefix is already hiding before any
	// committed value enters the state.
	_ = h.WriteAny(nonce)
	for _, item := range data {
		if err := h.WriteAny(item); err != nil {
			return nil, nil, fmt.Errorf("hash: commit: %w", err)
		}
	}

	return h.Sum(), nonce, nil
}

// Decommit reports whether the commitment opens to data under the given
// decommitment string. The comparison is constant time.
func (hash *Hash) Decommit(c Commitment, d Decommitment, data ...interface{}) bool {
	if c.Validate() != nil || d.Validate() != nil {
		return false
	}

	h := hash.Clone()
	_ = h.WriteAny(d)
	for _, item := range data {
		if err := h.WriteAny(item); err != nil {
			return false
		}
	}

	return subtle.ConstantTimeCompare(h.Sum(), c) == 1
}
