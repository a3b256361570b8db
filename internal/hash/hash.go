// Package hash wraps blake3 with the domain separation used for protocol
// commitments and transcript binding.
package hash

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/shardsec/mpc/internal/params"
	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the length of a commitment digest.
const DigestLengthBytes = params.SecBytes * 2 // 64

// Hash is the hash state used to produce commitments and transcript digests.
// It is a thin wrapper around an extendable-output blake3 hasher.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash bound to this module's protocol tag.
func New() *Hash {
	hash := &Hash{h: blake3.New()}
	_ = hash.WriteAny(BytesWithDomain{TheDomain: "Protocol", Bytes: []byte("shardsec/mpc/v1")})
	return hash
}

// Digest returns a reader over the output stream of the current state.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns DigestLengthBytes output bytes of the current state.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny feeds data of the supported types into the hash state, applying a
// type-specific domain to each item:
//
//   - []byte
//   - field.Element and []field.Element
//   - int (protocol indices, round counters)
//   - WriterToWithDomain, which carries its own domain
func (hash *Hash) WriteAny(data ...interface{}) error {
	var err error
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "[]byte",
				Bytes:     t,
			})
		case field.Element:
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], uint64(t))
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "field.Element",
				Bytes:     buf[:],
			})
		case []field.Element:
			buf := make([]byte, 8*len(t))
			for i, e := range t {
				binary.BigEndian.PutUint64(buf[8*i:], uint64(e))
			}
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "[]field.Element",
				Bytes:     buf,
			})
		case int:
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], uint64(t))
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "int",
				Bytes:     buf[:],
			})
		case WriterToWithDomain:
			err = writeWithDomain(hash.h, t)
		default:
			panic(fmt.Sprintf("hash.WriteAny: unsupported type %T", d))
		}
		if err != nil {
			return fmt.Errorf("hash.WriteAny: %w", err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
