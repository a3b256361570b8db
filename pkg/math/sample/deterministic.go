package sample

import (
	"io"

	"golang.org/x/crypto/chacha20"
)

// SeedSize is the seed length of a deterministic reader.
const SeedSize = chacha20.KeySize

// deterministicReader turns a ChaCha20 keystream into an io.Reader. The same
// seed always yields the same stream, which makes sharings reproducible.
type deterministicReader struct {
	cipher *chacha20.Cipher
}

// NewDeterministicReader returns a reader producing the ChaCha20 keystream
// keyed with seed. It is not safe for concurrent use.
func NewDeterministicReader(seed [SeedSize]byte) io.Reader {
	nonce := make([]byte, chacha20.NonceSize)
	cipher, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce)
	if err != nil {
		// Key and nonce sizes are fixed above.
		panic(err)
	}
	return &deterministicReader{cipher: cipher}
}

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}
