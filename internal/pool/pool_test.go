package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelizeCollectsInOrder(t *testing.T) {
	p := NewPool(4)
	defer p.TearDown()

	out := p.Parallelize(100, func(i int) interface{} { return i * i })
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
}

func TestNilPoolRunsSerially(t *testing.T) {
	var p *Pool
	out := p.Parallelize(10, func(i int) interface{} { return i })
	assert.Len(t, out, 10)
	assert.Equal(t, 7, out[7])
	p.TearDown()
}

// sequenceReader is not safe for concurrent use; the locked wrapper must
// serialize every access to it.
type sequenceReader struct {
	next byte
}

func (r *sequenceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

func TestLockedReaderSerializesWorkers(t *testing.T) {
	p := NewPool(4)
	defer p.TearDown()

	lr := NewLockedReader(&sequenceReader{})
	out := p.Parallelize(64, func(int) interface{} {
		buf := make([]byte, 8)
		n, err := lr.Read(buf)
		if err != nil {
			return err
		}
		return n
	})

	total := 0
	for _, v := range out {
		n, ok := v.(int)
		assert.True(t, ok)
		total += n
	}
	assert.Equal(t, 64*8, total)
}
