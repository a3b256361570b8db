package pool

import (
	"io"
	"sync"
)

// LockedReader wraps a reader with a mutex so that pool workers can share a
// single randomness source.
type LockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{r: r}
}

func (lr *LockedReader) Read(p []byte) (int, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return lr.r.Read(p)
}
