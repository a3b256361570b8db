package beaver

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/shardsec/mpc/internal/pool"
	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/sample"
	"github.com/shardsec/mpc/pkg/sharing"
)

// TrustedConfig tunes the trusted dealer backend.
type TrustedConfig struct {
	// Precompute fills a buffer of triples ahead of demand. The buffer is
	// refilled whenever it drops below half of PoolSize.
	Precompute bool
	// PoolSize is the capacity of the precomputed buffer.
	PoolSize int
	// SecurityChecks verifies c = a⋅b on every dealt triple.
	SecurityChecks bool
	// Workers sizes the worker pool used to fill the buffer. Zero means
	// GOMAXPROCS.
	Workers int
}

// DefaultTrustedConfig precomputes a buffer of 100 triples with checks on.
func DefaultTrustedConfig() TrustedConfig {
	return TrustedConfig{
		Precompute:     true,
		PoolSize:       100,
		SecurityChecks: true,
	}
}

// TrustedParty is the dealer-based backend: a single honest dealer samples
// (a, b, c) in the clear and Shamir-shares them. It is the fastest backend
// and the baseline the distributed ones are checked against, at the cost of
// trusting the dealer with every triple.
type TrustedParty struct {
	partyCount int
	threshold  int
	cfg        TrustedConfig
	ids        *IDSequence
	workers    *pool.Pool
	randomness io.Reader

	mu     sync.Mutex
	buffer []*Complete
}

// NewTrustedParty creates the dealer backend and, if configured, fills its
// triple buffer. Callers owning a configured worker pool must release it
// with Close.
func NewTrustedParty(partyCount, threshold int, cfg *TrustedConfig) (*TrustedParty, error) {
	if threshold < 1 || partyCount < 1 || threshold > partyCount {
		return nil, sharing.ErrInvalidThreshold
	}

	config := DefaultTrustedConfig()
	if cfg != nil {
		config = *cfg
	}
	if config.Precompute && config.PoolSize < 1 {
		return nil, fmt.Errorf("beaver: trusted dealer: pool size %d", config.PoolSize)
	}

	tp := &TrustedParty{
		partyCount: partyCount,
		threshold:  threshold,
		cfg:        config,
		ids:        NewIDSequence(),
		// One source shared by all workers; the lock keeps concurrent
		// deals from interleaving reads.
		randomness: pool.NewLockedReader(rand.Reader),
	}
	if config.Precompute {
		tp.workers = pool.NewPool(config.Workers)
		if err := tp.fillBuffer(config.PoolSize); err != nil {
			tp.Close()
			return nil, err
		}
	}
	return tp, nil
}

// Close releases the worker pool. The generator stays usable; further
// buffer refills run on the calling goroutine.
func (tp *TrustedParty) Close() {
	tp.workers.TearDown()
	tp.workers = nil
}

// deal samples a fresh triple and shares it.
func (tp *TrustedParty) deal() (*Complete, error) {
	a := sample.FieldElementNonZero(tp.randomness)
	b := sample.FieldElementNonZero(tp.randomness)
	c := field.Mul(a, b)

	if tp.cfg.SecurityChecks && !rawTripleValid(a, b, c) {
		return nil, ErrProductCheck
	}
	return Deal(a, b, c, tp.threshold, tp.partyCount, tp.ids.Next())
}

func rawTripleValid(a, b, c field.Element) bool {
	return a != 0 && b != 0 &&
		field.IsValid(a) && field.IsValid(b) && field.IsValid(c) &&
		c == field.Mul(a, b)
}

type dealResult struct {
	triple *Complete
	err    error
}

// fillBuffer generates count triples in parallel and appends them.
func (tp *TrustedParty) fillBuffer(count int) error {
	results := tp.workers.Parallelize(count, func(int) interface{} {
		t, err := tp.deal()
		return dealResult{triple: t, err: err}
	})

	fresh := make([]*Complete, 0, count)
	for _, r := range results {
		res := r.(dealResult)
		if res.err != nil {
			return res.err
		}
		fresh = append(fresh, res.triple)
	}

	tp.mu.Lock()
	tp.buffer = append(tp.buffer, fresh...)
	tp.mu.Unlock()
	return nil
}

func (tp *TrustedParty) pop() *Complete {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if len(tp.buffer) == 0 {
		return nil
	}
	t := tp.buffer[len(tp.buffer)-1]
	tp.buffer = tp.buffer[:len(tp.buffer)-1]
	return t
}

// BufferLen returns the number of precomputed triples currently buffered.
func (tp *TrustedParty) BufferLen() int {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return len(tp.buffer)
}

func (tp *TrustedParty) replenishIfLow() error {
	if !tp.cfg.Precompute {
		return nil
	}
	if n := tp.BufferLen(); n < tp.cfg.PoolSize/2 {
		return tp.fillBuffer(tp.cfg.PoolSize - n)
	}
	return nil
}

// GenerateSingle serves a triple from the buffer when available, dealing a
// fresh one otherwise.
func (tp *TrustedParty) GenerateSingle() (*Complete, error) {
	if t := tp.pop(); t != nil {
		if err := tp.replenishIfLow(); err != nil {
			return nil, err
		}
		return t, nil
	}
	return tp.deal()
}

// GenerateBatch drains the buffer first, then deals the remainder in
// parallel.
func (tp *TrustedParty) GenerateBatch(count int) ([]*Complete, error) {
	if count < 1 {
		return nil, ErrInvalidBatchSize
	}

	out := make([]*Complete, 0, count)
	for len(out) < count {
		t := tp.pop()
		if t == nil {
			break
		}
		out = append(out, t)
	}

	if missing := count - len(out); missing > 0 {
		results := tp.workers.Parallelize(missing, func(int) interface{} {
			t, err := tp.deal()
			return dealResult{triple: t, err: err}
		})
		for _, r := range results {
			res := r.(dealResult)
			if res.err != nil {
				return nil, res.err
			}
			out = append(out, res.triple)
		}
	}

	if err := tp.replenishIfLow(); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyTriple checks the triple under this dealer's threshold.
func (tp *TrustedParty) VerifyTriple(t *Complete) bool {
	return t != nil && t.Verify(tp.threshold)
}

func (tp *TrustedParty) PartyCount() int { return tp.partyCount }
func (tp *TrustedParty) Threshold() int  { return tp.threshold }
