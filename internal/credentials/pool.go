// Package credentials manages the ordered pool of inference API keys.
//
// The pool owns its own rotation cursor instead of relying on process-global
// state, so concurrent pipelines can hold independent pools without
// interfering with each other's failover order.
package credentials

import (
	"errors"
	"sync"
)

// ErrNoCredentials is returned when a pool is constructed without any keys.
var ErrNoCredentials = errors.New("credentials: at least one API key is required")

// Pool is an ordered set of API keys with a round-robin failure cursor.
type Pool struct {
	mu     sync.Mutex
	keys   []string
	cursor int
}

// NewPool builds a pool from the given keys, preserving their order.
func NewPool(keys []string) (*Pool, error) {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoCredentials
	}
	return &Pool{keys: cleaned}, nil
}

// Current returns the key the cursor points at.
func (p *Pool) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys[p.cursor]
}

// MarkFailed advances the cursor past the current key, wrapping around.
func (p *Pool) MarkFailed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursor = (p.cursor + 1) % len(p.keys)
}

// Len returns the number of keys in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}
