// Package hook implements the broker's single extension point: an ordered
// chain of callbacks that observes every decoded packet on every Link.
package hook

import (
	"sync"
	"sync/atomic"

	"github.com/brinkmq/brink/encoding"
)

// Func is one callback in the chain. A nil Packet and nil error means "not
// interested, continue to the next hook" — the same role the original
// Packet::None variant played. Returning a non-nil Packet, or a non-nil
// error, stops the chain: the Link logs the result but does not fold it back
// into its own reply (see Registry.Trigger).
type Func func(pkt encoding.Packet) (encoding.Packet, error)

// Registry holds the ordered chain shared by every Link a broker serves.
// Registration is rare and serialized; Trigger is the hot path, fired once
// per inbound packet across every concurrently-served connection, and never
// blocks on a lock — it loads a fully-built, immutable snapshot of the chain.
type Registry struct {
	mu    sync.Mutex // serializes Register against itself; Trigger never takes it
	hooks atomic.Pointer[[]Func]
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := make([]Func, 0)
	r.hooks.Store(&empty)
	return r
}

// Register appends fn to the end of the chain. Copy-on-write: a Trigger
// running concurrently with Register always sees either the chain before or
// the chain after, never a partially-built slice.
func (r *Registry) Register(fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := *r.hooks.Load()
	next := make([]Func, len(old)+1)
	copy(next, old)
	next[len(old)] = fn
	r.hooks.Store(&next)
}

// Trigger runs pkt through every registered hook in registration order. The
// first hook to return a non-nil Packet or a non-nil error stops the chain
// and its result is returned immediately; if every hook passes, Trigger
// returns (nil, nil).
func (r *Registry) Trigger(pkt encoding.Packet) (encoding.Packet, error) {
	hooks := *r.hooks.Load()
	for _, fn := range hooks {
		result, err := fn(pkt)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}
	return nil, nil
}
