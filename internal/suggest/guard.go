package suggest

import (
	"context"
	"sync"
)

// LookupFunc fetches suggestions for a partial query. Implementations
// should honor ctx cancellation but are not required to abort promptly;
// the Guard drops late results regardless.
type LookupFunc func(ctx context.Context, query string) ([]string, error)

// Guard wraps outbound lookups with last-request-wins semantics. Issuing
// a new request cancels the previous one's context and, independently of
// transport behavior, guarantees the previous result is never delivered.
//
// Staleness is decided by comparing a monotonically increasing token at
// delivery time, not by timestamps: completion order is not guaranteed
// to match issue order.
type Guard struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Do issues a lookup for query and invokes deliver with the result once,
// unless a newer Do or a Cancel supersedes this request first. deliver
// runs on the lookup goroutine. The returned token identifies the request.
func (g *Guard) Do(parent context.Context, query string, lookup LookupFunc, deliver func(items []string, err error)) uint64 {
	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	g.cancel = cancel
	g.seq++
	token := g.seq
	g.mu.Unlock()

	go func() {
		items, err := lookup(ctx, query)

		g.mu.Lock()
		live := token == g.seq
		g.mu.Unlock()
		if !live || ctx.Err() != nil {
			// Superseded. Cancellation errors are swallowed here,
			// never surfaced to the session.
			return
		}
		deliver(items, err)
	}()

	return token
}

// Cancel invalidates any in-flight request. Its result, if it arrives,
// is discarded.
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
