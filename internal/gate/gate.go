// Package gate provides the workbench readiness barrier.
//
// The workbench performs a one-time creation sequence at startup. Action
// invocations that arrive before that sequence finishes must wait for it;
// invocations after startup pass through immediately. The barrier resolves
// exactly once and never un-resolves.
package gate

import (
	"context"
	"sync"
)

// Gate is a one-shot barrier with multi-waiter semantics. All current and
// future Join calls succeed once Resolve has been called.
type Gate struct {
	once sync.Once
	done chan struct{}
}

// New creates an unresolved gate.
func New() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Resolve marks the gate as passed, releasing every current and future
// waiter. Calling Resolve more than once is a no-op.
func (g *Gate) Resolve() {
	g.once.Do(func() {
		close(g.done)
	})
}

// Join blocks until the gate resolves or the context is cancelled.
// After the first resolution it returns immediately.
func (g *Gate) Join(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	default:
	}

	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Resolved reports whether the gate has been resolved.
func (g *Gate) Resolved() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}
