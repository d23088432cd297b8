package action

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/scr8/sqlopsstudio/internal/log"
)

// Handler is a command implementation. It resolves services from the
// accessor and runs one invocation. Run failures are routed to the
// notification channel by the handler itself; the returned error reports
// only wiring defects (missing services, unknown commands).
type Handler func(ctx context.Context, acc *Accessor, inv Invocation) error

// CommandRegistry is the command table: a process-wide map from command
// identifier to handler. It is populated at contribution time and read by
// dispatch; registrations are injected rather than ambient so tests can
// substitute fakes.
type CommandRegistry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewCommandRegistry creates an empty command registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{handlers: make(map[string]Handler)}
}

// RegisterCommand installs a handler under the given identifier. A second
// registration with the same identifier fails; the caller decides whether
// that aborts startup.
func (r *CommandRegistry) RegisterCommand(id string, h Handler) (Disposable, error) {
	if id == "" {
		return nil, fmt.Errorf("command id cannot be empty")
	}
	if h == nil {
		return nil, fmt.Errorf("command %q requires a handler", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[id]; exists {
		return nil, fmt.Errorf("command %q is already registered", id)
	}
	r.handlers[id] = h

	log.Debug(log.CatAction, "command registered", "id", id)

	return DisposableFunc(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.handlers, id)
	}), nil
}

// Execute dispatches an invocation to the handler registered under id.
// It returns an error for unknown commands or wiring defects; run failures
// surface through the notification channel instead.
func (r *CommandRegistry) Execute(ctx context.Context, acc *Accessor, id string, inv Invocation) error {
	r.mu.RLock()
	h, ok := r.handlers[id]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("command %q not found", id)
	}
	return h(ctx, acc, inv)
}

// Has reports whether a command is registered.
func (r *CommandRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[id]
	return ok
}

// IDs returns all registered command identifiers in sorted order.
func (r *CommandRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
