package action

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Severity classifies a user-facing notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier is the user-facing notification channel. Show is fire-and-forget;
// it is the only place invocation failures become visible to the user.
type Notifier interface {
	Show(severity Severity, err error)
}

// Instantiator is the instance-creation facility. It invokes the factory
// synchronously and may fail.
type Instantiator interface {
	CreateInstance(factory Factory) (Action, error)
}

// LifecycleGate is the workbench readiness barrier. Join completes once the
// one-time creation sequence has finished; after that it returns
// immediately for every caller.
type LifecycleGate interface {
	Join(ctx context.Context) error
}

// ExecutionRecord summarizes one finished invocation.
type ExecutionRecord struct {
	InvocationID string
	ActionID     string
	Source       Source
	// Ran is false when the instance reported itself disabled and was
	// disposed without running.
	Ran       bool
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// ExecutionObserver receives a record after each invocation completes,
// whatever its outcome. Used to feed the invocation history store.
type ExecutionObserver interface {
	ExecutionFinished(rec ExecutionRecord)
}

// Accessor bundles the services a command handler resolves at invocation
// time. Notifications, Instantiator, and Lifecycle are required; a missing
// one is a wiring defect surfaced as a resolution error. Tracer and
// Observer are optional.
type Accessor struct {
	Notifications Notifier
	Instantiator  Instantiator
	Lifecycle     LifecycleGate
	Tracer        trace.Tracer
	Observer      ExecutionObserver
}

func (a *Accessor) resolve() error {
	if a == nil {
		return fmt.Errorf("service accessor is nil")
	}
	if a.Notifications == nil {
		return fmt.Errorf("notification service unavailable")
	}
	if a.Instantiator == nil {
		return fmt.Errorf("instantiation service unavailable")
	}
	if a.Lifecycle == nil {
		return fmt.Errorf("lifecycle service unavailable")
	}
	return nil
}
