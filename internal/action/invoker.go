package action

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/scr8/sqlopsstudio/internal/log"
)

// NewHandler produces the command handler for a descriptor. Each invocation
// creates a fresh action instance, checks enablement, waits for the
// workbench readiness gate, runs the instance, and disposes it. Failures
// anywhere in that sequence surface exactly once, through the notification
// channel at error severity; the handler returns an error only for wiring
// defects (missing services).
func NewHandler(desc Descriptor) Handler {
	return func(ctx context.Context, acc *Accessor, inv Invocation) error {
		if err := acc.resolve(); err != nil {
			return fmt.Errorf("invoking %q: %w", desc.ID, err)
		}

		if inv.ID == "" {
			inv.ID = uuid.NewString()
		}
		if inv.Source == "" {
			inv.Source = SourceKeybinding
		}

		var span trace.Span
		if acc.Tracer != nil {
			ctx, span = acc.Tracer.Start(ctx, "action.invoke",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(
					attribute.String("action.id", desc.ID),
					attribute.String("invocation.id", inv.ID),
					attribute.String("invocation.source", string(inv.Source)),
				),
			)
			defer span.End()
		}

		started := time.Now()
		ran, err := triggerAndDispose(ctx, acc, desc, inv)
		duration := time.Since(started)

		if span != nil {
			span.SetAttributes(attribute.Bool("action.ran", ran))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
		}

		if acc.Observer != nil {
			acc.Observer.ExecutionFinished(ExecutionRecord{
				InvocationID: inv.ID,
				ActionID:     desc.ID,
				Source:       inv.Source,
				Ran:          ran,
				Err:          err,
				StartedAt:    started,
				Duration:     duration,
			})
		}

		if err != nil {
			log.ErrorErr(log.CatAction, "action invocation failed", err,
				"id", desc.ID, "invocation", inv.ID)
			acc.Notifications.Show(SeverityError, err)
			return nil
		}

		log.Debug(log.CatAction, "action invocation finished",
			"id", desc.ID, "invocation", inv.ID, "ran", ran, "duration", duration)
		return nil
	}
}

// triggerAndDispose runs one invocation's lifecycle:
//
//	Created -> disabled?            -> Disposed (terminal, silent)
//	        -> AwaitingReadiness -> Running -> Disposed (terminal)
//
// The instance is disposed exactly once on every exit path, including
// panics and failures between creation and run completion. ran reports
// whether the instance's Run was reached.
func triggerAndDispose(ctx context.Context, acc *Accessor, desc Descriptor, inv Invocation) (ran bool, err error) {
	inst, err := acc.Instantiator.CreateInstance(desc.Factory)
	if err != nil {
		return false, fmt.Errorf("creating instance of %q: %w", desc.ID, err)
	}
	defer inst.Dispose()

	if desc.Label != "" {
		inst.SetLabel(desc.Label)
	}

	if !inst.Enabled() {
		log.Debug(log.CatAction, "action disabled, skipping run", "id", desc.ID)
		return false, nil
	}

	if err := acc.Lifecycle.Join(ctx); err != nil {
		return false, fmt.Errorf("awaiting workbench creation for %q: %w", desc.ID, err)
	}

	if err := inst.Run(ctx, inv); err != nil {
		return true, fmt.Errorf("running %q: %w", desc.ID, err)
	}
	return true, nil
}
