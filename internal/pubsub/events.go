// Package pubsub provides a generic publish/subscribe event broker used to
// fan out workbench events (notifications, config reloads) to the UI.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies a published event.
type EventType string

const (
	// ShownEvent is published when a new payload becomes visible (e.g. a
	// notification was raised).
	ShownEvent EventType = "shown"
	// ClearedEvent is published when existing payloads are dismissed.
	ClearedEvent EventType = "cleared"
	// ReloadedEvent is published when a source was re-read from disk.
	ReloadedEvent EventType = "reloaded"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
