// Package notify implements the user-facing notification channel. Failures
// from action invocations land here and are fanned out to the UI through
// the pubsub broker; repeated identical messages inside a short window are
// suppressed so a flapping action cannot flood the status line.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/scr8/sqlopsstudio/internal/action"
	"github.com/scr8/sqlopsstudio/internal/log"
	"github.com/scr8/sqlopsstudio/internal/pubsub"
)

const (
	// DefaultDedupWindow is how long an identical message is suppressed.
	DefaultDedupWindow   = 3 * time.Second
	dedupCleanupInterval = time.Minute
)

// Notification is one user-visible message.
type Notification struct {
	ID       string
	Severity action.Severity
	Message  string
	Time     time.Time
}

// Service publishes notifications to subscribers. It implements
// action.Notifier.
type Service struct {
	broker *pubsub.Broker[Notification]
	dedup  *gocache.Cache
}

var _ action.Notifier = (*Service)(nil)

// NewService creates a notification service with the default dedup window.
func NewService() *Service {
	return NewServiceWithWindow(DefaultDedupWindow)
}

// NewServiceWithWindow creates a notification service with a custom dedup
// window. A zero window disables suppression.
func NewServiceWithWindow(window time.Duration) *Service {
	var dedup *gocache.Cache
	if window > 0 {
		dedup = gocache.New(window, dedupCleanupInterval)
	}
	return &Service{
		broker: pubsub.NewBroker[Notification](),
		dedup:  dedup,
	}
}

// Show publishes an error at the given severity. Fire-and-forget: delivery
// is not acknowledged and a nil error is ignored.
func (s *Service) Show(severity action.Severity, err error) {
	if err == nil {
		return
	}
	s.publish(severity, err.Error())
}

// Infof publishes an informational message.
func (s *Service) Infof(msg string) {
	s.publish(action.SeverityInfo, msg)
}

func (s *Service) publish(severity action.Severity, msg string) {
	if msg == "" {
		return
	}

	if s.dedup != nil {
		key := severity.String() + "\x00" + msg
		if _, dup := s.dedup.Get(key); dup {
			log.Debug(log.CatNotify, "duplicate notification suppressed", "message", msg)
			return
		}
		s.dedup.SetDefault(key, struct{}{})
	}

	n := Notification{
		ID:       uuid.NewString(),
		Severity: severity,
		Message:  msg,
		Time:     time.Now(),
	}

	log.Info(log.CatNotify, "notification shown", "severity", severity, "message", msg)
	s.broker.Publish(pubsub.ShownEvent, n)
}

// Clear tells subscribers to dismiss what they are showing.
func (s *Service) Clear() {
	s.broker.Publish(pubsub.ClearedEvent, Notification{})
}

// Subscribe returns a channel of notification events; the subscription ends
// when ctx is cancelled.
func (s *Service) Subscribe(ctx context.Context) <-chan pubsub.Event[Notification] {
	return s.broker.Subscribe(ctx)
}

// Close shuts down the underlying broker.
func (s *Service) Close() {
	s.broker.Close()
}
