// Package audit records what happened to entities after the fact. Audit
// delivery is a side effect with its own outcome: it never decides whether
// the operation that produced it succeeded.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is one audit record.
type Event struct {
	ID         string
	Action     string
	EntityType string
	EntityID   uint
	ActorID    uint
	Detail     map[string]any
	OccurredAt time.Time
}

func NewEvent(action, entityType string, entityID, actorID uint, detail map[string]any, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Detail:     detail,
		OccurredAt: at.UTC(),
	}
}

// Sink receives audit events.
type Sink interface {
	Record(ctx context.Context, event Event) error
}

// Outcome reports how an Emit went.
type Outcome struct {
	Delivered bool
	Err       error
}

// Failed reports whether delivery to at least one sink failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Emit hands event to sink and reports the outcome. A nil sink is a no-op.
// Panics inside the sink are converted to errors.
func Emit(ctx context.Context, sink Sink, event Event) (outcome Outcome) {
	if sink == nil {
		return Outcome{}
	}

	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{Err: fmt.Errorf("audit sink panicked: %v", r)}
		}
	}()

	err := sink.Record(ctx, event)
	var partial *PartialError
	switch {
	case err == nil:
		return Outcome{Delivered: true}
	case errors.As(err, &partial):
		return Outcome{Delivered: true, Err: err}
	default:
		return Outcome{Err: err}
	}
}

// PartialError means some sinks of a MultiSink accepted the event and some failed.
type PartialError struct {
	Err error
}

func (e *PartialError) Error() string {
	return "audit delivered partially: " + e.Err.Error()
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// MultiSink fans an event out to every sink.
type MultiSink []Sink

func (m MultiSink) Record(ctx context.Context, event Event) error {
	var errs []error
	delivered := 0
	for _, s := range m {
		if err := s.Record(ctx, event); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered++
	}

	switch {
	case len(errs) == 0:
		return nil
	case delivered > 0:
		return &PartialError{Err: errors.Join(errs...)}
	default:
		return errors.Join(errs...)
	}
}
