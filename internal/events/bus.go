package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
)

// ErrUnknownTopic is returned for topics outside DefaultTopics.
var ErrUnknownTopic = errors.New("events: unknown topic")

// EventStore persists domain events.
type EventStore interface {
	InsertDomainEvent(ctx context.Context, arg dbgen.InsertDomainEventParams) (dbgen.DomainEvent, error)
}

// DeliveryScheduler hands emitted events to background processing.
type DeliveryScheduler interface {
	Schedule(ctx context.Context, event dbgen.DomainEvent) error
}

// Notifier reacts synchronously to emitted events.
type Notifier interface {
	Notify(ctx context.Context, event dbgen.DomainEvent) error
}

// Bus records wash and loyalty events in domain_events, then queues them for
// the worker and runs any in-process notifiers.
type Bus struct {
	Store     EventStore
	Scheduler DeliveryScheduler
	Notifiers []Notifier
}

// Emit persists the event for aggregateID (a wash service or a customer).
// Once the row exists the event is not lost, so scheduling and notifier
// failures are joined into the returned error alongside the stored event.
func (b *Bus) Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error) {
	if b == nil || b.Store == nil {
		return dbgen.DomainEvent{}, errors.New("events: store not configured")
	}
	if !Known(topic) {
		return dbgen.DomainEvent{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	if !aggregateID.Valid {
		return dbgen.DomainEvent{}, errors.New("events: aggregate id is required")
	}
	encoded, err := encodePayload(payload)
	if err != nil {
		return dbgen.DomainEvent{}, fmt.Errorf("events: encode %s payload: %w", topic, err)
	}
	ev, err := b.Store.InsertDomainEvent(ctx, dbgen.InsertDomainEventParams{
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     encoded,
	})
	if err != nil {
		return dbgen.DomainEvent{}, fmt.Errorf("events: persist %s: %w", topic, err)
	}

	var errs []error
	if b.Scheduler != nil {
		if err := b.Scheduler.Schedule(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("events: schedule: %w", err))
		}
	}
	for _, n := range b.Notifiers {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("events: notifier: %w", err))
		}
	}
	return ev, errors.Join(errs...)
}

// encodePayload marshals payload, which must encode to a JSON object since
// consumers decode it into WashPayload or FreeWashPayload.
func encodePayload(payload any) ([]byte, error) {
	if payload == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, errors.New("payload must be a JSON object")
	}
	return data, nil
}
