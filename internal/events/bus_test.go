package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/events"
)

type stubStore struct {
	lastParams dbgen.InsertDomainEventParams
	event      dbgen.DomainEvent
}

func (s *stubStore) InsertDomainEvent(_ context.Context, arg dbgen.InsertDomainEventParams) (dbgen.DomainEvent, error) {
	s.lastParams = arg
	if !s.event.ID.Valid {
		id := uuid.New()
		s.event.ID = pgtype.UUID{Bytes: id, Valid: true}
	}
	s.event.Topic = arg.Topic
	s.event.AggregateID = arg.AggregateID
	s.event.Payload = arg.Payload
	if !s.event.OccurredAt.Valid {
		s.event.OccurredAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	}
	return s.event, nil
}

type captureScheduler struct {
	events []dbgen.DomainEvent
}

func (c *captureScheduler) Schedule(_ context.Context, event dbgen.DomainEvent) error {
	c.events = append(c.events, event)
	return nil
}

type captureNotifier struct {
	events []dbgen.DomainEvent
}

func (c *captureNotifier) Notify(_ context.Context, event dbgen.DomainEvent) error {
	c.events = append(c.events, event)
	return nil
}

func toUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func TestEmitPersistsWashPayload(t *testing.T) {
	store := &stubStore{}
	scheduler := &captureScheduler{}
	notifier := &captureNotifier{}
	bus := events.Bus{
		Store:     store,
		Scheduler: scheduler,
		Notifiers: []events.Notifier{notifier},
	}

	service := uuid.New()
	payload := events.WashPayload{
		ServiceID:       service.String(),
		CustomerID:      uuid.NewString(),
		ServiceType:     "full_carwash",
		BasePrice:       7000,
		FinalPrice:      6650,
		DiscountPercent: 5,
	}
	event, err := bus.Emit(context.Background(), events.TopicWashServiceCreated, toUUID(service), payload)
	require.NoError(t, err)
	require.Equal(t, events.TopicWashServiceCreated, store.lastParams.Topic)
	require.Len(t, scheduler.events, 1)
	require.Len(t, notifier.events, 1)
	require.Equal(t, event.ID, scheduler.events[0].ID)

	var decoded events.WashPayload
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	require.Equal(t, payload, decoded)
}

func TestEmitRejectsInvalidEvents(t *testing.T) {
	store := &stubStore{}
	bus := events.Bus{Store: store}
	ctx := context.Background()

	_, err := bus.Emit(ctx, "order.paid", toUUID(uuid.New()), nil)
	require.ErrorIs(t, err, events.ErrUnknownTopic)

	_, err = bus.Emit(ctx, events.TopicWashServiceCompleted, pgtype.UUID{}, nil)
	require.ErrorContains(t, err, "aggregate id")

	_, err = bus.Emit(ctx, events.TopicWashServiceCompleted, toUUID(uuid.New()), []string{"not", "an", "object"})
	require.ErrorContains(t, err, "JSON object")

	_, err = bus.Emit(ctx, events.TopicWashServiceCompleted, toUUID(uuid.New()), json.RawMessage(`{`))
	require.Error(t, err)
	require.Empty(t, store.lastParams.Topic)

	var nilBus *events.Bus
	_, err = nilBus.Emit(ctx, events.TopicWashServiceCreated, toUUID(uuid.New()), nil)
	require.Error(t, err)
}

func TestEmitDefaultsEmptyPayload(t *testing.T) {
	store := &stubStore{}
	bus := events.Bus{Store: store}
	_, err := bus.Emit(context.Background(), events.TopicWashServiceCompleted, toUUID(uuid.New()), nil)
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(store.lastParams.Payload))
}

func TestEmitKeepsEventWhenNotifierFails(t *testing.T) {
	store := &stubStore{}
	after := &captureNotifier{}
	bus := events.Bus{
		Store:     store,
		Notifiers: []events.Notifier{failingNotifier{}, nil, after},
	}
	customer := uuid.New()
	ev, err := bus.Emit(context.Background(), events.TopicLoyaltyFreeWashGranted, toUUID(customer), events.FreeWashPayload{
		CustomerID:       customer.String(),
		ServiceType:      "full_carwash",
		FreeServicesUsed: 1,
	})
	require.ErrorContains(t, err, "boom")
	require.True(t, ev.ID.Valid)
	require.Len(t, after.events, 1)
	require.JSONEq(t, `{"customerId":"`+customer.String()+`","serviceId":"","serviceType":"full_carwash","freeServicesUsed":1}`, string(store.lastParams.Payload))
}

func TestKnownTopics(t *testing.T) {
	for _, topic := range events.DefaultTopics() {
		require.True(t, events.Known(topic), topic)
	}
	require.False(t, events.Known("wash_service.deleted"))
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, dbgen.DomainEvent) error {
	return errors.New("boom")
}
