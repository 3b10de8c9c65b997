package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/events"
)

type customerMap map[[16]byte]dbgen.Customer

func (m customerMap) GetCustomerByID(_ context.Context, id pgtype.UUID) (dbgen.Customer, error) {
	c, ok := m[id.Bytes]
	if !ok {
		return dbgen.Customer{}, pgx.ErrNoRows
	}
	return c, nil
}

func event(t *testing.T, topic string, payload any) dbgen.DomainEvent {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return dbgen.DomainEvent{Topic: topic, Payload: data}
}

func TestEmailNotifierSendsForCustomerTopics(t *testing.T) {
	id := uuid.New()
	mail := &Outbox{}
	n := EmailNotifier{
		Mail:      mail,
		Customers: customerMap{id: {Email: "hana@example.com", FirstName: "Hana"}},
		ShopName:  "Carsss",
	}
	ctx := context.Background()

	require.NoError(t, n.Notify(ctx, event(t, events.TopicLoyaltyFreeWashGranted, events.FreeWashPayload{
		CustomerID: id.String(), ServiceType: "full_carwash", FreeServicesUsed: 1,
	})))
	require.NoError(t, n.Notify(ctx, event(t, events.TopicWashServiceCompleted, events.WashPayload{
		CustomerID: id.String(), ServiceType: "full_carwash", BasePrice: 7000, FinalPrice: 7000,
	})))
	require.NoError(t, n.Notify(ctx, event(t, events.TopicWashServiceCreated, events.WashPayload{
		CustomerID: id.String(), ServiceType: "inside_vacuum",
	})))

	sent := mail.Sent()
	require.Len(t, sent, 2)
	require.Equal(t, "You earned a free wash", sent[0].Subject)
	require.Contains(t, sent[0].HTML, "Free washes earned so far: 1")
	require.Equal(t, "hana@example.com", sent[1].To)
	require.Contains(t, sent[1].HTML, "full carwash at Carsss")
}

func TestEmailNotifierSkipsUnknownCustomerAndDisabledTopic(t *testing.T) {
	id := uuid.New()
	mail := &Outbox{}
	n := EmailNotifier{
		Mail:         mail,
		Customers:    customerMap{id: {Email: "ivan@example.com"}},
		TopicToggles: map[string]bool{events.TopicWashServiceCompleted: false},
	}
	ctx := context.Background()

	require.NoError(t, n.Notify(ctx, event(t, events.TopicLoyaltyFreeWashGranted, map[string]any{"customerId": uuid.NewString()})))
	require.NoError(t, n.Notify(ctx, event(t, events.TopicWashServiceCompleted, map[string]any{"customerId": id.String()})))
	require.Empty(t, mail.Sent())

	err := n.Notify(ctx, dbgen.DomainEvent{Topic: events.TopicLoyaltyFreeWashGranted, Payload: []byte("{")})
	require.Error(t, err)
}
