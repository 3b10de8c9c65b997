package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/events"
	"github.com/noah-isme/backend-carwash/internal/repo"
)

const (
	// TaskDeliverEvent carries one persisted domain event to the worker.
	TaskDeliverEvent = "events:deliver"

	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// EventPayload is the JSON body of a TaskDeliverEvent task.
type EventPayload struct {
	EventID     string          `json:"eventId"`
	Topic       string          `json:"topic"`
	AggregateID string          `json:"aggregateId"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// NewEventTask wraps a domain event into a task. The event id doubles as the
// task id so an event is queued at most once.
func NewEventTask(ev dbgen.DomainEvent) (*asynq.Task, error) {
	payload := EventPayload{
		EventID:     repo.UUIDString(ev.ID),
		Topic:       ev.Topic,
		AggregateID: repo.UUIDString(ev.AggregateID),
		Payload:     json.RawMessage(ev.Payload),
		OccurredAt:  repo.Time(ev.OccurredAt),
	}
	if len(payload.Payload) == 0 {
		payload.Payload = json.RawMessage("{}")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode event task: %w", err)
	}
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Queue(queueFor(ev.Topic)),
		asynq.Timeout(30 * time.Second),
	}
	if payload.EventID != "" {
		opts = append(opts, asynq.TaskID(payload.EventID))
	}
	return asynq.NewTask(TaskDeliverEvent, data, opts...), nil
}

// Event decodes the task back into the domain event it was built from.
func (p EventPayload) Event() (dbgen.DomainEvent, error) {
	ev := dbgen.DomainEvent{
		Topic:      p.Topic,
		Payload:    []byte(p.Payload),
		OccurredAt: repo.Timestamp(p.OccurredAt),
	}
	if p.EventID != "" {
		id, err := repo.ToUUID(p.EventID)
		if err != nil {
			return dbgen.DomainEvent{}, fmt.Errorf("event id: %w", err)
		}
		ev.ID = id
	}
	if p.AggregateID != "" {
		id, err := repo.ToUUID(p.AggregateID)
		if err != nil {
			return dbgen.DomainEvent{}, fmt.Errorf("aggregate id: %w", err)
		}
		ev.AggregateID = id
	}
	return ev, nil
}

func queueFor(topic string) string {
	switch topic {
	case events.TopicLoyaltyFreeWashGranted:
		return QueueCritical
	case events.TopicWashServiceCompleted:
		return QueueDefault
	default:
		return QueueLow
	}
}
