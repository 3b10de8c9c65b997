package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/events"
	"github.com/noah-isme/backend-carwash/internal/repo"
)

type recordingNotifier struct {
	seen []dbgen.DomainEvent
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, ev dbgen.DomainEvent) error {
	n.seen = append(n.seen, ev)
	return n.err
}

type recordingEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func sampleEvent(topic string) dbgen.DomainEvent {
	return dbgen.DomainEvent{
		ID:          pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Topic:       topic,
		AggregateID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Payload:     []byte(`{"customerId":"c-1"}`),
		OccurredAt:  repo.Timestamp(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
	}
}

func TestEventTaskRoundTrip(t *testing.T) {
	ev := sampleEvent(events.TopicLoyaltyFreeWashGranted)
	task, err := NewEventTask(ev)
	require.NoError(t, err)
	require.Equal(t, TaskDeliverEvent, task.Type())

	var payload EventPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	got, err := payload.Event()
	require.NoError(t, err)
	require.Equal(t, ev.ID, got.ID)
	require.Equal(t, ev.AggregateID, got.AggregateID)
	require.Equal(t, ev.Topic, got.Topic)
	require.JSONEq(t, string(ev.Payload), string(got.Payload))
	require.True(t, ev.OccurredAt.Time.Equal(got.OccurredAt.Time))
}

func TestQueueForTopic(t *testing.T) {
	require.Equal(t, QueueCritical, queueFor(events.TopicLoyaltyFreeWashGranted))
	require.Equal(t, QueueDefault, queueFor(events.TopicWashServiceCompleted))
	require.Equal(t, QueueLow, queueFor(events.TopicWashServiceCreated))
}

func TestSchedulerEnqueuesAndIgnoresDuplicates(t *testing.T) {
	enq := &recordingEnqueuer{}
	s := Scheduler{Client: enq}
	require.NoError(t, s.Schedule(context.Background(), sampleEvent(events.TopicWashServiceCreated)))
	require.Len(t, enq.tasks, 1)

	enq.err = asynq.ErrTaskIDConflict
	require.NoError(t, s.Schedule(context.Background(), sampleEvent(events.TopicWashServiceCreated)))

	enq.err = errors.New("redis down")
	require.Error(t, s.Schedule(context.Background(), sampleEvent(events.TopicWashServiceCreated)))

	require.NoError(t, Scheduler{}.Schedule(context.Background(), sampleEvent(events.TopicWashServiceCreated)))
}

func TestProcessorDeliversToNotifiers(t *testing.T) {
	notifier := &recordingNotifier{}
	p, err := NewProcessor(zerolog.Nop(), noop.NewMeterProvider().Meter("jobs-test"), notifier, nil)
	require.NoError(t, err)
	require.NotNil(t, p.duration)

	ev := sampleEvent(events.TopicWashServiceCompleted)
	task, err := NewEventTask(ev)
	require.NoError(t, err)
	require.NoError(t, p.HandleEventTask(context.Background(), task))
	require.Len(t, notifier.seen, 1)
	require.Equal(t, ev.ID, notifier.seen[0].ID)
	require.Equal(t, ev.Topic, notifier.seen[0].Topic)
}

func TestProcessorErrors(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	p, err := NewProcessor(zerolog.Nop(), nil, notifier)
	require.NoError(t, err)

	task, err := NewEventTask(sampleEvent(events.TopicLoyaltyFreeWashGranted))
	require.NoError(t, err)
	err = p.HandleEventTask(context.Background(), task)
	require.Error(t, err)
	require.False(t, errors.Is(err, asynq.SkipRetry))

	err = p.HandleEventTask(context.Background(), asynq.NewTask(TaskDeliverEvent, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	err = p.HandleEventTask(context.Background(), asynq.NewTask(TaskDeliverEvent, []byte(`{"eventId":"nope"}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
