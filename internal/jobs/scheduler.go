package jobs

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler implements events.DeliveryScheduler on top of asynq.
type Scheduler struct {
	Client Enqueuer
}

// Schedule enqueues ev for background delivery. Re-scheduling an event that
// is already queued is a no-op.
func (s Scheduler) Schedule(ctx context.Context, ev dbgen.DomainEvent) error {
	if s.Client == nil {
		return nil
	}
	task, err := NewEventTask(ev)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return err
	}
	return nil
}
