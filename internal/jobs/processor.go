package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/noah-isme/backend-carwash/internal/events"
	"github.com/noah-isme/backend-carwash/internal/obs"
)

// Processor handles event delivery tasks by fanning each event out to the
// configured notifiers.
type Processor struct {
	Notifiers []events.Notifier
	Logger    zerolog.Logger

	duration metric.Float64Histogram
}

// NewProcessor builds a processor. meter may be nil.
func NewProcessor(logger zerolog.Logger, meter metric.Meter, notifiers ...events.Notifier) (*Processor, error) {
	p := &Processor{Notifiers: notifiers, Logger: logger}
	if meter != nil {
		hist, err := meter.Float64Histogram(
			"jobs.task.duration",
			metric.WithDescription("Duration of background task handling"),
			metric.WithUnit("s"),
		)
		if err != nil {
			return nil, fmt.Errorf("jobs: duration histogram: %w", err)
		}
		p.duration = hist
	}
	return p, nil
}

// Register adds the processor's handlers to mux.
func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskDeliverEvent, p.HandleEventTask)
}

// HandleEventTask decodes the task and runs every notifier. Malformed tasks are
// not retried.
func (p *Processor) HandleEventTask(ctx context.Context, t *asynq.Task) (err error) {
	start := time.Now()
	var payload EventPayload
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		if obs.JobsProcessedTotal != nil {
			obs.JobsProcessedTotal.WithLabelValues(t.Type(), result).Inc()
		}
		if p.duration != nil {
			p.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
				attribute.String("task", t.Type()),
				attribute.String("topic", payload.Topic),
				attribute.String("result", result),
			))
		}
	}()

	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode event task: %v: %w", err, asynq.SkipRetry)
	}
	ev, err := payload.Event()
	if err != nil {
		return fmt.Errorf("decode event task: %v: %w", err, asynq.SkipRetry)
	}

	for _, n := range p.Notifiers {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			p.Logger.Error().Err(err).Str("topic", ev.Topic).Str("event_id", payload.EventID).Msg("event delivery failed")
			return err
		}
	}
	p.Logger.Info().Str("topic", ev.Topic).Str("event_id", payload.EventID).Msg("event delivered")
	return nil
}
