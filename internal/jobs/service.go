// Package jobs runs background work on asynq: domain events are queued by the
// API and delivered to notifiers by the worker process.
package jobs

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService holds the asynq client used to enqueue and the server that runs handlers.
type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger
}

// NewJobService builds a client and server sharing the same Redis connection options.
func NewJobService(logger *zerolog.Logger, opt asynq.RedisConnOpt, concurrency int) *JobService {
	if concurrency <= 0 {
		concurrency = 10
	}
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
	})
	return &JobService{
		Client: asynq.NewClient(opt),
		server: server,
		logger: logger,
	}
}

// Start registers the processor and starts the worker pool in the background.
func (j *JobService) Start(p *Processor) error {
	mux := asynq.NewServeMux()
	p.Register(mux)
	j.logger.Info().Msg("starting background job server")
	return j.server.Start(mux)
}

// Stop shuts the server down and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	_ = j.Client.Close()
}
