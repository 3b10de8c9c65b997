package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/noah-isme/backend-carwash/internal/config"
	"github.com/noah-isme/backend-carwash/internal/db"
	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/jobs"
	"github.com/noah-isme/backend-carwash/internal/notify"
	"github.com/noah-isme/backend-carwash/internal/obs"
)

const serviceName = "carwash-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLogger(serviceName, cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()
	if !cfg.RedisEnabled() {
		logger.Fatal().Msg("REDIS_URL is required to run the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
			ServiceName:   serviceName,
			Endpoint:      cfg.TracingEndpoint,
			Exporter:      cfg.TracingExporter,
			SamplingRatio: cfg.TracingSamplingRatio,
			Environment:   cfg.AppEnv,
			Shop:          cfg.Shop.Attributes(),
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := db.NewPool(startCtx, db.PoolConfig{
		URL:             cfg.DatabaseURL,
		ApplicationName: serviceName,
		MaxConns:        cfg.DBMaxConns,
		LogQueries:      cfg.DBLogQueries,
		Logger:          logger,
	})
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}

	if cfg.MetricsEnabled {
		obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)
		if cfg.WorkerMetricsAddr != "" {
			go serveMetrics(cfg.WorkerMetricsAddr, logger)
		}
	}

	notifier := notify.EmailNotifier{
		Mail:      mailer(cfg, logger),
		Customers: dbgen.New(pool),
		ShopName:  cfg.Shop.Name,
	}
	processor, err := jobs.NewProcessor(logger, otel.Meter("github.com/noah-isme/backend-carwash/internal/jobs"), notifier)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise job processor")
	}

	svc := jobs.NewJobService(&logger, redisOpt, cfg.WorkerConcurrency)
	if err := svc.Start(processor); err != nil {
		logger.Fatal().Err(err).Msg("start job server")
	}
	<-ctx.Done()
	svc.Stop()
	logger.Info().Msg("worker shutdown complete")
}

func mailer(cfg *config.Config, logger zerolog.Logger) notify.Mailer {
	if cfg.ResendAPIKey == "" {
		logger.Warn().Msg("RESEND_API_KEY not set: emails are logged, not sent")
		return notify.LogSender{Logger: logger}
	}
	return notify.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, 10*time.Second)
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info().Str("addr", addr).Msg("worker metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("worker metrics server")
	}
}
