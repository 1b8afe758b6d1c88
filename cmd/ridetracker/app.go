package main

import (
	"context"
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/piresc/ridetracker/internal/pkg/database"
	"github.com/piresc/ridetracker/internal/pkg/health"
	"github.com/piresc/ridetracker/internal/pkg/jwt"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
	natspkg "github.com/piresc/ridetracker/internal/pkg/nats"
	nrpkg "github.com/piresc/ridetracker/internal/pkg/newrelic"
	"github.com/piresc/ridetracker/internal/pkg/observability"
	"github.com/piresc/ridetracker/internal/pkg/realtime"
	"github.com/piresc/ridetracker/internal/pkg/retry"
	"github.com/piresc/ridetracker/internal/pkg/server"
	ws "github.com/piresc/ridetracker/internal/pkg/websocket"
	"github.com/piresc/ridetracker/services/ridesession"
	"github.com/piresc/ridetracker/services/ridesession/gateway"
	"github.com/piresc/ridetracker/services/ridesession/repository"
	"github.com/piresc/ridetracker/services/ridesession/usecase"
)

// app holds the wired tracker and everything it owns
type app struct {
	cfg       *models.Config
	zapLogger *logger.ZapLogger
	nrApp     *newrelic.Application
	registry  *prometheus.Registry
	transport *realtime.Manager
	tokens    jwt.TokenSource
	trackerUC ridesession.TrackerUC
	health    *health.Service
	shutdown  *server.ShutdownManager
}

func newApp(cfg *models.Config) (*app, error) {
	nrApp := nrpkg.InitNewRelic(cfg)

	zapLogger, err := logger.InitZapLoggerFromConfig(cfg, nrApp)
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}
	logger.SetGlobalLogger(zapLogger)

	a := &app{
		cfg:       cfg,
		zapLogger: zapLogger,
		nrApp:     nrApp,
		registry:  prometheus.NewRegistry(),
		tokens:    jwt.NewTokenSource(cfg.Realtime.AuthToken, cfg.Realtime.AuthTokenFile),
		health:    health.NewService(),
		shutdown:  server.NewShutdownManager(zapLogger),
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(a.registry)

	dialer, err := newDialer(cfg)
	if err != nil {
		return nil, err
	}
	a.transport = realtime.NewManager(dialer, realtime.Config{
		Backoff: retry.Config{
			BaseDelay:  cfg.Reconnect.BaseDelay,
			MaxDelay:   cfg.Reconnect.MaxDelay,
			Multiplier: 2,
			Jitter:     cfg.Reconnect.Jitter,
		},
		MaxAttempts: cfg.Reconnect.MaxAttempts,
		Token:       a.tokens.Token,
		DialTimeout: 15 * time.Second,
	}, metrics)
	a.health.AddChecker("transport", health.CheckerFunc(func(context.Context) error {
		if state := a.transport.State(); state != realtime.StateConnected {
			return fmt.Errorf("push channel is %s", state)
		}
		return nil
	}))

	activeRepo, err := a.newActiveRideRepo()
	if err != nil {
		return nil, err
	}

	trackerUC, err := usecase.NewTrackerUC(
		cfg,
		a.transport,
		gateway.NewRidesGateway(cfg, a.tokens),
		activeRepo,
		gateway.NewLogAlert(),
		usecase.WithMetrics(metrics),
		usecase.WithTracer(observability.NewTracer(nrApp)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracker: %w", err)
	}
	a.trackerUC = trackerUC

	a.shutdown.Register(func(context.Context) error {
		a.trackerUC.Close()
		a.transport.Disconnect()
		return nil
	})
	return a, nil
}

func newDialer(cfg *models.Config) (realtime.Dialer, error) {
	switch cfg.Realtime.Transport {
	case "", "websocket":
		return ws.NewDialer(cfg.Realtime.URL, 10*time.Second), nil
	case "nats":
		return &natspkg.Dialer{
			URL:           cfg.Realtime.URL,
			SubjectPrefix: cfg.Realtime.NATSSubject,
			UserID:        cfg.App.UserID,
			Timeout:       10 * time.Second,
		}, nil
	default:
		return nil, fmt.Errorf("unknown realtime transport %q", cfg.Realtime.Transport)
	}
}

// newActiveRideRepo keeps the active ride pointer in redis when configured,
// otherwise in memory for the life of the process
func (a *app) newActiveRideRepo() (ridesession.ActiveRideRepo, error) {
	if a.cfg.Redis.Host == "" {
		logger.Warn("Redis not configured, active ride pointer will not survive restarts")
		return repository.NewMemoryActiveRideRepository(), nil
	}

	redisClient, err := database.NewRedisClient(a.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.health.AddChecker("redis", health.CheckerFunc(redisClient.Ping))
	a.shutdown.Register(func(context.Context) error {
		return redisClient.Close()
	})
	return repository.NewActiveRideRepository(a.cfg, redisClient), nil
}

// connect opens the push channel. The token source is read on every dial so
// a rotated token file is picked up by reconnects. A failure is logged and
// the tracker keeps running on polling alone.
func (a *app) connect(ctx context.Context) {
	if err := a.transport.Connect(ctx, ""); err != nil {
		logger.Warn("Push channel unavailable, relying on polling",
			logger.String("url", a.cfg.Realtime.URL),
			logger.Err(err))
		return
	}
	logger.Info("Push channel connected",
		logger.String("transport", a.cfg.Realtime.Transport),
		logger.String("url", a.cfg.Realtime.URL))
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.shutdown.Shutdown(ctx); err != nil {
		a.zapLogger.Error("Shutdown finished with errors", logger.Err(err))
	}
	if a.nrApp != nil {
		a.nrApp.Shutdown(10 * time.Second)
	}
	a.zapLogger.Info("Ride tracker exiting")
	_ = a.zapLogger.Close()
}

func durationSeconds(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
