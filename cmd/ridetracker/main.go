package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/piresc/ridetracker/internal/pkg/config"
	"github.com/piresc/ridetracker/internal/pkg/constants"
	"github.com/piresc/ridetracker/internal/pkg/health"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/middleware"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/server"
	"github.com/piresc/ridetracker/internal/utils"
	"github.com/piresc/ridetracker/services/ridesession"
	"github.com/piresc/ridetracker/services/ridesession/handler"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "ridetracker",
		Short:         "Follow a ride from request to drop-off",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/ridetracker.env", "dotenv config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newTrackCmd(&configPath))
	root.AddCommand(newResumeCmd(&configPath))
	root.AddCommand(newRouteCmd())
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tracker with its local HTTP and stream bridge",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.InitConfig(*configPath))
		},
	}
}

func serve(ctx context.Context, cfg *models.Config) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	logger.Info("Starting application",
		logger.String("app", cfg.App.Name),
		logger.String("role", string(cfg.App.Role)),
		logger.String("version", cfg.App.Version),
		logger.String("environment", cfg.App.Environment),
	)

	h := handler.NewHandler(cfg, a.trackerUC, a.transport)
	h.Start()
	a.shutdown.Register(func(context.Context) error {
		h.Stop()
		return nil
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.PanicRecoveryWithZapMiddleware(a.zapLogger))
	e.Use(nrecho.Middleware(a.nrApp))
	e.Use(middleware.RequestContextMiddleware(cfg.App.Name))
	e.Use(logger.ZapEchoMiddleware(a.zapLogger))

	health.RegisterHealthEndpoints(e, cfg.App.Name, cfg.App.Version, a.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	h.RegisterRoutes(e)

	a.connect(ctx)
	if cfg.App.Role == models.RoleRider {
		resumeOnStartup(ctx, a.trackerUC)
	}

	srv := server.NewGracefulServer(e, a.zapLogger, cfg.Server.Host, cfg.Server.Port, durationSeconds(cfg.Server.ShutdownTimeout))
	return srv.Run(ctx)
}

// resumeOnStartup picks up a ride left in progress by a previous run
func resumeOnStartup(ctx context.Context, trackerUC ridesession.TrackerUC) {
	view, err := trackerUC.Resume(ctx)
	switch {
	case err == nil:
		logger.Info("Resumed active ride",
			logger.RideID(view.RideID),
			logger.String("status", string(view.Status)))
	case errors.Is(err, models.ErrNoActiveRide):
		logger.Debug("No active ride to resume")
	default:
		logger.Warn("Failed to resume active ride", logger.Err(err))
	}
}

func newTrackCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "track <ride-id>",
		Short: "Follow one ride and print its events as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rideID := args[0]
			return follow(cmd, *configPath, func(ctx context.Context, uc ridesession.TrackerUC) (models.SessionView, error) {
				return uc.Track(ctx, rideID)
			})
		},
	}
}

func newResumeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Follow the ride recorded as active and print its events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return follow(cmd, *configPath, func(ctx context.Context, uc ridesession.TrackerUC) (models.SessionView, error) {
				return uc.Resume(ctx)
			})
		},
	}
}

// follow tracks a single ride until it reaches a terminal state or the
// process is interrupted
func follow(cmd *cobra.Command, configPath string, start func(context.Context, ridesession.TrackerUC) (models.SessionView, error)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(config.InitConfig(configPath))
	if err != nil {
		return err
	}
	defer a.close()

	watchID := a.transport.WatchState(a.trackerUC.TransportStateChanged)
	defer a.transport.UnwatchState(watchID)

	events := make(chan ridesession.Event, 64)
	listenerID := a.trackerUC.AddListener(func(ev ridesession.Event) {
		select {
		case events <- ev:
		default:
			logger.Warn("Dropping event, output is not keeping up", logger.String("event", ev.Name))
		}
	})
	defer a.trackerUC.RemoveListener(listenerID)

	a.connect(ctx)
	view, err := start(ctx, a.trackerUC)
	if err != nil {
		return err
	}

	out := json.NewEncoder(cmd.OutOrStdout())
	if err := writeEvent(out, ridesession.Event{Name: constants.EventSessionState, RideID: view.RideID, Data: view}); err != nil {
		return err
	}
	if view.IsTerminal() {
		return a.trackerUC.Acknowledge(view.RideID)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if err := writeEvent(out, ev); err != nil {
				return err
			}
			if ev.RideID != view.RideID || ev.Name != constants.EventSessionState {
				continue
			}
			current, err := a.trackerUC.Session(view.RideID)
			if err != nil {
				return nil
			}
			if current.IsTerminal() {
				return a.trackerUC.Acknowledge(view.RideID)
			}
		}
	}
}

func writeEvent(out *json.Encoder, ev ridesession.Event) error {
	if err := out.Encode(ev); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <encoded-polyline>",
		Short: "Decode a route polyline and print its points and length",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points := utils.DecodePolyline(args[0])
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
				"points":    points,
				"length_km": utils.RouteLength(points),
			})
		},
	}
}
