package components

import (
	"context"
	"log/slog"
	"time"

	"clinic-booking/internal/handler"
	"clinic-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ServerModule = fx.Module("server",
	fx.Provide(
		handler.NewServer,
		handler.NewVerifier,
	),
	fx.Invoke(
		registerVerifier,
		registerServer,
		registerShutdownTimer,
	),
)

func registerVerifier(lc fx.Lifecycle, verifier *handler.Verifier) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			verifier.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			verifier.Stop()
			return nil
		},
	})
}

func registerServer(lc fx.Lifecycle, server *handler.Server, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Draining connections")
			return server.Shutdown(ctx)
		},
	})
}

// registerShutdownTimer arms the wall-clock deadline that ends the process:
// the server runs for a fixed duration after start, then shuts down cleanly.
func registerShutdownTimer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg config.Config, logger *slog.Logger) {
	var timer *time.Timer
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("Shutdown timer armed", slog.Duration("after", cfg.Server.ShutdownAfter))
			timer = time.AfterFunc(cfg.Server.ShutdownAfter, func() {
				if err := shutdowner.Shutdown(); err != nil {
					logger.Error("Shutdown trigger failed", slog.String("error", err.Error()))
				}
			})
			return nil
		},
		OnStop: func(_ context.Context) error {
			if timer != nil {
				timer.Stop()
			}
			return nil
		},
	})
}
