package handler

import (
	"context"
	"log/slog"
	"time"

	"clinic-booking/internal/pkg/config"
	"clinic-booking/internal/usecase/queries"
)

// Verifier fires the verification reconciliation at a fixed period, starting
// immediately, on its own goroutine independent of request traffic.
type Verifier struct {
	queries  queries.VerificationQueries
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewVerifier(cfg config.Config, verificationQueries queries.VerificationQueries, logger *slog.Logger) *Verifier {
	return &Verifier{
		queries:  verificationQueries,
		interval: cfg.Verify.Interval,
		logger:   logger,
	}
}

func (v *Verifier) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.done = make(chan struct{})

	go func() {
		defer close(v.done)
		v.runOnce(ctx)
		ticker := time.NewTicker(v.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				v.runOnce(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (v *Verifier) Stop() {
	if v.cancel == nil {
		return
	}
	v.cancel()
	<-v.done
}

func (v *Verifier) runOnce(ctx context.Context) {
	v.logger.Info("Verifying booked intervals against payments")
	if err := v.queries.Run(ctx); err != nil {
		v.logger.Error("Verification run failed", slog.String("error", err.Error()))
	}
}
