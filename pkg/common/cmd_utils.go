package common

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// WithSysExit returns a context that is cancelled on SIGTERM or SIGINT.
func WithSysExit(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		defer signal.Stop(sigterm)
		select {
		case <-sigterm:
			logger.Info("received signal, exiting")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
