package database

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandlerWithCallback returns a copy of parent that is cancelled
// on SIGTERM or SIGINT. callback, when non-nil, receives the signal before
// the context is cancelled. The exporter checks the context between
// records, so an interrupted run aborts and rolls back.
//
// The returned stop function cancels the context and releases the handler.
func SetupSignalHandlerWithCallback(parent context.Context, callback func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			if callback != nil {
				callback(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
