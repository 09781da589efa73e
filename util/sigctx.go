package util

import (
	"context"
	"os"
	"os/signal"
)

// SignalContext returns a context that is canceled when any of the given
// signals is received. The returned stop function releases the signal
// subscription.
func SignalContext(ctx context.Context, sigs ...os.Signal) (context.Context, func()) {
	sch := make(chan os.Signal, 1)
	sub, cancel := context.WithCancel(ctx)
	signal.Notify(sch, sigs...)

	go func() {
		select {
		case <-sub.Done():
		case <-sch:
			cancel()
		}
	}()

	return sub, func() {
		signal.Stop(sch)
		cancel()
	}
}
