package common

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptContext returns a context that is canceled on the first
// interrupt or termination signal. A second signal exits immediately.
// The returned cancel func also stops listening for signals.
func InterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	interrupt := make(chan os.Signal, 2)
	signal.Notify(interrupt,
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGQUIT,
	)

	done := make(chan struct{})
	go func() {
		defer signal.Stop(interrupt)
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			case sig := <-interrupt:
				slog.Warn("Received signal", "signal", sig, "i", i)
				if i > 0 {
					log.Fatalln("Force exit")
				}
				cancel()
			}
		}
	}()

	once := sync.Once{}
	return ctx, func() {
		once.Do(func() {
			close(done)
		})
		cancel()
	}
}
