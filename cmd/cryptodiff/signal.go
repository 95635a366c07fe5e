package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// shutdownListener returns a context that is canceled on the first interrupt
// signal. Later signals are reported but otherwise ignored so a replay in
// progress can finish writing its report.
func shutdownListener(errOut io.Writer) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		interruptChannel := make(chan os.Signal, 1)
		signal.Notify(interruptChannel, interruptSignals...)

		sig := <-interruptChannel
		fmt.Fprintf(errOut, "Received signal (%s).  Shutting down...\n", sig)
		cancel()

		for sig := range interruptChannel {
			fmt.Fprintf(errOut, "Received signal (%s).  Already shutting down...\n", sig)
		}
	}()
	return ctx
}
