package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// Entry point for ledblink
func main() {
	// Cancel on Ctrl-C so a running pattern still drives the pin low and
	// releases it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp()).ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("ledblink: %v", err)
	}
}
