// Package main provides the graphgrad CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewCLI().ExecuteContext(ctx); err != nil {
		slog.Error("graphgrad failed", "error", err)
		stop()
		os.Exit(1)
	}
}
