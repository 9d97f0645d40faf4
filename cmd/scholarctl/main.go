package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"scholar-match/internal/cli"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(Version)
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
