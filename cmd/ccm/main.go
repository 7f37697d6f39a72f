// ccm - configuration manager for AI coding tools
//
// Stores API keys, settings file locations, router providers and project
// inventories locally and writes them into the files the agent CLI and the
// router read.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/ccm/internal/cli"
	"github.com/asteroid-belt/ccm/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	telemetryClient := telemetry.New()

	err := cli.Execute(ctx, telemetryClient)
	telemetryClient.Close()
	if err != nil {
		os.Exit(1)
	}
}
