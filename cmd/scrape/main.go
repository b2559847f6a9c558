// cmd/scrape/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/scrape/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal aborts the running crawl, a second one exits immediately
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Interrupt received, shutting down gracefully...")
		cancel()
		<-sigCh
		os.Exit(130)
	}()

	code := cli.Execute(ctx)
	cancel()
	os.Exit(code)
}
