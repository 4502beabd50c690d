package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/docshelf/internal/buildinfo"
	"github.com/dmitrijs2005/docshelf/internal/client/cli"
	"github.com/dmitrijs2005/docshelf/internal/client/config"
	"github.com/dmitrijs2005/docshelf/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	buildinfo.PrintBuildData(os.Stdout)

	// Configuration errors panic with a readable message.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "docshelf: %v\n", r)
			code = 2
		}
	}()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docshelf: %v\n", err)
		return 1
	}

	app.Run(ctx)
	return 0
}
