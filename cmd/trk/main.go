package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"activity-tracker/internal/api"
	"activity-tracker/internal/cli"
	"activity-tracker/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(api.Open, config.NewLoader())
	if err := root.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
