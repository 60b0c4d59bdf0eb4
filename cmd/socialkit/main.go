// Package main is the socialkit command line client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dumblesdoor/socialkit/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		cli.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
