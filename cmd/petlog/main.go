package main

import (
	"context"
	"os"
	"os/signal"

	"pet-care-log/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, cli.RemoteBackend, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
