// Command apidoc validates, merges and serves OpenAPI documents.
//
//	apidoc validate openapi.yaml
//	apidoc merge users.json orders.json -o api.yaml
//	apidoc serve api.yaml --watch
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
