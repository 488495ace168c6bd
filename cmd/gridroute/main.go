// Command gridroute plans energy, liquid and item routes on scenario maps.
//
//	gridroute route scenario.toml          print the build plan
//	gridroute batch a.toml b.toml ...      route many scenarios on the worker
//	gridroute view scenario.toml           show the plan in the terminal
//	gridroute serve                        HTTP API
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gridroute:", err)
		os.Exit(1)
	}
}
