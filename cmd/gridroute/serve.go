package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/gridroute/router"
	"github.com/katalvlaran/gridroute/server"
	"github.com/katalvlaran/gridroute/worker"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			routers, err := a.cfg.Routers()
			if err != nil {
				return err
			}
			w, err := worker.New(worker.NewFactory(routers, router.WithLogger(a.log)),
				worker.WithQueueSize(a.cfg.Worker.QueueSize),
				worker.WithLogger(a.log))
			if err != nil {
				return err
			}
			s, err := server.New(w, server.WithLogger(a.log), server.WithCatalog(a.cat))
			if err != nil {
				return err
			}
			return s.Serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}
