package main

import (
	"github.com/spf13/cobra"

	"github.com/h0rv/shuhan/internal/config"
	"github.com/h0rv/shuhan/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart over HTTP",
		Long: `Serve the chart page, the SVG image and a JSON API.

The page reads the assignment from the ?g= query parameter, so every chart
can be shared as a link. Requests to a legacy host are redirected to the
canonical host.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := server.New(a.catalog, a.cfg, a.logger)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("canonical-host", "", "host that legacy hosts redirect to")
	_ = a.v.BindPFlag(config.KeyServerAddr, cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag(config.KeyCanonicalHost, cmd.Flags().Lookup("canonical-host"))
	return cmd
}
