package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/h0rv/shuhan/internal/render"
	"github.com/h0rv/shuhan/internal/server"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		out     string
		noTitle bool
		noBars  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart as SVG",
		Example: `  shuhan render -g "ldp,komeito:cdp,jcp,sdp:ishin,dpp,reiwa,sanseito,japan-conservative,independent" -o chart.svg
  shuhan render --chamber councillors > councillors.svg`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := a.catalog.Chamber(a.cfg.Chamber)
			if err != nil {
				return err
			}
			sess := a.session()
			sess.Settle()

			var opts []render.Option
			if !noTitle {
				opts = append(opts, render.WithTitle(server.Title))
			}
			if !noBars {
				for _, other := range a.catalog.Chambers {
					if other.ID != ch.ID {
						opts = append(opts, render.WithSecondary(sess.View(other)))
						break
					}
				}
			}
			svg := render.SVG(sess.View(ch), opts...)

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(svg)
				return err
			}
			if err := os.WriteFile(out, svg, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			a.logger.Info("chart written", "file", out, "bytes", len(svg), "state", sess.Encode())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noTitle, "no-title", false, "omit the title")
	cmd.Flags().BoolVar(&noBars, "no-bars", false, "omit the other chamber's bars")
	return cmd
}
