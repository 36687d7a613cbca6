package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/h0rv/shuhan/internal/dnd"
	"github.com/h0rv/shuhan/internal/share"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		moves []string
		asURL bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the query-string state of an assignment",
		Long: `Print the ?g= value for the assignment given by --state (or the default),
after applying each --move in order.

A move is PARTY=TARGET. TARGET is a group (ruling, opposition, others), which
moves the party to the front of it, or another party, which takes that
party's position.`,
		Example: `  shuhan encode --move komeito=ruling
  shuhan encode --move ishin=opposition --move dpp=cdp --url`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := a.session()
			for _, mv := range moves {
				party, target, ok := strings.Cut(mv, "=")
				if !ok || party == "" || target == "" {
					return fmt.Errorf("invalid move %q: want PARTY=TARGET", mv)
				}
				sess.StartDrag(party, dnd.OriginSegment)
				outcome := sess.EndDrag(target)
				if outcome == dnd.NoOp {
					a.logger.Warn("move had no effect", "party", party, "target", target)
					continue
				}
				a.logger.Debug("move", "party", party, "target", target, "outcome", outcome)
				sess.Settle()
			}

			sess.Settle()
			encoded := sess.Encode()
			if asURL {
				encoded = share.PageURL(a.cfg.SiteURL, encoded)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&moves, "move", "m", nil, "move PARTY=TARGET (repeatable)")
	cmd.Flags().BoolVar(&asURL, "url", false, "print the full page URL")
	return cmd
}
