package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show auth state, chat session and client counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if a.authCtx.IsAuthenticated() {
				fmt.Fprintf(out, "Logged in (customer %s)\n", a.authCtx.CustomerID())
			} else {
				fmt.Fprintln(out, "Not logged in")
			}

			for _, link := range a.chrome.NavState() {
				fmt.Fprintf(out, "  %s -> tub %s\n", link.Label, link.Target)
			}

			sess, state := a.chat.Session()
			if sess.SessionID != "" {
				fmt.Fprintf(out, "Chat session: %s (%s)\n", shortID(sess.SessionID), state)
			} else {
				fmt.Fprintln(out, "Chat session: none")
			}

			fmt.Fprintf(out, "Theme: %s\n", a.chrome.Theme())

			snap := a.metrics.GetSnapshot()
			fmt.Fprintf(out, "Requests this run: %.0f (%.0f transport errors, %.0f session fallbacks)\n",
				snap.Requests, snap.ExternalErrors, snap.SessionFallbacks)
			return nil
		},
	}
}
