package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your accounts and balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderDashboard(cmd, a)
		},
	}
}

func renderDashboard(cmd *cobra.Command, a *app) error {
	view, err := a.dashboard.Load(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if view.UserName != "" {
		fmt.Fprintf(out, "Welcome, %s\n", view.UserName)
	}
	fmt.Fprintf(out, "Total balance: %s\n\n", view.TotalBalance)

	switch {
	case view.AccountsErr:
		fmt.Fprintln(out, "Failed to load accounts")
	case len(view.Accounts) == 0:
		fmt.Fprintln(out, "No accounts found")
	default:
		for _, acc := range view.Accounts {
			fmt.Fprintf(out, "%-12s %-16s %s\n", acc.MaskedNumber, acc.Type, acc.Balance)
		}
	}
	return nil
}
