package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored credentials and the chat session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.chrome.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "theme",
		Short: "Toggle the light/dark theme preference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			theme, err := a.chrome.ToggleTheme()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", theme)
			return nil
		},
	}
}
