package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var identifier string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with your registered identifier and an OTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if identifier == "" {
				fmt.Fprint(out, "Identifier (mobile/customer number): ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				identifier = strings.TrimSpace(line)
			}

			if err := a.login.Start(cmd.Context(), identifier); err != nil {
				return err
			}
			fmt.Fprintln(out, "OTP sent successfully! Please check your registered mobile/email.")

			fmt.Fprint(out, "OTP: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}

			if err := a.login.Verify(cmd.Context(), strings.TrimSpace(line)); err != nil {
				return err
			}
			fmt.Fprintln(out, "Login successful.")

			// The browser redirected to the banking page here; the CLI
			// equivalent is rendering the dashboard right away.
			return renderDashboard(cmd, a)
		},
	}

	cmd.Flags().StringVar(&identifier, "identifier", "", "registered identifier (prompted when omitted)")

	return cmd
}
