package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tub-bank/portal-client-go/internal/domain"
)

func newChatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the portal assistant",
		Long: "Talk to the portal assistant. With a message argument a single\n" +
			"exchange is performed; without one an interactive prompt opens.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			sess := a.chat.Start(cmd.Context())
			fmt.Fprintf(out, "Session: %s\n", shortID(sess.SessionID))

			if len(args) > 0 {
				return exchange(cmd, a, strings.Join(args, " "))
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				line, err := reader.ReadString('\n')
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				if err := exchange(cmd, a, line); err != nil {
					// A failed exchange is retriable; keep the prompt open.
					fmt.Fprintln(out, chatErrorMessage(err))
				}
			}
		},
	}

	return cmd
}

func exchange(cmd *cobra.Command, a *app, message string) error {
	reply, err := a.chat.Send(cmd.Context(), message)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}

func chatErrorMessage(err error) string {
	var external *domain.ErrExternalService
	if errors.As(err, &external) {
		return "Sorry, I encountered an error. Please try again."
	}
	return err.Error()
}

// shortID abbreviates a session id for display, the way the widget did.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
