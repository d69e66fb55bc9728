package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tub-bank/portal-client-go/internal/domain"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tub",
		Short:         "TUB banking portal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(a),
		newChatCmd(a),
		newDashboardCmd(a),
		newStatusCmd(a),
		newLogoutCmd(a),
		newThemeCmd(a),
		newVersionCmd(),
	)

	return root
}

// userMessage maps an error to the line shown to the user. Server-side
// rejections surface verbatim; transport failures get a generic, retriable
// wording; everything else already reads as a user message.
func userMessage(err error) string {
	var rejected *domain.ErrRejected
	if errors.As(err, &rejected) {
		return rejected.Error()
	}

	var external *domain.ErrExternalService
	if errors.As(err, &external) {
		return "An error occurred. Please try again."
	}

	return err.Error()
}
