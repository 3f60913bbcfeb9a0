package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v0xg/claimgen/internal/domain"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check that the Amazon credentials can sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			creds := credentials()
			return step(fmt.Sprintf("Signing in as %s", creds.Email), func() (string, error) {
				ok, err := a.session.Login(cmd.Context(), creds)
				if err != nil {
					return "", err
				}
				if !ok {
					return "", fmt.Errorf("%w (see %s)", domain.ErrLoginFailed, cfg.Paths.Screenshot)
				}
				return a.session.State().String(), nil
			})
		},
	}
}
