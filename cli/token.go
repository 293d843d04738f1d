package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/apiclient/errors"
)

func newTokenCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored auth token",
		Long: `Manage the token the pipeline attaches as the Authorization header.

The token is kept in the configured token store (file by default) under
the configured key.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set TOKEN",
			Short: "Store a token",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if strings.TrimSpace(args[0]) == "" {
					return errors.MissingField("token")
				}
				return root.withApp(cmd.Context(), nil, func(app *App) error {
					return app.Store.Set(cmd.Context(), app.Config.HTTP.TokenKey, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "get",
			Short: "Print the stored token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return root.withApp(cmd.Context(), nil, func(app *App) error {
					token, ok, err := app.Store.Get(cmd.Context(), app.Config.HTTP.TokenKey)
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("no token stored")
					}
					fmt.Fprintln(cmd.OutOrStdout(), token)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return root.withApp(cmd.Context(), nil, func(app *App) error {
					return app.Store.Delete(cmd.Context(), app.Config.HTTP.TokenKey)
				})
			},
		},
	)
	return cmd
}
