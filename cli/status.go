package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the resolved configuration and component health",
		Long: `Show the deployment mode, the base URL it resolves to, and the health of
the token store and connectivity check. The token value is never printed.

Examples:
  apiclient status
  apiclient status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return root.withApp(cmd.Context(), nil, func(app *App) error {
				health := app.Health(cmd.Context())
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(struct {
						Mode    string `json:"mode"`
						BaseURL string `json:"base_url"`
						Health  any    `json:"health"`
					}{string(app.Config.HTTP.Mode), app.Config.HTTP.ResolvedBaseURL(), health})
				}

				fmt.Fprintf(out, "Mode:      %s\n", app.Config.HTTP.Mode)
				fmt.Fprintf(out, "Base URL:  %s\n", app.Config.HTTP.ResolvedBaseURL())
				fmt.Fprintf(out, "Status:    %s\n", health.Status)
				for _, c := range health.Components {
					line := fmt.Sprintf("  %-14s %s", c.Name, c.Status)
					if c.Message != "" {
						line += " (" + c.Message + ")"
					}
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
