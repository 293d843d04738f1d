package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/apiclient/devserver"
	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/version"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development API server",
		Long: `Run a local API under /api for development. With the default origin
(http://localhost:8080) the client in development mode talks to it directly.

Examples:
  apiclient serve
  apiclient serve --port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.DevServer.Port = port
			}
			log := logger.New(&cfg.Logging, cfg.Name)

			srv, err := devserver.New(cfg.DevServer, version.Short(), log)
			if err != nil {
				return err
			}
			if err := srv.Start(cmd.Context()); err != nil {
				return err
			}
			<-cmd.Context().Done()
			return srv.Stop(context.WithoutCancel(cmd.Context()))
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides devserver.port)")
	return cmd
}
