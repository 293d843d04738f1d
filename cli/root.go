// Package cli provides the command-line interface for apiclient.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/apiclient/httpclient"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	envFile    string
	mode       string
	logLevel   string
}

// NewRootCommand builds the apiclient command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   ServiceName,
		Short: "Call the API through the shared request pipeline",
		Long: `apiclient sends requests through the shared request pipeline: the base URL
is chosen by deployment mode, bodies are form encoded, the stored token is
attached as Authorization and failures are classified the same way the
application does.

Configuration is read from config.yml, a .env file and APICLIENT_*
environment variables. APP_ENV selects the deployment mode.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to config.yml")
	flags.StringVar(&opts.envFile, "env-file", "", "Path to a .env file")
	flags.StringVar(&opts.mode, "mode", "", "Deployment mode (production, test, development)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newRequestCommand(opts),
		newTokenCommand(opts),
		newServeCommand(opts),
		newStatusCommand(opts),
		newVersionCommand(),
	)
	return root
}

// loadConfig loads, overrides, defaults and validates the configuration.
func (o *rootOptions) loadConfig() (*AppConfig, error) {
	cfg, err := LoadAppConfig(o.configFile, o.envFile)
	if err != nil {
		return nil, err
	}
	if o.mode != "" {
		cfg.Environment = o.mode
		cfg.HTTP.Mode = httpclient.ParseMode(o.mode)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withApp loads the configuration, applies adjust if given, builds the App
// and closes it after fn.
func (o *rootOptions) withApp(ctx context.Context, adjust func(*AppConfig), fn func(*App) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if adjust != nil {
		adjust(cfg)
	}
	app, err := NewApp(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(context.WithoutCancel(ctx)) }()
	return fn(app)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
