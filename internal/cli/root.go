package cli

import (
	"fmt"
	"io"
	"strings"

	"ticketdesk/internal/api"
	"ticketdesk/internal/config"
	"ticketdesk/internal/format"
	"ticketdesk/internal/logging"
	"ticketdesk/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	BaseURL    string
	Token      string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg       config.Config
	log       zerolog.Logger
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "ticketdesk",
		Short:         "Ticket list TUI and CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive ticket list
  ticketdesk

  # Scriptable commands
  ticketdesk list --query printer
  ticketdesk show <ticket-id>
  ticketdesk delete <ticket-id> --yes

  # Run a local ticket API to develop against
  ticketdesk serve --db ./tickets.sqlite
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd, app); err != nil {
			return writeErr(cmd, err)
		}
		// The TUI owns the terminal; only the servers mirror logs to stderr.
		l, closer, err := logging.New(logging.Options{
			File:   app.cfg.LogFile,
			Level:  app.cfg.LogLevel,
			Stderr: cmd.Name() == "serve" || cmd.Name() == "web",
		})
		if err != nil {
			return writeErr(cmd, fmt.Errorf("open log: %w", err))
		}
		app.log = l.With().Str("cmd", cmd.Name()).Logger()
		app.logCloser = closer
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logCloser != nil {
			return app.logCloser.Close()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", "", "Ticket API base URL (overrides config and TICKETDESK_BASE_URL)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", "", "Bearer token for the ticket API")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output; bordered tables in text mode")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|text|html); default from TICKETDESK_FORMAT or json")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	client, err := newClient(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log.Info().Str("base_url", app.cfg.BaseURL).Msg("starting tui")
	if err := tui.Run(cmd.Context(), tui.Options{
		Backend:     client,
		RowsPerPage: app.cfg.RowsPerPage,
		LoadLimit:   app.cfg.LoadLimit,
		Logger:      app.log,
	}); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// loadConfig resolves the effective configuration. Flags win over everything
// config.Load already layered (env, .env, file, defaults).
func loadConfig(cmd *cobra.Command, app *App) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = strings.TrimSpace(app.BaseURL)
	}
	if flags.Changed("token") {
		cfg.Token = strings.TrimSpace(app.Token)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.TrimSpace(app.LogLevel)
	}
	if flags.Changed("format") {
		cfg.Format = strings.TrimSpace(app.Format)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	app.cfg = cfg
	app.Format = cfg.Format
	return nil
}

func newClient(app *App) (*api.Client, error) {
	return api.New(api.Options{
		BaseURL: app.cfg.BaseURL,
		Token:   app.cfg.Token,
		Timeout: app.cfg.Timeout,
		Logger:  app.log,
	})
}

// writeOut prints v in the selected format. JSON output is wrapped in a
// {"data": ...} envelope; text and html render v directly.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	switch app.Format {
	case "", "json":
		return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
	default:
		return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
	}
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return reportedError{err: err}
}
