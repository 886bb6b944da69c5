package cli

import (
	"fmt"
	"strings"

	"ticketdesk/internal/devapi"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local ticket API backed by sqlite",
		Long: strings.TrimSpace(`
Serves the ticket REST API (/api/tickets) from a local sqlite file so the TUI
and CLI have a backend to talk to. Metrics are exposed on /metrics.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.cfg.ServeAddr
			}
			if dbPath == "" {
				dbPath = app.cfg.ServeDB
			}

			ctx := cmd.Context()
			store, err := devapi.OpenStore(ctx, dbPath)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("open %s: %w", dbPath, err))
			}
			defer store.Close()

			app.log.Info().Str("db", dbPath).Msg("store opened")
			if err := devapi.NewServer(store, app.log).ListenAndServe(ctx, addr); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: serve_addr from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (default: serve_db from config)")
	return cmd
}
