package cli

import (
	"strings"

	"ticketdesk/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the ticket list TUI in a browser terminal",
		Long: strings.TrimSpace(`
Each browser tab gets its own TUI session, run under a pseudo-terminal and
streamed over a websocket. Sessions use this command's API settings.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := []string{"TICKETDESK_BASE_URL=" + app.cfg.BaseURL}
			if app.cfg.Token != "" {
				env = append(env, "TICKETDESK_TOKEN="+app.cfg.Token)
			}
			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:   addr,
				Env:    env,
				Logger: app.log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := srv.ListenAndServe(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8090", "Listen address")
	return cmd
}
