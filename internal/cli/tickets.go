package cli

import (
	"errors"
	"fmt"

	"ticketdesk/internal/api"
	"ticketdesk/internal/model"
	"ticketdesk/internal/ticketlist"

	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var (
		query string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets sorted by subject (optionally filtered)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if limit <= 0 {
				limit = app.cfg.LoadLimit
			}
			screen := ticketlist.New(ticketlist.Deps{
				Service:   client,
				Notifier:  logNotifier{log: app.log},
				Logger:    app.log,
				LoadLimit: limit,
			})
			if err := screen.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, screen.Visible(query))
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive search over subject and description")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum tickets to fetch (default: load_limit from config)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <ticket-id>",
		Short: "Show one ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := client.Get(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, ticketError(args[0], err))
			}
			return writeOut(cmd, app, model.RowFromRaw(t, 0))
		},
	}
	return cmd
}

type deleteResult struct {
	ID        string `json:"id"`
	Deleted   bool   `json:"deleted"`
	Remaining int    `json:"remaining"`
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <ticket-id>",
		Short: "Delete a ticket after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			t, err := client.Get(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, ticketError(id, err))
			}

			conf := &promptConfirmer{in: cmd.InOrStdin(), out: cmd.ErrOrStderr(), yes: yes}
			screen := ticketlist.New(ticketlist.Deps{
				Service:   client,
				Notifier:  logNotifier{log: app.log},
				Confirmer: conf,
				Logger:    app.log,
				LoadLimit: app.cfg.LoadLimit,
			})
			if err := screen.Delete(cmd.Context(), model.RowFromRaw(t, 0)); err != nil {
				return writeErr(cmd, err)
			}

			res := deleteResult{ID: id, Deleted: conf.accepted}
			if conf.accepted {
				res.Remaining = len(screen.Rows())
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func ticketError(id string, err error) error {
	if errors.Is(err, api.ErrNotFound) {
		return errNotFound("ticket", id)
	}
	return fmt.Errorf("get ticket %s: %w", id, err)
}
