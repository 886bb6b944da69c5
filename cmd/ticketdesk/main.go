package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ticketdesk/internal/cli"

	"github.com/google/uuid"
)

func isTicketID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

// rewriteDirectShowArgs makes `ticketdesk <ticket-id>` work like
// `ticketdesk show <ticket-id>`. Cobra treats the first positional token as a
// subcommand, so argv is rewritten before parsing.
func rewriteDirectShowArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--base-url":  true,
		"--token":     true,
		"--log-level": true,
		"--format":    true,
	}

	insertAt := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isTicketID(argv[i+1]) {
				return insertAt(i)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if isTicketID(a) {
			return insertAt(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectShowArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		cli.Report(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
