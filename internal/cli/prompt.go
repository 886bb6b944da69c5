package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"ticketdesk/internal/ticketlist"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// logNotifier sends screen notifications to the log. Commands report their
// outcome on stdout/stderr themselves.
type logNotifier struct{ log zerolog.Logger }

func (n logNotifier) Loading(msg string) func() {
	n.log.Debug().Msg(msg)
	return func() {}
}

func (n logNotifier) Success(msg string) { n.log.Info().Msg(msg) }

func (n logNotifier) Error(msg string) { n.log.Warn().Msg(msg) }

// promptConfirmer asks on the terminal. With yes set it accepts without asking.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
	yes bool

	accepted bool
}

func (p *promptConfirmer) Confirm(ctx context.Context, c ticketlist.Confirmation) (bool, error) {
	if p.yes {
		p.accepted = true
		return true, nil
	}

	fmt.Fprintf(p.out, "%s\n%s\n%s? [y/N] ", c.Title, plainText(c.HTML), c.OK)

	// A blocked read cannot be interrupted, so on cancellation the reader
	// goroutine lingers until the next line or EOF. Commands exit right after.
	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(p.in).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			p.accepted = true
		}
		return p.accepted, nil
	}
}

// plainText drops inline markup from a confirmation body; <br> and <p> become newlines.
func plainText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" || string(name) == "p" {
				b.WriteString("\n")
			}
		}
	}
}

var (
	_ ticketlist.Notifier  = logNotifier{}
	_ ticketlist.Confirmer = (*promptConfirmer)(nil)
)
