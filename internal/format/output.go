package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ticketdesk/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - text (ticket rows and tickets as a table; anything else falls back to json)
// - html (ticket rows as a table, tickets with rendered markdown)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "text":
		return WriteText(w, v, pretty)
	case "html":
		return WriteHTML(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// Check reports an error for format names Write does not support.
func Check(format string) error {
	switch format {
	case "", "json", "text", "html":
		return nil
	default:
		return fmt.Errorf("unknown format: %s (want json, text or html)", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

var rowHeaders = []string{"#", "ID", "SUBJECT", "STATUS", "CREATED", "UPDATED"}

// WriteText renders rows for humans. With pretty, the table gets a border.
func WriteText(w io.Writer, v any, pretty bool) error {
	switch t := v.(type) {
	case []model.Row:
		return writeRowsTable(w, t, pretty)
	case model.Row:
		return writeRowDetail(w, t)
	case model.RawTicket:
		return writeRowDetail(w, model.RowFromRaw(t, 0))
	default:
		return WriteJSON(w, v, pretty)
	}
}

func writeRowsTable(w io.Writer, rows []model.Row, pretty bool) error {
	tbl := table.New().Headers(rowHeaders...)
	if pretty {
		tbl = tbl.Border(lipgloss.RoundedBorder())
	} else {
		tbl = tbl.Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderHeader(false).
			BorderColumn(false).
			StyleFunc(func(row, col int) lipgloss.Style {
				return lipgloss.NewStyle().PaddingRight(2)
			})
	}
	for _, r := range rows {
		tbl.Row(strconv.Itoa(r.Seq), r.ID, oneLine(r.Subject), r.Status, r.Created, r.Updated)
	}
	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func writeRowDetail(w io.Writer, r model.Row) error {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:       %s\n", r.ID)
	fmt.Fprintf(&b, "Subject:  %s\n", r.Subject)
	fmt.Fprintf(&b, "Status:   %s\n", r.Status)
	fmt.Fprintf(&b, "Created:  %s\n", r.Created)
	fmt.Fprintf(&b, "Updated:  %s\n", r.Updated)
	if d := strings.TrimSpace(r.Description); d != "" {
		fmt.Fprintf(&b, "\n%s\n", d)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
