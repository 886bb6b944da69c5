package format

import (
	"bytes"
	"strings"
	"testing"

	"ticketdesk/internal/model"
)

func TestWrite_JSONDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, []model.Row{{Seq: 1, ID: "t1", Subject: "s"}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), `[{"#":1,"id":"t1","subject":"s"`) {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteText_RowsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rows := []model.Row{
		{Seq: 1, ID: "t1", Subject: "Login\nissue", Status: "open", Created: "2023-01-01T00:00:00Z"},
		{Seq: 2, ID: "t2", Subject: "VPN", Status: "closed"},
	}
	if err := Write(&buf, rows, "text", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"SUBJECT", "Login issue", "t2", "closed", "2023-01-01T00:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestWriteText_TicketDetail(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tk := model.RawTicket{ID: "t1", Subject: "VPN", DescriptionText: "drops", CreatedAt: "2023-01-01 10:00:00"}
	if err := Write(&buf, tk, "text", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Created:  2023-01-01T10:00:00Z") || !strings.HasSuffix(out, "drops\n") {
		t.Fatalf("unexpected detail:\n%s", out)
	}
}
