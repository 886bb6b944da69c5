package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestRenderHTMLMessage(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Delete ticket <strong>Printer &amp; fax</strong>?<br>This cannot be undone.", "Delete ticket Printer & fax?\nThis cannot be undone."},
		{"<p>One</p><p>Two</p>", "One\n\nTwo"},
		{"plain", "plain"},
		{"<em>dropped</em> tags", "dropped tags"},
	}
	for _, tc := range cases {
		if got := xansi.Strip(renderHTMLMessage(tc.in)); got != tc.want {
			t.Fatalf("renderHTMLMessage(%q): got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderModalBox_FixedWidth(t *testing.T) {
	for _, screenW := range []int{20, 60, 120} {
		box := renderModalBox(screenW, "Title", "some body text that is long enough to wrap inside a narrow modal box")
		want := modalWidth(screenW)
		for i, ln := range strings.Split(box, "\n") {
			if w := xansi.StringWidth(ln); w != want {
				t.Fatalf("screen %d line %d: width %d want %d", screenW, i, w, want)
			}
		}
	}
}

func TestNormalizePane(t *testing.T) {
	got := normalizePane("abcdef\nx", 4, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines; got %d", len(lines))
	}
	if lines[0] != "abc…" || lines[1] != "x   " || lines[2] != "    " {
		t.Fatalf("unexpected pane: %q", lines)
	}
}

func TestTableColumns_SubjectTakesSlack(t *testing.T) {
	cols := tableColumns(120)
	total := 10
	for _, c := range cols {
		total += c.Width
	}
	if total != 120 {
		t.Fatalf("expected columns to fill 120 cells; got %d", total)
	}
	if cols := tableColumns(20); cols[1].Width != 12 {
		t.Fatalf("expected minimum subject width; got %d", cols[1].Width)
	}
}

func TestRenderFormField_SingleLineWithinBody(t *testing.T) {
	for _, focused := range []bool{false, true} {
		out := renderFormField(24, "Subject", "line one\nline two that runs well past the body width", focused)
		lines := strings.Split(out, "\n")
		if len(lines) != 2 {
			t.Fatalf("expected label and one input line, got %q", out)
		}
		if xansi.Strip(lines[0]) != "Subject" {
			t.Fatalf("unexpected label line %q", lines[0])
		}
		if w := xansi.StringWidth(lines[1]); w != 24 {
			t.Fatalf("focused=%v: input line width %d, want 24", focused, w)
		}
		if !strings.HasPrefix(string([]rune(xansi.Strip(lines[1]))[1:]), " line one line two") {
			t.Fatalf("expected newlines flattened, got %q", xansi.Strip(lines[1]))
		}
	}
}
