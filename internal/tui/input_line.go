package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderFormField draws a label above a one-line input filling the modal body.
// The focused field gets an accent label and a bar in the gutter.
func renderFormField(bodyW int, label, inputView string, focused bool) string {
	bodyW = max(bodyW, 10)

	gutter := " "
	if focused {
		gutter = lipgloss.NewStyle().Foreground(colorAccent).Render("▌")
	}

	flat := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, inputView)

	// Cut before styling: Width would wrap an overlong line instead.
	flat = xansi.Truncate(" "+flat, bodyW-1, "") + "\x1b[0m"
	field := lipgloss.NewStyle().
		Background(colorInputBg).
		Width(bodyW - 1).
		Render(flat)
	return renderFieldLabel(label, focused) + "\n" + gutter + field
}

func renderFieldLabel(label string, focused bool) string {
	if focused {
		return lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(label)
	}
	return styleMuted().Render(label)
}
