package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const previewHeight = 6

func (m appModel) View() string {
	switch m.modal {
	case modalForm:
		return placeModal(m.width, m.height, m.viewForm())
	case modalConfirm:
		c := m.confirm
		body := renderHTMLMessage(c.HTML)
		return placeModal(m.width, m.height,
			renderConfirmModal(m.width, c.Title, body, c.OK, c.Cancel, m.confirmFocus))
	}
	return m.viewList()
}

func (m appModel) viewList() string {
	w := m.width
	if w <= 0 {
		w = 80
	}

	total := len(m.screen.Rows())
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Tickets")
	count := fmt.Sprintf(" %d", total)
	if q := m.filter.Value(); q != "" {
		count = fmt.Sprintf(" %d of %d", len(m.visible), total)
	}
	header := title + styleMuted().Render(count)

	var filterLine string
	if m.filtering || m.filter.Value() != "" {
		filterLine = m.filter.View()
	}

	var body string
	if len(m.visible) == 0 {
		msg := "No tickets yet. Press a to add one."
		if m.filter.Value() != "" {
			msg = "No tickets match the filter."
		}
		body = styleMuted().Render(msg)
	} else {
		body = m.table.View()
	}

	parts := []string{
		header,
		normalizePane(filterLine, w, 1),
		body,
		styleMuted().Render(m.pager.View()),
		normalizePane(m.viewPreview(w), w, previewHeight),
		normalizePane(m.viewMinibuffer(), w, 1),
	}
	return strings.Join(parts, "\n")
}

func (m appModel) viewPreview(width int) string {
	row, ok := m.selectedRow()
	if !ok {
		return ""
	}
	head := lipgloss.NewStyle().Bold(true).Render(oneLine(row.Subject)) +
		"  " + styleStatus(row.Status).Render(row.Status)
	meta := styleMuted().Render(fmt.Sprintf("created %s  updated %s", emptyAsDash(row.Created), emptyAsDash(row.Updated)))

	lines := []string{head, meta}
	if desc := renderMarkdown(row.Description, width-2); desc != "" {
		lines = append(lines, desc)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewMinibuffer() string {
	if text := m.loadingText(); text != "" {
		return styleMuted().Render(text + "…")
	}
	if m.toast != "" {
		st := lipgloss.NewStyle()
		switch m.toastKind {
		case toastSuccess:
			st = st.Foreground(colorSuccessFg)
		case toastError:
			st = st.Foreground(colorErrorFg).Bold(true)
		}
		return st.Render(m.toast)
	}
	return m.help.View(m.keys)
}

// loadingText returns the newest pending loading message.
func (m appModel) loadingText() string {
	var (
		newest int64
		text   string
	)
	for id, t := range m.loading {
		if id > newest {
			newest, text = id, t
		}
	}
	return text
}

func (m appModel) viewForm() string {
	bodyW := modalBodyWidth(m.width)

	title := "New ticket"
	if m.formReq.Initial != nil {
		title = "Edit ticket"
		if seq := m.formReq.Initial.Seq; seq > 0 {
			title = fmt.Sprintf("Edit ticket #%d", seq)
		}
	}

	lines := []string{
		renderFormField(bodyW, "Subject", m.formSubject.View(), m.formFocus == fieldSubject),
		"",
		renderFormField(bodyW, "Status", m.formStatus.View(), m.formFocus == fieldStatus),
		"",
		renderFieldLabel("Description", m.formFocus == fieldDescription),
		m.formDesc.View(),
		"",
	}
	switch {
	case m.formSaving:
		lines = append(lines, styleMuted().Render("Saving…"))
	case m.formErr != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(colorErrorFg).Render(m.formErr))
	default:
		lines = append(lines, styleMuted().Width(bodyW).Render("tab: next field   ctrl+s: save   esc: cancel"))
	}
	return renderModalBox(m.width, title, strings.Join(lines, "\n"))
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func itoa(n int) string { return strconv.Itoa(n) }
