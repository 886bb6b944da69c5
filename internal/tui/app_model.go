package tui

import (
	"context"

	"ticketdesk/internal/model"
	"ticketdesk/internal/ticketlist"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Backend is the ticket API as the TUI needs it: the screen's Service plus the
// writes the create/edit form performs.
type Backend interface {
	ticketlist.Service
	Create(ctx context.Context, in model.TicketInput) (model.RawTicket, error)
	Update(ctx context.Context, id string, in model.TicketInput) (model.RawTicket, error)
}

type Options struct {
	Backend     Backend
	RowsPerPage int
	LoadLimit   int
	Logger      zerolog.Logger
}

const defaultRowsPerPage = 20

type appModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	screen  *ticketlist.Screen
	backend Backend
	log     zerolog.Logger

	width  int
	height int

	keys  keyMap
	help  help.Model
	table table.Model
	pager paginator.Model

	rowsPerPage int
	// visible is the filtered row set; the table shows one page of it.
	visible []model.Row

	filter    textinput.Model
	filtering bool

	modal modalKind

	formReq     ticketlist.FormRequest
	formReply   chan<- ticketlist.FormResult
	formSubject textinput.Model
	formStatus  textinput.Model
	formDesc    textarea.Model
	formFocus   formField
	formSaving  bool
	formErr     string

	confirm      ticketlist.Confirmation
	confirmReply chan<- bool
	confirmFocus confirmModalFocus

	loading   map[int64]string
	toast     string
	toastKind toastKind
	toastSeq  int
}

func newAppModel(ctx context.Context, cancel context.CancelFunc, opts Options, send func(tea.Msg)) appModel {
	perPage := opts.RowsPerPage
	if perPage <= 0 {
		perPage = defaultRowsPerPage
	}

	b := &bridge{send: send}
	m := appModel{
		ctx:     ctx,
		cancel:  cancel,
		backend: opts.Backend,
		log:     opts.Logger,
		screen: ticketlist.New(ticketlist.Deps{
			Service:   opts.Backend,
			Notifier:  b,
			Confirmer: b,
			Forms:     b,
			Logger:    opts.Logger,
			LoadLimit: opts.LoadLimit,
		}),
		keys:        defaultKeyMap(),
		help:        help.New(),
		rowsPerPage: perPage,
		loading:     map[int64]string{},
	}

	m.table = table.New(
		table.WithColumns(tableColumns(80)),
		table.WithFocused(true),
		table.WithHeight(perPage+1),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)
	m.table.SetStyles(ts)

	m.pager = paginator.New()
	m.pager.Type = paginator.Arabic
	m.pager.ArabicFormat = "page %d/%d"
	m.pager.PerPage = perPage

	m.filter = textinput.New()
	m.filter.Prompt = "Filter: "
	m.filter.Placeholder = "subject or description"
	m.filter.CharLimit = 200

	m.formSubject = textinput.New()
	m.formSubject.Placeholder = "Short summary"
	m.formSubject.CharLimit = 200
	m.formStatus = textinput.New()
	m.formStatus.Placeholder = "open"
	m.formStatus.CharLimit = 40
	m.formDesc = textarea.New()
	m.formDesc.Placeholder = "Describe the problem (markdown)"
	m.formDesc.ShowLineNumbers = false
	m.formDesc.SetHeight(6)

	m.refreshRows()
	return m
}

func tableColumns(width int) []table.Column {
	const (
		seqW     = 4
		statusW  = 12
		dateW    = 20
		paddingW = 10 // 5 columns, 1 cell of padding each side
	)
	subjectW := width - seqW - statusW - 2*dateW - paddingW
	if subjectW < 12 {
		subjectW = 12
	}
	return []table.Column{
		{Title: "#", Width: seqW},
		{Title: "Subject", Width: subjectW},
		{Title: "Status", Width: statusW},
		{Title: "Created", Width: dateW},
		{Title: "Updated", Width: dateW},
	}
}

// refreshRows recomputes the filtered view from the screen's rows.
func (m *appModel) refreshRows() {
	m.visible = m.screen.Visible(m.filter.Value())

	pages := (len(m.visible) + m.pager.PerPage - 1) / m.pager.PerPage
	if pages < 1 {
		pages = 1
	}
	m.pager.TotalPages = pages
	if m.pager.Page >= pages {
		m.pager.Page = pages - 1
	}
	m.syncTable()
}

// syncTable loads the current page into the table widget.
func (m *appModel) syncTable() {
	start, end := m.pager.GetSliceBounds(len(m.visible))
	rows := make([]table.Row, 0, end-start)
	for _, r := range m.visible[start:end] {
		rows = append(rows, table.Row{
			itoa(r.Seq),
			oneLine(r.Subject),
			r.Status,
			r.Created,
			r.Updated,
		})
	}
	m.table.SetRows(rows)
	switch c := m.table.Cursor(); {
	case c < 0:
		m.table.SetCursor(0)
	case c >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	}
}

// selectedRow maps the table cursor back to the row on the current page.
func (m appModel) selectedRow() (model.Row, bool) {
	c := m.table.Cursor()
	if c < 0 {
		return model.Row{}, false
	}
	start, end := m.pager.GetSliceBounds(len(m.visible))
	idx := start + c
	if idx >= end {
		return model.Row{}, false
	}
	return m.visible[idx], true
}

func (m *appModel) resize() {
	m.help.Width = m.width
	m.table.SetColumns(tableColumns(m.width))
	m.table.SetWidth(m.width)

	// header, filter, pager, preview (6), minibuffer, spacing
	avail := m.height - 12
	h := m.rowsPerPage + 1
	if avail < h {
		h = avail
	}
	if h < 3 {
		h = 3
	}
	m.table.SetHeight(h)

	bodyW := modalBodyWidth(m.width)
	m.formSubject.Width = bodyW - 3
	m.formStatus.Width = bodyW - 3
	m.formDesc.SetWidth(bodyW)
}
