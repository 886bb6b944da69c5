package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"ticketdesk/internal/model"
	"ticketdesk/internal/ticketlist"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const toastTTL = 4 * time.Second

func (m appModel) Init() tea.Cmd {
	return m.runOp("load", m.screen.Load)
}

// runOp runs a screen operation off the UI loop. Operations that prompt block
// until the loop answers through the bridge.
func (m appModel) runOp(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case opDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			if errors.Is(msg.err, ticketlist.ErrBusy) {
				return m.showToast(toastInfo, "Finish the open form first")
			}
			m.log.Error().Err(msg.err).Str("op", msg.op).Msg("ticket operation failed")
		}
		m.refreshRows()
		return m, nil

	case loadingMsg:
		m.loading[msg.id] = msg.text
		return m, nil

	case loadingDoneMsg:
		delete(m.loading, msg.id)
		return m, nil

	case toastMsg:
		return m.showToast(msg.kind, msg.text)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case openFormMsg:
		return m.openForm(msg)

	case confirmMsg:
		return m.openConfirm(msg)

	case formSavedMsg:
		return m.finishFormSave(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancel()
			return m, tea.Quit
		}
		switch m.modal {
		case modalForm:
			return m.updateForm(msg)
		case modalConfirm:
			return m.updateConfirm(msg)
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}

	// Cursor blink and similar ticks go to whichever input has focus.
	var cmd tea.Cmd
	switch {
	case m.modal == modalForm:
		return m.updateFormInput(msg)
	case m.filtering:
		m.filter, cmd = m.filter.Update(msg)
	}
	return m, cmd
}

func (m appModel) showToast(kind toastKind, text string) (tea.Model, tea.Cmd) {
	m.toastSeq++
	m.toast = text
	m.toastKind = kind
	seq := m.toastSeq
	return m, tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.pager.Page = 0
			m.refreshRows()
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.Add):
		return m, m.runOp("add", m.screen.Add)

	case key.Matches(msg, m.keys.Edit):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		screen := m.screen
		return m, m.runOp("edit", func(ctx context.Context) error { return screen.Edit(ctx, row) })

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		screen := m.screen
		return m, m.runOp("delete", func(ctx context.Context) error { return screen.Delete(ctx, row) })

	case key.Matches(msg, m.keys.Reload):
		return m, m.runOp("load", m.screen.Load)

	case key.Matches(msg, m.keys.PrevPage):
		if m.pager.Page > 0 {
			m.pager.PrevPage()
			m.table.SetCursor(0)
			m.syncTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if !m.pager.OnLastPage() {
			m.pager.NextPage()
			m.table.SetCursor(0)
			m.syncTable()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m appModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		m.pager.Page = 0
		m.refreshRows()
		return m, nil
	case tea.KeyEnter:
		m.filter.Blur()
		m.filtering = false
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.pager.Page = 0
		m.table.SetCursor(0)
		m.refreshRows()
	}
	return m, cmd
}

func (m appModel) openForm(msg openFormMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		msg.reply <- ticketlist.Cancelled()
		return m, nil
	}
	m.modal = modalForm
	m.formReq = msg.req
	m.formReply = msg.reply
	m.formSaving = false
	m.formErr = ""
	m.formFocus = fieldSubject

	m.formSubject.SetValue("")
	m.formStatus.SetValue("open")
	m.formDesc.SetValue("")
	if r := msg.req.Initial; r != nil {
		m.formSubject.SetValue(r.Subject)
		m.formStatus.SetValue(r.Status)
		m.formDesc.SetValue(r.Description)
	}
	return m, m.focusFormField()
}

func (m *appModel) focusFormField() tea.Cmd {
	m.formSubject.Blur()
	m.formStatus.Blur()
	m.formDesc.Blur()
	switch m.formFocus {
	case fieldStatus:
		return m.formStatus.Focus()
	case fieldDescription:
		return m.formDesc.Focus()
	default:
		return m.formSubject.Focus()
	}
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		if m.formSaving {
			return m, nil
		}
		m.closeForm(ticketlist.Cancelled())
		return m, nil
	case "tab":
		m.formFocus = (m.formFocus + 1) % formFieldCount
		return m, m.focusFormField()
	case "shift+tab":
		m.formFocus = (m.formFocus + formFieldCount - 1) % formFieldCount
		return m, m.focusFormField()
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.formFocus != fieldDescription {
			m.formFocus++
			return m, m.focusFormField()
		}
	}
	return m.updateFormInput(msg)
}

func (m appModel) updateFormInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.formFocus {
	case fieldSubject:
		m.formSubject, cmd = m.formSubject.Update(msg)
	case fieldStatus:
		m.formStatus, cmd = m.formStatus.Update(msg)
	case fieldDescription:
		m.formDesc, cmd = m.formDesc.Update(msg)
	}
	return m, cmd
}

func (m appModel) formInput() model.TicketInput {
	return model.TicketInput{
		Subject:         strings.TrimSpace(m.formSubject.Value()),
		DescriptionText: strings.TrimSpace(m.formDesc.Value()),
		Status:          strings.TrimSpace(m.formStatus.Value()),
	}
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	if m.formSaving {
		return m, nil
	}
	in := m.formInput()
	if in.Subject == "" {
		m.formErr = "Subject is required"
		m.formFocus = fieldSubject
		return m, m.focusFormField()
	}
	m.formSaving = true
	m.formErr = ""

	ctx, backend, req := m.ctx, m.backend, m.formReq
	return m, func() tea.Msg {
		var (
			t   model.RawTicket
			err error
		)
		if req.Mode == ticketlist.FormEdit && req.Initial != nil {
			t, err = backend.Update(ctx, req.Initial.ID, in)
		} else {
			t, err = backend.Create(ctx, in)
		}
		return formSavedMsg{ticket: t, err: err}
	}
}

func (m appModel) finishFormSave(msg formSavedMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalForm {
		return m, nil
	}
	m.formSaving = false
	if msg.err != nil {
		m.log.Error().Err(msg.err).Str("mode", m.formReq.Mode.String()).Msg("save ticket")
		m.formErr = msg.err.Error()
		return m, nil
	}
	m.closeForm(ticketlist.Submitted(msg.ticket))
	return m, nil
}

func (m *appModel) closeForm(res ticketlist.FormResult) {
	if m.formReply != nil {
		m.formReply <- res
	}
	m.formReply = nil
	m.formReq = ticketlist.FormRequest{}
	m.formSubject.Blur()
	m.formStatus.Blur()
	m.formDesc.Blur()
	m.modal = modalNone
}

func (m appModel) openConfirm(msg confirmMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		msg.reply <- false
		return m, nil
	}
	m.modal = modalConfirm
	m.confirm = msg.conf
	m.confirmReply = msg.reply
	m.confirmFocus = confirmFocusCancel
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusCancel {
			m.confirmFocus = confirmFocusConfirm
		} else {
			m.confirmFocus = confirmFocusCancel
		}
	case "enter":
		m.answerConfirm(m.confirmFocus == confirmFocusConfirm)
	case "y", "Y":
		m.answerConfirm(true)
	case "n", "N", "esc", "ctrl+g":
		m.answerConfirm(false)
	}
	return m, nil
}

func (m *appModel) answerConfirm(ok bool) {
	if m.confirmReply != nil {
		m.confirmReply <- ok
	}
	m.confirmReply = nil
	m.confirm = ticketlist.Confirmation{}
	m.modal = modalNone
}
