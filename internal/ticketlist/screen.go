package ticketlist

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"ticketdesk/internal/model"

	"github.com/rs/zerolog"
)

// LoadLimit is the page size used to fetch "all" tickets in one call.
const LoadLimit = 10000

// ErrBusy is returned when a form is requested while another one is open.
var ErrBusy = errors.New("another ticket form is already open")

type State int

const (
	StateIdle State = iota
	StateCreating
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateCreating:
		return "creating"
	case StateEditing:
		return "editing"
	default:
		return "idle"
	}
}

// Deps are the collaborators a Screen is built with.
type Deps struct {
	Service   Service
	Notifier  Notifier
	Confirmer Confirmer
	Forms     Forms
	Logger    zerolog.Logger

	// LoadLimit overrides the fetch page size (0 => LoadLimit).
	LoadLimit int
}

// Screen holds the ticket rows and drives the load/filter/edit flows.
//
// Operations block on remote calls and on forms/confirmations, so hosts run them
// off their event loop. Rows and State are safe to read concurrently.
type Screen struct {
	svc     Service
	notify  Notifier
	confirm Confirmer
	forms   Forms
	log     zerolog.Logger
	limit   int

	mu    sync.Mutex
	rows  []model.Row
	state State
}

func New(d Deps) *Screen {
	limit := d.LoadLimit
	if limit <= 0 {
		limit = LoadLimit
	}
	return &Screen{
		svc:     d.Service,
		notify:  d.Notifier,
		confirm: d.Confirmer,
		forms:   d.Forms,
		log:     d.Logger,
		limit:   limit,
	}
}

// Rows returns a snapshot of the current row list.
func (s *Screen) Rows() []model.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Visible returns the rows matching query.
func (s *Screen) Visible(query string) []model.Row {
	return FilterRows(s.Rows(), query)
}

func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load fetches every ticket sorted by subject and replaces the row list.
//
// On failure the previous rows are kept. Overlapping loads are not cancelled;
// whichever completes last wins.
func (s *Screen) Load(ctx context.Context) error {
	dismiss := s.notify.Loading("Loading tickets...")
	raws, err := s.svc.List(ctx, ListQuery{
		Offset:    0,
		Limit:     s.limit,
		SortField: "subject",
	})
	dismiss()
	if err != nil {
		s.log.Error().Err(err).Msg("load tickets")
		s.notify.Error(fmt.Sprintf("Could not load tickets: %v", err))
		return fmt.Errorf("load tickets: %w", err)
	}

	rows := model.RowsFromRaw(raws)
	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
	s.log.Debug().Int("rows", len(rows)).Msg("tickets loaded")
	return nil
}

// Add opens a blank form and appends the created ticket as the next row.
func (s *Screen) Add(ctx context.Context) error {
	if err := s.enter(StateCreating); err != nil {
		return err
	}
	defer s.setState(StateIdle)

	res, err := s.forms.Open(ctx, FormRequest{Mode: FormCreate})
	if err != nil {
		return fmt.Errorf("create form: %w", err)
	}
	if res.Outcome != FormSubmitted {
		return nil
	}

	s.mu.Lock()
	row := model.RowFromRaw(res.Ticket, len(s.rows)+1)
	s.rows = append(s.rows, row)
	s.mu.Unlock()

	s.log.Info().Str("id", row.ID).Msg("ticket created")
	s.notify.Success("Ticket created successfully")
	return nil
}

// Edit opens the form pre-populated from row. A submitted edit reloads the
// whole list; the edited record itself is not patched in.
func (s *Screen) Edit(ctx context.Context, row model.Row) error {
	if err := s.enter(StateEditing); err != nil {
		return err
	}

	initial := row.EditCopy()
	res, err := s.forms.Open(ctx, FormRequest{Mode: FormEdit, Initial: &initial})
	s.setState(StateIdle)
	if err != nil {
		return fmt.Errorf("edit form: %w", err)
	}
	if res.Outcome != FormSubmitted {
		return nil
	}

	s.log.Info().Str("id", row.ID).Msg("ticket updated")
	return s.Load(ctx)
}

// Delete asks for confirmation, deletes the ticket remotely and reloads.
// Nothing is removed locally before the backend confirms.
func (s *Screen) Delete(ctx context.Context, row model.Row) error {
	ok, err := s.confirm.Confirm(ctx, Confirmation{
		Title:  "Delete ticket",
		HTML:   deleteConfirmationHTML(row),
		OK:     "Delete",
		Cancel: "Cancel",
	})
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return nil
	}

	if err := s.svc.Delete(ctx, row.ID); err != nil {
		s.log.Error().Err(err).Str("id", row.ID).Msg("delete ticket")
		s.notify.Error(fmt.Sprintf("Could not delete ticket: %v", err))
		return fmt.Errorf("delete ticket %s: %w", row.ID, err)
	}
	s.log.Info().Str("id", row.ID).Msg("ticket deleted")
	return s.Load(ctx)
}

func deleteConfirmationHTML(row model.Row) string {
	subject := strings.TrimSpace(row.Subject)
	if subject == "" {
		subject = row.ID
	}
	return fmt.Sprintf("Delete ticket <strong>%s</strong>?<br>This cannot be undone.", html.EscapeString(subject))
}

func (s *Screen) enter(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrBusy
	}
	s.state = next
	return nil
}

func (s *Screen) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
