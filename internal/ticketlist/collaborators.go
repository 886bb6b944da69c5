package ticketlist

import (
	"context"

	"ticketdesk/internal/model"
)

// ListQuery is the page request sent to the ticket service.
type ListQuery struct {
	Offset         int
	Limit          int
	SortField      string
	SortDescending bool
	Search         string
}

// Service is the remote ticket API as the screen consumes it.
type Service interface {
	List(ctx context.Context, q ListQuery) ([]model.RawTicket, error)
	Delete(ctx context.Context, id string) error
}

// Notifier shows transient messages. Loading returns the function that dismisses it.
type Notifier interface {
	Loading(msg string) (dismiss func())
	Success(msg string)
	Error(msg string)
}

// Confirmation describes a confirm prompt. HTML may carry simple inline markup.
type Confirmation struct {
	Title  string
	HTML   string
	OK     string
	Cancel string
}

// Confirmer is a modal gate: it returns true only when the user accepted.
type Confirmer interface {
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

func (m FormMode) String() string {
	if m == FormEdit {
		return "edit"
	}
	return "create"
}

// FormRequest opens the create-or-edit form. Initial is nil for a blank form.
type FormRequest struct {
	Mode    FormMode
	Initial *model.Row
}

type FormOutcome int

const (
	FormCancelled FormOutcome = iota
	FormSubmitted
)

// FormResult is how a form resolves: Submitted carries the persisted record.
type FormResult struct {
	Outcome FormOutcome
	Ticket  model.RawTicket
}

func Submitted(t model.RawTicket) FormResult {
	return FormResult{Outcome: FormSubmitted, Ticket: t}
}

func Cancelled() FormResult {
	return FormResult{Outcome: FormCancelled}
}

// Forms opens a create-or-edit form and blocks until it resolves.
// Persisting the record is the form's job; the result carries what the backend stored.
type Forms interface {
	Open(ctx context.Context, req FormRequest) (FormResult, error)
}
