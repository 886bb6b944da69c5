package tui

import (
	"ticketdesk/internal/model"
	"ticketdesk/internal/ticketlist"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalForm
	modalConfirm
)

type formField int

const (
	fieldSubject formField = iota
	fieldStatus
	fieldDescription
	formFieldCount
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

// opDoneMsg reports that a screen operation (load/add/edit/delete) returned.
type opDoneMsg struct {
	op  string
	err error
}

type loadingMsg struct {
	id   int64
	text string
}

type loadingDoneMsg struct{ id int64 }

type toastMsg struct {
	kind toastKind
	text string
}

type toastExpiredMsg struct{ seq int }

// openFormMsg asks the UI loop to show the ticket form; the result goes to reply.
type openFormMsg struct {
	req   ticketlist.FormRequest
	reply chan<- ticketlist.FormResult
}

// confirmMsg asks the UI loop to show a confirmation; the answer goes to reply.
type confirmMsg struct {
	conf  ticketlist.Confirmation
	reply chan<- bool
}

type formSavedMsg struct {
	ticket model.RawTicket
	err    error
}
