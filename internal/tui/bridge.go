package tui

import (
	"context"
	"sync"
	"sync/atomic"

	"ticketdesk/internal/ticketlist"

	tea "github.com/charmbracelet/bubbletea"
)

// bridge implements the screen's Notifier, Confirmer and Forms on top of the
// bubbletea loop. Screen operations run in tea.Cmd goroutines; the bridge posts
// a message to the loop and, for prompts, waits for the loop to answer.
type bridge struct {
	send      func(tea.Msg)
	loadingID atomic.Int64
}

func (b *bridge) Loading(msg string) func() {
	id := b.loadingID.Add(1)
	b.send(loadingMsg{id: id, text: msg})
	var once sync.Once
	return func() {
		once.Do(func() { b.send(loadingDoneMsg{id: id}) })
	}
}

func (b *bridge) Success(msg string) { b.send(toastMsg{kind: toastSuccess, text: msg}) }

func (b *bridge) Error(msg string) { b.send(toastMsg{kind: toastError, text: msg}) }

func (b *bridge) Confirm(ctx context.Context, c ticketlist.Confirmation) (bool, error) {
	reply := make(chan bool, 1)
	b.send(confirmMsg{conf: c, reply: reply})
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (b *bridge) Open(ctx context.Context, req ticketlist.FormRequest) (ticketlist.FormResult, error) {
	reply := make(chan ticketlist.FormResult, 1)
	b.send(openFormMsg{req: req, reply: reply})
	select {
	case res := <-reply:
		return res, nil
	case <-ctx.Done():
		return ticketlist.Cancelled(), ctx.Err()
	}
}

var (
	_ ticketlist.Notifier  = (*bridge)(nil)
	_ ticketlist.Confirmer = (*bridge)(nil)
	_ ticketlist.Forms     = (*bridge)(nil)
)
