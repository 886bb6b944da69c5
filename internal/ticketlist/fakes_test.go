package ticketlist

import (
	"context"
	"errors"
	"sync"

	"ticketdesk/internal/model"

	"github.com/rs/zerolog"
)

type fakeService struct {
	mu sync.Mutex

	// lists are returned by successive List calls; the last one repeats.
	lists   [][]model.RawTicket
	listErr error
	delErr  error

	queries []ListQuery
	deleted []string
}

func (f *fakeService) List(ctx context.Context, q ListQuery) ([]model.RawTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.lists) == 0 {
		return nil, nil
	}
	out := f.lists[0]
	if len(f.lists) > 1 {
		f.lists = f.lists[1:]
	}
	return out, nil
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.delErr
}

type fakeNotifier struct {
	mu        sync.Mutex
	loading   int
	dismissed int
	successes []string
	errors    []string
}

func (n *fakeNotifier) Loading(msg string) func() {
	n.mu.Lock()
	n.loading++
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		n.dismissed++
		n.mu.Unlock()
	}
}

func (n *fakeNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *fakeNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

type fakeConfirmer struct {
	answer bool
	asked  []Confirmation
}

func (c *fakeConfirmer) Confirm(ctx context.Context, conf Confirmation) (bool, error) {
	c.asked = append(c.asked, conf)
	return c.answer, nil
}

type fakeForms struct {
	result   FormResult
	err      error
	requests []FormRequest
	// stateDuring captures the screen state while the form is open.
	screen      *Screen
	stateDuring State
}

func (f *fakeForms) Open(ctx context.Context, req FormRequest) (FormResult, error) {
	f.requests = append(f.requests, req)
	if f.screen != nil {
		f.stateDuring = f.screen.State()
	}
	return f.result, f.err
}

var errBoom = errors.New("boom")

func newTestScreen(svc *fakeService, forms *fakeForms, conf *fakeConfirmer) (*Screen, *fakeNotifier) {
	n := &fakeNotifier{}
	if forms == nil {
		forms = &fakeForms{}
	}
	if conf == nil {
		conf = &fakeConfirmer{}
	}
	s := New(Deps{
		Service:   svc,
		Notifier:  n,
		Confirmer: conf,
		Forms:     forms,
		Logger:    zerolog.Nop(),
	})
	forms.screen = s
	return s, n
}

func raw(id, subject, desc string) model.RawTicket {
	return model.RawTicket{
		ID:              id,
		Subject:         subject,
		DescriptionText: desc,
		Status:          "open",
		CreatedAt:       "2023-01-01T00:00:00Z",
		UpdatedAt:       "2023-01-02T00:00:00Z",
	}
}
