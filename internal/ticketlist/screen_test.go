package ticketlist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"ticketdesk/internal/model"

	"github.com/rs/zerolog"
)

func TestLoad_NumbersRowsInFetchOrder(t *testing.T) {
	t.Parallel()

	svc := &fakeService{lists: [][]model.RawTicket{{
		raw("t9", "Zebra", ""),
		raw("t1", "Apple", ""),
		raw("t5", "Mango", ""),
	}}}
	s, n := newTestScreen(svc, nil, nil)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	rows := s.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	wantIDs := []string{"t9", "t1", "t5"}
	for i, r := range rows {
		if r.Seq != i+1 || r.ID != wantIDs[i] {
			t.Fatalf("row %d: got seq=%d id=%s", i, r.Seq, r.ID)
		}
	}
	if n.loading != 1 || n.dismissed != 1 {
		t.Fatalf("expected one loading notification dismissed once; loading=%d dismissed=%d", n.loading, n.dismissed)
	}

	q := svc.queries[0]
	if q.Offset != 0 || q.Limit != LoadLimit || q.SortField != "subject" || q.SortDescending || q.Search != "" {
		t.Fatalf("unexpected list query: %+v", q)
	}
}

func TestLoad_FailureKeepsRowsAndDismissesLoading(t *testing.T) {
	t.Parallel()

	svc := &fakeService{lists: [][]model.RawTicket{{raw("t1", "A", "")}}}
	s, n := newTestScreen(svc, nil, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	svc.listErr = errBoom
	err := s.Load(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped errBoom, got %v", err)
	}
	if got := s.Rows(); len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected previous rows kept, got %+v", got)
	}
	if n.loading != 2 || n.dismissed != 2 {
		t.Fatalf("expected loading dismissed on failure; loading=%d dismissed=%d", n.loading, n.dismissed)
	}
	if len(n.errors) != 1 {
		t.Fatalf("expected one error notification, got %v", n.errors)
	}
}

func TestLoad_CustomLimit(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	s := New(Deps{Service: svc, Notifier: &fakeNotifier{}, Logger: zerolog.Nop(), LoadLimit: 50})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if svc.queries[0].Limit != 50 {
		t.Fatalf("expected limit 50, got %d", svc.queries[0].Limit)
	}
}

func TestAdd_AppendsWithNextSequenceNumber(t *testing.T) {
	t.Parallel()

	svc := &fakeService{lists: [][]model.RawTicket{{raw("t1", "A", ""), raw("t2", "B", "")}}}
	forms := &fakeForms{result: Submitted(raw("t3", "New", "fresh"))}
	s, n := newTestScreen(svc, forms, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	rows := s.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	last := rows[2]
	if last.Seq != 3 || last.ID != "t3" || last.Description != "fresh" {
		t.Fatalf("unexpected appended row: %+v", last)
	}
	if rows[0].Seq != 1 || rows[1].Seq != 2 {
		t.Fatalf("existing rows renumbered: %+v", rows)
	}
	if len(n.successes) != 1 {
		t.Fatalf("expected a success notification, got %v", n.successes)
	}
	if len(svc.queries) != 1 {
		t.Fatalf("create must not reload; list calls=%d", len(svc.queries))
	}
	if forms.stateDuring != StateCreating {
		t.Fatalf("expected creating while form open, got %v", forms.stateDuring)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle after add, got %v", s.State())
	}
	if req := forms.requests[0]; req.Mode != FormCreate || req.Initial != nil {
		t.Fatalf("expected blank create form, got %+v", req)
	}
}

func TestAdd_CancelledLeavesListAlone(t *testing.T) {
	t.Parallel()

	s, n := newTestScreen(&fakeService{}, &fakeForms{result: Cancelled()}, nil)
	if err := s.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(s.Rows()) != 0 || len(n.successes) != 0 {
		t.Fatalf("cancelled create must not change anything")
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %v", s.State())
	}
}

func TestAdd_FormErrorReturnsToIdle(t *testing.T) {
	t.Parallel()

	s, _ := newTestScreen(&fakeService{}, &fakeForms{err: errBoom}, nil)
	if err := s.Add(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %v", s.State())
	}
}

func TestAdd_BusyWhileFormOpen(t *testing.T) {
	t.Parallel()

	s, _ := newTestScreen(&fakeService{}, nil, nil)
	s.setState(StateEditing)
	if err := s.Add(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := s.Edit(context.Background(), model.Row{ID: "x"}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestEdit_SubmittedReloads(t *testing.T) {
	t.Parallel()

	svc := &fakeService{lists: [][]model.RawTicket{
		{raw("t1", "Old", "")},
		{raw("t1", "Renamed", ""), raw("t2", "Other", "")},
	}}
	forms := &fakeForms{result: Submitted(raw("t1", "Renamed", ""))}
	s, _ := newTestScreen(svc, forms, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	row := s.Rows()[0]
	row.Created = "2023-01-01 00:00:00"
	if err := s.Edit(context.Background(), row); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if len(svc.queries) != 2 {
		t.Fatalf("expected a reload after edit, list calls=%d", len(svc.queries))
	}
	rows := s.Rows()
	if len(rows) != 2 || rows[0].Subject != "Renamed" || rows[1].Seq != 2 {
		t.Fatalf("expected reloaded rows, got %+v", rows)
	}

	req := forms.requests[0]
	if req.Mode != FormEdit || req.Initial == nil || req.Initial.ID != "t1" {
		t.Fatalf("expected edit form for t1, got %+v", req)
	}
	if req.Initial.Created != "2023-01-01T00:00:00Z" {
		t.Fatalf("expected normalized created date, got %q", req.Initial.Created)
	}
	if forms.stateDuring != StateEditing || s.State() != StateIdle {
		t.Fatalf("unexpected states: during=%v after=%v", forms.stateDuring, s.State())
	}
}

func TestEdit_CancelledDoesNotReload(t *testing.T) {
	t.Parallel()

	svc := &fakeService{lists: [][]model.RawTicket{{raw("t1", "A", "")}}}
	s, _ := newTestScreen(svc, &fakeForms{result: Cancelled()}, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Edit(context.Background(), s.Rows()[0]); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if len(svc.queries) != 1 {
		t.Fatalf("cancelled edit must not reload, list calls=%d", len(svc.queries))
	}
}

func TestDelete_ConfirmedDeletesThenReloads(t *testing.T) {
	t.Parallel()

	svc := &fakeService{lists: [][]model.RawTicket{
		{raw("t1", "A", ""), raw("t2", "B <x>", ""), raw("t3", "C", "")},
		{raw("t1", "A", ""), raw("t3", "C", "")},
	}}
	conf := &fakeConfirmer{answer: true}
	s, _ := newTestScreen(svc, nil, conf)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Delete(context.Background(), s.Rows()[1]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "t2" {
		t.Fatalf("expected delete of t2, got %v", svc.deleted)
	}
	rows := s.Rows()
	if len(rows) != 2 || rows[1].ID != "t3" || rows[1].Seq != 2 {
		t.Fatalf("expected renumbered reload, got %+v", rows)
	}
	if len(conf.asked) != 1 || !strings.Contains(conf.asked[0].HTML, "B &lt;x&gt;") {
		t.Fatalf("expected escaped subject in confirmation, got %+v", conf.asked)
	}
}

func TestDelete_DeclinedDoesNothing(t *testing.T) {
	t.Parallel()

	svc := &fakeService{lists: [][]model.RawTicket{{raw("t1", "A", "")}}}
	s, _ := newTestScreen(svc, nil, &fakeConfirmer{answer: false})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Delete(context.Background(), s.Rows()[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(svc.deleted) != 0 || len(svc.queries) != 1 {
		t.Fatalf("declined delete must not call the service; deleted=%v lists=%d", svc.deleted, len(svc.queries))
	}
}

func TestDelete_FailureSkipsReload(t *testing.T) {
	t.Parallel()

	svc := &fakeService{lists: [][]model.RawTicket{{raw("t1", "A", "")}}, delErr: errBoom}
	s, n := newTestScreen(svc, nil, &fakeConfirmer{answer: true})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Delete(context.Background(), s.Rows()[0]); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if len(svc.queries) != 1 || len(s.Rows()) != 1 || len(n.errors) != 1 {
		t.Fatalf("unexpected state after failed delete: lists=%d rows=%d errors=%v", len(svc.queries), len(s.Rows()), n.errors)
	}
}

func TestVisible_FiltersCurrentRows(t *testing.T) {
	t.Parallel()

	svc := &fakeService{lists: [][]model.RawTicket{{raw("t1", "Login", ""), raw("t2", "Printer", "login page")}}}
	s, _ := newTestScreen(svc, nil, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.Visible("LOGIN"); len(got) != 2 {
		t.Fatalf("expected both rows, got %+v", got)
	}
	if got := s.Visible("print"); len(got) != 1 || got[0].ID != "t2" {
		t.Fatalf("expected t2, got %+v", got)
	}
}

// gatedService blocks the first List call until release is closed.
type gatedService struct {
	fakeService
	calls   chan int
	release chan struct{}

	mu sync.Mutex
	n  int
}

func (g *gatedService) List(ctx context.Context, q ListQuery) ([]model.RawTicket, error) {
	g.mu.Lock()
	g.n++
	n := g.n
	g.mu.Unlock()
	g.calls <- n
	if n == 1 {
		<-g.release
		return []model.RawTicket{raw("slow", "From first load", "")}, nil
	}
	return []model.RawTicket{raw("fast", "From second load", "")}, nil
}

func TestLoad_OverlappingLastToFinishWins(t *testing.T) {
	t.Parallel()

	svc := &gatedService{calls: make(chan int, 2), release: make(chan struct{})}
	s := New(Deps{Service: svc, Notifier: &fakeNotifier{}, Logger: zerolog.Nop()})

	first := make(chan error, 1)
	go func() { first <- s.Load(context.Background()) }()
	<-svc.calls

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	<-svc.calls
	if rows := s.Rows(); len(rows) != 1 || rows[0].ID != "fast" {
		t.Fatalf("expected second load rows, got %+v", rows)
	}

	close(svc.release)
	if err := <-first; err != nil {
		t.Fatalf("first Load: %v", err)
	}
	// The first load is not cancelled; finishing last, it replaces the rows.
	if rows := s.Rows(); len(rows) != 1 || rows[0].ID != "slow" || rows[0].Seq != 1 {
		t.Fatalf("expected slower first load to win, got %+v", rows)
	}
}
