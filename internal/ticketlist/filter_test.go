package ticketlist

import (
	"reflect"
	"testing"

	"ticketdesk/internal/model"
)

func TestFilterRows(t *testing.T) {
	t.Parallel()

	rows := []model.Row{
		{Seq: 1, ID: "a", Subject: "Login issue", Description: "Cannot log in"},
		{Seq: 2, ID: "b", Subject: "Printer", Description: "Paper jam on floor 2"},
		{Seq: 3, ID: "c", Subject: "VPN", Description: "login drops after an hour"},
		{Seq: 4, ID: "d", Subject: "Laptop", Description: "Battery"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "matches subject or description", query: "login", want: []string{"a", "c"}},
		{name: "upper-case query", query: "LOGIN", want: []string{"a", "c"}},
		{name: "description only", query: "jam", want: []string{"b"}},
		{name: "no match", query: "keyboard", want: []string{}},
		{name: "keeps order", query: "a", want: []string{"a", "b", "c", "d"}},
		{name: "keeps order of a subset", query: "r", want: []string{"b", "c", "d"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := []string{}
			for _, r := range FilterRows(rows, tt.query) {
				got = append(got, r.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterRows(%q): got %v want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterRows_EmptyQueryReturnsAll(t *testing.T) {
	t.Parallel()

	rows := []model.Row{{ID: "a"}, {ID: "b"}}
	got := FilterRows(rows, "")
	if len(got) != len(rows) || &got[0] != &rows[0] {
		t.Fatalf("expected the same rows back for an empty query")
	}
}

func TestFilterRows_CaseInsensitiveBothWays(t *testing.T) {
	t.Parallel()

	if got := FilterRows([]model.Row{{Subject: "Foo"}}, "foo"); len(got) != 1 {
		t.Fatalf("expected Foo to match foo")
	}
	if got := FilterRows([]model.Row{{Subject: "foo"}}, "FOO"); len(got) != 1 {
		t.Fatalf("expected foo to match FOO")
	}
}

func TestFilterRows_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	rows := []model.Row{{ID: "a", Subject: "x"}, {ID: "b", Subject: "y"}, {ID: "c", Subject: "x"}}
	before := append([]model.Row(nil), rows...)
	_ = FilterRows(rows, "x")
	if !reflect.DeepEqual(rows, before) {
		t.Fatalf("input mutated: %v", rows)
	}
}

func TestFilterRows_ResultIsSubsequence(t *testing.T) {
	t.Parallel()

	rows := []model.Row{
		{Seq: 1, Subject: "alpha"}, {Seq: 2, Subject: "beta"}, {Seq: 3, Subject: "alphabet"},
		{Seq: 4, Description: "ALPHA"}, {Seq: 5, Subject: "gamma"},
	}
	for _, q := range []string{"", "a", "alpha", "ph", "zzz", "BET"} {
		got := FilterRows(rows, q)
		j := 0
		for _, r := range got {
			for j < len(rows) && rows[j].Seq != r.Seq {
				j++
			}
			if j == len(rows) {
				t.Fatalf("query %q: result %v is not a subsequence", q, got)
			}
			j++
		}
	}
}
