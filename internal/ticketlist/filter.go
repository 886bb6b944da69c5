package ticketlist

import (
	"strings"

	"ticketdesk/internal/model"
)

// SearchFields are the row fields the free-text filter looks at.
var SearchFields = [...]func(model.Row) string{
	func(r model.Row) string { return r.Subject },
	func(r model.Row) string { return r.Description },
}

// FilterRows returns the rows whose subject or description contains query,
// case-insensitively, in their original order. It never modifies rows, and an
// empty query returns rows as is.
func FilterRows(rows []model.Row, query string) []model.Row {
	if query == "" {
		return rows
	}
	q := strings.ToLower(query)
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if rowMatches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// rowMatches expects an already lowercased query.
func rowMatches(r model.Row, q string) bool {
	for _, field := range SearchFields {
		if strings.Contains(strings.ToLower(field(r)), q) {
			return true
		}
	}
	return false
}
