package model

import (
	"encoding/json"
	"strings"
	"time"
)

// RawTicket is the ticket record as the backend API returns it.
type RawTicket struct {
	ID              string          `json:"id"`
	Subject         string          `json:"subject"`
	DescriptionText string          `json:"description_text"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
	Comments        json.RawMessage `json:"comments,omitempty"`
}

// Row is the display projection of a ticket used by the ticket table.
type Row struct {
	Seq         int             `json:"#"`
	ID          string          `json:"id"`
	Subject     string          `json:"subject"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
	Comments    json.RawMessage `json:"comments"`
}

// TicketInput is the write shape for creating or updating a ticket.
type TicketInput struct {
	Subject         string `json:"subject"`
	DescriptionText string `json:"description_text"`
	Status          string `json:"status"`
}

// TimestampLayout is the fixed textual timestamp format used for display.
const TimestampLayout = "2006-01-02T15:04:05Z"

var timestampInputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// FormatTimestamp normalizes a backend timestamp to TimestampLayout in UTC.
// Empty input stays empty; input that cannot be parsed is returned unchanged.
func FormatTimestamp(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range timestampInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(TimestampLayout)
		}
	}
	return s
}

// RowFromRaw maps a backend record to a display row with the given sequence number.
func RowFromRaw(t RawTicket, seq int) Row {
	return Row{
		Seq:         seq,
		ID:          t.ID,
		Subject:     t.Subject,
		Description: t.DescriptionText,
		Status:      t.Status,
		Created:     FormatTimestamp(t.CreatedAt),
		Updated:     FormatTimestamp(t.UpdatedAt),
		Comments:    t.Comments,
	}
}

// RowsFromRaw maps records in order, numbering them 1..N.
func RowsFromRaw(ts []RawTicket) []Row {
	out := make([]Row, 0, len(ts))
	for i, t := range ts {
		out = append(out, RowFromRaw(t, i+1))
	}
	return out
}

// InputFromRow is the write-mapping used by the edit form (description -> description_text).
func InputFromRow(r Row) TicketInput {
	return TicketInput{
		Subject:         r.Subject,
		DescriptionText: r.Description,
		Status:          r.Status,
	}
}

// EditCopy returns the row as it pre-populates an edit form, with dates normalized.
func (r Row) EditCopy() Row {
	r.Created = FormatTimestamp(r.Created)
	r.Updated = FormatTimestamp(r.Updated)
	return r
}
