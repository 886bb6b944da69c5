package devapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ticketdesk/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("ticket not found")

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id               TEXT PRIMARY KEY,
	subject          TEXT NOT NULL,
	description_text TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'open',
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL,
	comments         TEXT NOT NULL DEFAULT '[]'
);`

// sortColumns whitelists the sortable columns (values are interpolated into SQL).
var sortColumns = map[string]string{
	"subject":    "subject",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// Store keeps tickets in a local sqlite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func OpenStore(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	// busy_timeout helps avoid "database is locked" when another process has the file open.
	for _, p := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA busy_timeout=5000;"} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

type ListParams struct {
	Offset int
	Limit  int
	Sort   string
	Desc   bool
	Search string
}

func (s *Store) List(ctx context.Context, p ListParams) ([]model.RawTicket, error) {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = 50
	}

	col, ok := sortColumns[p.Sort]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if p.Desc {
		dir = "DESC"
	}

	args := []any{}
	where := ""
	if q := strings.TrimSpace(p.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		where = "WHERE lower(subject) LIKE ? OR lower(description_text) LIKE ?"
		args = append(args, like, like)
	}
	args = append(args, p.Limit, p.Offset)

	query := `SELECT id, subject, description_text, status, created_at, updated_at, comments
		FROM tickets ` + where + `
		ORDER BY ` + col + ` COLLATE NOCASE ` + dir + `, id ASC
		LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RawTicket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTicket(sc scanner) (model.RawTicket, error) {
	var t model.RawTicket
	var comments string
	if err := sc.Scan(&t.ID, &t.Subject, &t.DescriptionText, &t.Status, &t.CreatedAt, &t.UpdatedAt, &comments); err != nil {
		return model.RawTicket{}, err
	}
	t.Comments = json.RawMessage(comments)
	return t, nil
}

func (s *Store) Get(ctx context.Context, id string) (model.RawTicket, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, subject, description_text, status, created_at, updated_at, comments
		FROM tickets WHERE id = ?`, id)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RawTicket{}, ErrNotFound
	}
	return t, err
}

func (s *Store) Create(ctx context.Context, in model.TicketInput) (model.RawTicket, error) {
	in = normalizeInput(in)
	now := s.now().UTC().Format(time.RFC3339)
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO tickets (id, subject, description_text, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`, id, in.Subject, in.DescriptionText, in.Status, now, now)
	if err != nil {
		return model.RawTicket{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id string, in model.TicketInput) (model.RawTicket, error) {
	in = normalizeInput(in)
	now := s.now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `UPDATE tickets SET subject = ?, description_text = ?, status = ?, updated_at = ?
		WHERE id = ?`, in.Subject, in.DescriptionText, in.Status, now, id)
	if err != nil {
		return model.RawTicket{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.RawTicket{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeInput(in model.TicketInput) model.TicketInput {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Status = strings.TrimSpace(in.Status)
	if in.Status == "" {
		in.Status = "open"
	}
	return in
}
