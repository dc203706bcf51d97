package layoutstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

const schema = `
CREATE TABLE IF NOT EXISTS layouts (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	placements  TEXT NOT NULL DEFAULT '[]',
	elements    TEXT NOT NULL DEFAULT '[]',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);`

// SQLiteStore keeps layouts in a SQLite database, placements and elements as
// JSON text columns.
type SQLiteStore struct {
	db   *sql.DB
	opts Options
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string, opts Options) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("layoutstore: mkdir db dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("layoutstore: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("layoutstore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db, opts: opts.normalized()}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns every layout in creation order.
func (s *SQLiteStore) List(ctx context.Context) ([]builder.Layout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, placements, elements, created_at, updated_at FROM layouts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("layoutstore: list layouts: %w", err)
	}
	defer rows.Close()
	out := []builder.Layout{}
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("layoutstore: list layouts: %w", err)
	}
	return out, nil
}

// Get returns one layout.
func (s *SQLiteStore) Get(ctx context.Context, id string) (builder.Layout, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, placements, elements, created_at, updated_at FROM layouts WHERE id = ?`, id)
	l, err := scanLayout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return builder.Layout{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l, err
}

// Create stores a new layout under a generated id.
func (s *SQLiteStore) Create(ctx context.Context, req builder.LayoutRequest) (builder.Layout, error) {
	now := s.opts.Clock()
	l, err := build(s.opts.NewID(), req, now, now)
	if err != nil {
		return builder.Layout{}, err
	}
	placements, elements, err := encodeContent(l)
	if err != nil {
		return builder.Layout{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO layouts (id, name, description, placements, elements, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Description, placements, elements, formatTime(l.CreatedAt), formatTime(l.UpdatedAt))
	if err != nil {
		return builder.Layout{}, fmt.Errorf("layoutstore: insert layout: %w", err)
	}
	return l, nil
}

// Update replaces the content of an existing layout.
func (s *SQLiteStore) Update(ctx context.Context, id string, req builder.LayoutRequest) (builder.Layout, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return builder.Layout{}, err
	}
	l, err := build(id, req, existing.CreatedAt, s.opts.Clock())
	if err != nil {
		return builder.Layout{}, err
	}
	placements, elements, err := encodeContent(l)
	if err != nil {
		return builder.Layout{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE layouts SET name = ?, description = ?, placements = ?, elements = ?, updated_at = ? WHERE id = ?`,
		l.Name, l.Description, placements, elements, formatTime(l.UpdatedAt), id)
	if err != nil {
		return builder.Layout{}, fmt.Errorf("layoutstore: update layout %s: %w", id, err)
	}
	return l, nil
}

// Delete removes a layout.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("layoutstore: delete layout %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLayout(row scanner) (builder.Layout, error) {
	var (
		l                    builder.Layout
		placements, elements string
		createdAt, updatedAt string
	)
	if err := row.Scan(&l.ID, &l.Name, &l.Description, &placements, &elements, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return builder.Layout{}, err
		}
		return builder.Layout{}, fmt.Errorf("layoutstore: scan layout: %w", err)
	}
	if err := json.Unmarshal([]byte(placements), &l.Placements); err != nil {
		return builder.Layout{}, fmt.Errorf("layoutstore: decode placements of %s: %w", l.ID, err)
	}
	if err := json.Unmarshal([]byte(elements), &l.Elements); err != nil {
		return builder.Layout{}, fmt.Errorf("layoutstore: decode elements of %s: %w", l.ID, err)
	}
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
	return l, nil
}

func encodeContent(l builder.Layout) (string, string, error) {
	placements, err := json.Marshal(l.Placements)
	if err != nil {
		return "", "", fmt.Errorf("layoutstore: encode placements: %w", err)
	}
	elements, err := json.Marshal(l.Elements)
	if err != nil {
		return "", "", fmt.Errorf("layoutstore: encode elements: %w", err)
	}
	return string(placements), string(elements), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
