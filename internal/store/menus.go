package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brahmand/brahmand/internal/model"
)

const menuSelect = `
	SELECT m.id, m.area, m.label, m.url, m.verse_id, m.order_index,
		m.created_at, m.updated_at, v.code AS verse_code, v.title AS verse_title
	FROM menus m
	LEFT JOIN verses v ON v.id = m.verse_id`

func scanMenuEntry(row interface{ Scan(...any) error }) (model.MenuEntry, error) {
	var m model.MenuEntry
	err := row.Scan(&m.ID, &m.Area, &m.Label, &m.URL, &m.VerseID, &m.OrderIndex,
		&m.CreatedAt, &m.UpdatedAt, &m.VerseCode, &m.VerseTitle)
	return m, err
}

// ListMenuEntries returns menu entries, optionally filtered by area,
// ordered by area, order index, then id.
func (q *Queries) ListMenuEntries(ctx context.Context, area string) ([]model.MenuEntry, error) {
	query := menuSelect + `
	ORDER BY m.area ASC, m.order_index ASC, m.id ASC`
	var args []any
	if area != "" {
		query = menuSelect + `
	WHERE m.area = ?
	ORDER BY m.area ASC, m.order_index ASC, m.id ASC`
		args = append(args, area)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	defer rows.Close()

	var entries []model.MenuEntry
	for rows.Next() {
		entry, err := scanMenuEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetMenuEntry fetches one menu entry by id.
func (q *Queries) GetMenuEntry(ctx context.Context, id int64) (model.MenuEntry, error) {
	return scanMenuEntry(q.db.QueryRowContext(ctx, menuSelect+`
	WHERE m.id = ?`, id))
}

// CreateMenuEntryParams describe a new menu entry.
type CreateMenuEntryParams struct {
	Area       string
	Label      string
	URL        string
	VerseID    sql.NullInt64
	OrderIndex int
	Now        time.Time
}

// CreateMenuEntry inserts a menu entry and returns its id.
func (q *Queries) CreateMenuEntry(ctx context.Context, arg CreateMenuEntryParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO menus (area, label, url, verse_id, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Area, arg.Label, arg.URL, arg.VerseID, arg.OrderIndex, arg.Now, arg.Now)
	if err != nil {
		return 0, fmt.Errorf("inserting menu entry: %w", err)
	}
	return res.LastInsertId()
}

// UpdateMenuEntryParams hold the mutable menu entry fields.
type UpdateMenuEntryParams struct {
	ID         int64
	Label      string
	URL        string
	VerseID    sql.NullInt64
	OrderIndex int
	Now        time.Time
}

// UpdateMenuEntry overwrites a menu entry's mutable fields.
func (q *Queries) UpdateMenuEntry(ctx context.Context, arg UpdateMenuEntryParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE menus
		SET label = ?, url = ?, verse_id = ?, order_index = ?, updated_at = ?
		WHERE id = ?`,
		arg.Label, arg.URL, arg.VerseID, arg.OrderIndex, arg.Now, arg.ID)
	if err != nil {
		return fmt.Errorf("updating menu entry %d: %w", arg.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMenuEntry removes a menu entry.
func (q *Queries) DeleteMenuEntry(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting menu entry %d: %w", id, err)
	}
	return nil
}
