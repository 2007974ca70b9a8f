package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ahsanfayaz52/noteservice/internal/models"
)

const noteColumns = "id, user_id, title, content, created_at, updated_at"

// NoteStore hands out owner-scoped views of the notes table.
type NoteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewNoteStore(conn *sql.DB) *NoteStore {
	return &NoteStore{db: conn, now: time.Now}
}

// Scoped returns a view of the notes owned by ownerID.
func (s *NoteStore) Scoped(ownerID int64) *OwnerScope {
	return &OwnerScope{db: s.db, now: s.now, owner: ownerID}
}

// OwnerScope runs note queries restricted to a single owner. A note owned by
// someone else behaves exactly like a missing one.
type OwnerScope struct {
	db    *sql.DB
	now   func() time.Time
	owner int64
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (models.Note, error) {
	var (
		n                models.Note
		created, updated int64
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &created, &updated); err != nil {
		return models.Note{}, err
	}
	n.CreatedAt = fromMillis(created)
	n.UpdatedAt = fromMillis(updated)
	return n, nil
}

func (o *OwnerScope) List(ctx context.Context) ([]models.Note, error) {
	rows, err := o.db.QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = ? ORDER BY id", o.owner)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (o *OwnerScope) Get(ctx context.Context, id int64) (models.Note, error) {
	return o.get(ctx, o.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (o *OwnerScope) get(ctx context.Context, q querier, id int64) (models.Note, error) {
	n, err := scanNote(q.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ? AND user_id = ?", id, o.owner))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, ErrNotFound
	}
	if err != nil {
		return models.Note{}, fmt.Errorf("get note %d: %w", id, err)
	}
	return n, nil
}

func (o *OwnerScope) Create(ctx context.Context, title, content string) (models.Note, error) {
	now := toMillis(o.now())
	res, err := o.db.ExecContext(ctx,
		`INSERT INTO notes (user_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		o.owner, title, content, now, now)
	if err != nil {
		return models.Note{}, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return models.Note{
		ID:        id,
		UserID:    o.owner,
		Title:     title,
		Content:   content,
		CreatedAt: fromMillis(now),
		UpdatedAt: fromMillis(now),
	}, nil
}

// Update replaces title and content of the owner's note id.
func (o *OwnerScope) Update(ctx context.Context, id int64, title, content string) (models.Note, error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Note{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	n, err := o.get(ctx, tx, id)
	if err != nil {
		return models.Note{}, err
	}

	updated := toMillis(o.now())
	_, err = tx.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		title, content, updated, id, o.owner)
	if err != nil {
		return models.Note{}, fmt.Errorf("update note %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Note{}, fmt.Errorf("commit update: %w", err)
	}

	n.Title = title
	n.Content = content
	n.UpdatedAt = fromMillis(updated)
	return n, nil
}

// Delete removes the owner's note id and returns it as it was before removal.
func (o *OwnerScope) Delete(ctx context.Context, id int64) (models.Note, error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Note{}, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	n, err := o.get(ctx, tx, id)
	if err != nil {
		return models.Note{}, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE id = ? AND user_id = ?", id, o.owner); err != nil {
		return models.Note{}, fmt.Errorf("delete note %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Note{}, fmt.Errorf("commit delete: %w", err)
	}
	return n, nil
}

// DeleteAll removes every note of the owner and reports how many were removed.
func (o *OwnerScope) DeleteAll(ctx context.Context) (int64, error) {
	res, err := o.db.ExecContext(ctx, "DELETE FROM notes WHERE user_id = ?", o.owner)
	if err != nil {
		return 0, fmt.Errorf("delete notes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete notes: %w", err)
	}
	return n, nil
}
