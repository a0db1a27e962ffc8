package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"noteful-server/internal/domain"
	"noteful-server/internal/repository"
)

// notes.folder_id carries no foreign key on purpose: the reference is
// checked at write time, and reads treat a dangling value as unfiled.
const createNotesTable = `
CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL,
	folder_id TEXT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNotesTable); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO notes (id, title, content, owner_id, folder_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.Title,
		note.Content,
		note.OwnerID,
		note.FolderID,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *NoteRepository) Get(ctx context.Context, ownerID, id string) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, content, owner_id, folder_id, created_at, updated_at
FROM notes
WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	return scanNote(row)
}

func (r *NoteRepository) List(ctx context.Context, ownerID string) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, content, owner_id, folder_id, created_at, updated_at
FROM notes
WHERE owner_id = ?
ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.OwnerID, &n.FolderID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, ownerID, id string, title, content string, folderID *string) (*domain.Note, error) {
	note, err := r.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	note.Title = title
	note.Content = content
	note.FolderID = folderID
	note.UpdatedAt = nextTimestamp(note.UpdatedAt)

	_, err = r.db.ExecContext(ctx, `
UPDATE notes
SET title = ?, content = ?, folder_id = ?, updated_at = ?
WHERE id = ? AND owner_id = ?`,
		note.Title,
		note.Content,
		note.FolderID,
		note.UpdatedAt,
		id,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

func (r *NoteRepository) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := r.db.ExecContext(ctx, `
DELETE FROM notes
WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func scanNote(row *sql.Row) (*domain.Note, error) {
	var n domain.Note
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.OwnerID, &n.FolderID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &n, nil
}
