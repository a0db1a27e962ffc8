package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"noteful-server/internal/domain"
	"noteful-server/internal/repository"
)

const createFoldersTable = `
CREATE TABLE IF NOT EXISTS folders (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (owner_id, name)
);
`

type FolderRepository struct {
	db *sql.DB
}

func NewFolderRepository(db *sql.DB) repository.FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createFoldersTable); err != nil {
		return fmt.Errorf("create folders table: %w", err)
	}
	return nil
}

func (r *FolderRepository) Create(ctx context.Context, folder *domain.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO folders (id, name, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		folder.ID,
		folder.Name,
		folder.OwnerID,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return domain.ErrDuplicateFolderName
		}
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

func (r *FolderRepository) Get(ctx context.Context, ownerID, id string) (*domain.Folder, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, owner_id, created_at, updated_at
FROM folders
WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	return scanFolder(row)
}

func (r *FolderRepository) List(ctx context.Context, ownerID string) ([]domain.Folder, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, owner_id, created_at, updated_at
FROM folders
WHERE owner_id = ?
ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []domain.Folder
	for rows.Next() {
		var f domain.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.OwnerID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}

func (r *FolderRepository) Rename(ctx context.Context, ownerID, id, name string) (*domain.Folder, error) {
	folder, err := r.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	folder.Name = name
	folder.UpdatedAt = nextTimestamp(folder.UpdatedAt)

	_, err = r.db.ExecContext(ctx, `
UPDATE folders
SET name = ?, updated_at = ?
WHERE id = ? AND owner_id = ?`,
		folder.Name,
		folder.UpdatedAt,
		id,
		ownerID,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, domain.ErrDuplicateFolderName
		}
		return nil, fmt.Errorf("update folder: %w", err)
	}
	return folder, nil
}

func (r *FolderRepository) Delete(ctx context.Context, ownerID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin folder delete: %w", err)
	}
	defer tx.Rollback()

	// Detach dependent notes before removing the folder so no note is
	// left referencing a folder the store no longer has.
	if _, err := tx.ExecContext(ctx, `
UPDATE notes
SET folder_id = NULL
WHERE folder_id = ? AND owner_id = ?`,
		id, ownerID,
	); err != nil {
		return fmt.Errorf("detach notes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
DELETE FROM folders
WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit folder delete: %w", err)
	}
	return nil
}

func scanFolder(row *sql.Row) (*domain.Folder, error) {
	var f domain.Folder
	if err := row.Scan(&f.ID, &f.Name, &f.OwnerID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan folder: %w", err)
	}
	return &f, nil
}

// nextTimestamp returns the current time, nudged forward when the clock
// has not advanced past the previous value, so updated_at strictly
// increases on every successful write.
func nextTimestamp(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}
