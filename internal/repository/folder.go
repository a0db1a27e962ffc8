package repository

import (
	"context"

	"noteful-server/internal/domain"
)

// FolderRepository exposes owner-scoped persistence operations for folders.
// Every query is filtered by ownerID; a folder belonging to another owner
// behaves exactly like a missing one.
type FolderRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, folder *domain.Folder) error
	Get(ctx context.Context, ownerID, id string) (*domain.Folder, error)
	// List returns the owner's folders ordered by name.
	List(ctx context.Context, ownerID string) ([]domain.Folder, error)
	Rename(ctx context.Context, ownerID, id, name string) (*domain.Folder, error)
	// Delete removes the folder and clears folder_id on every note of the
	// same owner that referenced it, in one transaction with the note
	// update sequenced first. Deleting a missing or foreign folder is a
	// no-op.
	Delete(ctx context.Context, ownerID, id string) error
}
