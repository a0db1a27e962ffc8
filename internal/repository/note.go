package repository

import (
	"context"

	"noteful-server/internal/domain"
)

// NoteRepository exposes owner-scoped persistence operations for notes.
type NoteRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, note *domain.Note) error
	Get(ctx context.Context, ownerID, id string) (*domain.Note, error)
	List(ctx context.Context, ownerID string) ([]domain.Note, error)
	Update(ctx context.Context, ownerID, id string, title, content string, folderID *string) (*domain.Note, error)
	// Delete removes the note if owned; missing or foreign notes are a no-op.
	Delete(ctx context.Context, ownerID, id string) error
}
