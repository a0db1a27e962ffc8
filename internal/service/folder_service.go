package service

import (
	"context"

	"github.com/google/uuid"

	"noteful-server/internal/domain"
	"noteful-server/internal/repository"
)

// FolderService is the owner-scoped gateway for folders. Every
// operation takes the authenticated owner id; a folder belonging to
// another user is indistinguishable from a missing one.
type FolderService interface {
	List(ctx context.Context, ownerID string) ([]domain.Folder, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Folder, error)
	Create(ctx context.Context, ownerID, name string) (*domain.Folder, error)
	Update(ctx context.Context, ownerID, id, name string) (*domain.Folder, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type folderService struct {
	folders repository.FolderRepository
}

func NewFolderService(folders repository.FolderRepository) FolderService {
	return &folderService{folders: folders}
}

// validID is the syntactic id check applied before any store access.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *folderService) List(ctx context.Context, ownerID string) ([]domain.Folder, error) {
	return s.folders.List(ctx, ownerID)
}

func (s *folderService) Get(ctx context.Context, ownerID, id string) (*domain.Folder, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.folders.Get(ctx, ownerID, id)
}

func (s *folderService) Create(ctx context.Context, ownerID, name string) (*domain.Folder, error) {
	// OwnerID always comes from the authenticated identity, never from input.
	folder := &domain.Folder{
		Name:    name,
		OwnerID: ownerID,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *folderService) Update(ctx context.Context, ownerID, id, name string) (*domain.Folder, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.folders.Rename(ctx, ownerID, id, name)
}

// Delete is idempotent: removing a missing folder, or one owned by
// another user, succeeds without touching anything. Owned folders are
// removed together with the note detach cascade.
func (s *folderService) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return domain.ErrInvalidID
	}
	return s.folders.Delete(ctx, ownerID, id)
}
