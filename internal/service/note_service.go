package service

import (
	"context"
	"errors"

	"noteful-server/internal/domain"
	"noteful-server/internal/repository"
)

// NoteService is the owner-scoped gateway for notes. Notes carry no
// name uniqueness constraint; their only integrity rule is that a set
// folderId must reference a folder of the same owner, checked here at
// write time.
type NoteService interface {
	List(ctx context.Context, ownerID string) ([]domain.Note, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Note, error)
	Create(ctx context.Context, ownerID, title, content string, folderID *string) (*domain.Note, error)
	Update(ctx context.Context, ownerID, id, title, content string, folderID *string) (*domain.Note, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type noteService struct {
	notes   repository.NoteRepository
	folders repository.FolderRepository
}

func NewNoteService(notes repository.NoteRepository, folders repository.FolderRepository) NoteService {
	return &noteService{notes: notes, folders: folders}
}

func (s *noteService) List(ctx context.Context, ownerID string) ([]domain.Note, error) {
	return s.notes.List(ctx, ownerID)
}

func (s *noteService) Get(ctx context.Context, ownerID, id string) (*domain.Note, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.notes.Get(ctx, ownerID, id)
}

func (s *noteService) Create(ctx context.Context, ownerID, title, content string, folderID *string) (*domain.Note, error) {
	folderID, err := s.checkFolderRef(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{
		Title:    title,
		Content:  content,
		OwnerID:  ownerID,
		FolderID: folderID,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, ownerID, id, title, content string, folderID *string) (*domain.Note, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}
	folderID, err := s.checkFolderRef(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	return s.notes.Update(ctx, ownerID, id, title, content, folderID)
}

func (s *noteService) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return domain.ErrInvalidID
	}
	return s.notes.Delete(ctx, ownerID, id)
}

// checkFolderRef normalizes and validates a folder reference. An empty
// string counts as unfiled; a reference to a missing or foreign folder
// is rejected without revealing which of the two it was.
func (s *noteService) checkFolderRef(ctx context.Context, ownerID string, folderID *string) (*string, error) {
	if folderID == nil || *folderID == "" {
		return nil, nil
	}
	if !validID(*folderID) {
		return nil, domain.ErrInvalidFolderRef
	}
	if _, err := s.folders.Get(ctx, ownerID, *folderID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidFolderRef
		}
		return nil, err
	}
	return folderID, nil
}
