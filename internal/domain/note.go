package domain

import "time"

// Note is a user-owned document. FolderID is nil for unfiled notes; a
// set FolderID must reference a folder with the same owner, checked at
// write time rather than by a stored constraint.
type Note struct {
	ID        string
	Title     string
	Content   string
	OwnerID   string
	FolderID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
