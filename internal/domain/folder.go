package domain

import "time"

// Folder groups notes for a single owner. Names are unique per owner,
// compared case-sensitively.
type Folder struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
