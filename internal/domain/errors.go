package domain

import "errors"

var (
	// ErrNotFound covers both a truly absent resource and one owned by
	// another user; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID indicates a syntactically malformed resource id.
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicateUsername is returned when registering an existing username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateFolderName is returned when a folder name collides with
	// another folder of the same owner.
	ErrDuplicateFolderName = errors.New("folder name already exists")
	// ErrInvalidFolderRef indicates a note's folderId does not reference a
	// folder owned by the same user.
	ErrInvalidFolderRef = errors.New("invalid folder reference")
	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
