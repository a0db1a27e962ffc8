package domain

// User represents a registered account. PasswordHash never appears in
// any serialized output; handlers only ever see sanitized copies.
type User struct {
	ID           string
	Username     string
	FullName     string
	PasswordHash string
}

// Sanitized returns a copy with the password hash stripped, safe for
// serialization and for embedding in auth tokens.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
	}
}
