package domain

// User represents an account that owns tracked books.
type User struct {
	Entity
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Email        string `json:"email,omitempty"`
}

// DisplayName returns the name shown in page titles and exports.
// Falls back to the username when nothing nicer is available.
func (u *User) DisplayName() string {
	return u.Username
}
