package domain

import "time"

// User is a record of the "usuario" collection. Username and Password travel
// in plain text under the backend's field names.
type User struct {
	ID        int64      `json:"id,omitempty"`
	Username  string     `json:"usunom"`
	Password  string     `json:"ususen"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Matches reports whether the record carries exactly the given credentials.
func (u User) Matches(username, password string) bool {
	return u.Username == username && u.Password == password
}
