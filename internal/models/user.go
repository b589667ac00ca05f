package models

import (
	"time"
)

type User struct {
	ID           int64
	Name         string
	Email        string
	Role         string // optional, e.g. "user", "admin"; "" means unset
	PasswordHash string // storage-only, stripped before leaving the service
	CreatedAt    time.Time
}

// Sanitized returns a copy of the user with the password hash removed.
// Every service method that hands a user to a caller goes through this.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
