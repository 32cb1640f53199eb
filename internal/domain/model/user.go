package model

import (
	"fmt"
	"strings"
)

// User is the sender of an update as reported by Telegram. It is never stored.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	IsBot     bool
}

// FullName joins first and last name the way Telegram clients display it.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Handle returns the @-less username or "None" when the user has none.
func (u User) Handle() string {
	if u.Username == "" {
		return "None"
	}
	return u.Username
}

// String is the form used in access logs.
func (u User) String() string {
	return fmt.Sprintf("User %s (username: %s, ID: %d)", u.FullName(), u.Handle(), u.ID)
}
