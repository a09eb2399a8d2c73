// Package models holds the server-side domain records persisted by the
// repositories.
package models

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
