package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// Password holds the bcrypt hash, never the plain text.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
