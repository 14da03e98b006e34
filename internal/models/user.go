package models

import "time"

// User represents a registered account in the system.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Number       string    `db:"number" json:"number"`
	PasswordHash string    `db:"password_hash" json:"-"` // Never expose this to the client
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
