package models

import "time"

// Event represents an entry in a user's activity log.
type Event struct {
	ID         string    `db:"id" json:"id"`
	Type       string    `db:"type" json:"type"`   // e.g., "user.signup", "property.delete"
	Level      string    `db:"level" json:"level"` // e.g., "info", "warn"
	Message    string    `db:"message" json:"message"`
	UserID     int64     `db:"user_id" json:"userId"`
	PropertyID *int64    `db:"property_id" json:"propertyId,omitempty"` // Nullable for account-level events
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
