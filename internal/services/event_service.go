package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Jegadheeswaran/Rentify-backend/internal/models"
)

// Event types recorded in the activity log.
const (
	EventUserSignup     = "user.signup"
	EventPropertyCreate = "property.create"
	EventPropertyUpdate = "property.update"
	EventPropertyDelete = "property.delete"
)

// Event limits for GetRecentEvents.
const (
	DefaultEventLimit = 20
	MaxEventLimit     = 100
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID int64, propertyID *int64) error
	GetRecentEvents(ctx context.Context, userID int64, limit int) ([]models.Event, error)
}

// EventService provides business logic for the activity log.
type EventService struct {
	db *sqlx.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sqlx.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent logs a new event to the database.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, userID int64, propertyID *int64) error {
	event := models.Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Level:      level,
		Message:    message,
		UserID:     userID,
		PropertyID: propertyID,
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO events (id, type, level, message, user_id, property_id)
		VALUES (:id, :type, :level, :message, :user_id, :property_id)`, event)
	return err
}

// GetRecentEvents retrieves a user's most recent events, newest first.
func (s *EventService) GetRecentEvents(ctx context.Context, userID int64, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	if limit > MaxEventLimit {
		limit = MaxEventLimit
	}

	events := []models.Event{}
	err := s.db.SelectContext(ctx, &events, `
		SELECT id, type, level, message, user_id, property_id, created_at
		FROM events WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// recordEvent writes to the activity log without failing the caller.
func recordEvent(ctx context.Context, events EventServiceProvider, eventType, message string, userID int64, propertyID *int64) {
	if events == nil {
		return
	}
	if err := events.CreateEvent(ctx, eventType, "info", message, userID, propertyID); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Int64("user_id", userID).Msg("Failed to record event")
	}
}
