package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/Jegadheeswaran/Rentify-backend/internal/services"
)

// EventHandler handles HTTP requests for the caller's activity log.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get the caller's recent activity.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = services.DefaultEventLimit
	}

	events, err := h.service.GetRecentEvents(r.Context(), userID, limit)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to retrieve events")
		writeMessage(w, http.StatusInternalServerError, "Error fetching events")
		return
	}

	writeJSON(w, http.StatusOK, events)
}
