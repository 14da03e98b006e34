package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/Jegadheeswaran/Rentify-backend/internal/models"
	"github.com/Jegadheeswaran/Rentify-backend/internal/services"
)

const msgNotOwnedOrMissing = "Property not found or does not belong to the authenticated user"

// PropertyHandler handles HTTP requests related to property listings.
type PropertyHandler struct {
	service services.PropertyServiceProvider
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(service services.PropertyServiceProvider) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// Create handles the request to list a new property for the caller.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var payload services.PropertyInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeMessage(w, StatusIncorrectInput, msgIncorrectInputs)
		return
	}

	property, err := h.service.CreateProperty(r.Context(), userID, payload)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeMessage(w, StatusIncorrectInput, msgIncorrectInputs)
		return
	case err != nil:
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to create property")
		writeMessage(w, http.StatusInternalServerError, "Error creating property")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Property created successfully",
		"property": property,
	})
}

// Update handles the request to change a property owned by the caller.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, msgNotOwnedOrMissing)
		return
	}

	var payload services.PropertyPatch
	if err := decodeJSON(w, r, &payload); err != nil {
		writeMessage(w, StatusIncorrectInput, msgIncorrectInputs)
		return
	}

	property, err := h.service.UpdateProperty(r.Context(), userID, id, payload)
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, msgNotOwnedOrMissing)
		return
	case errors.Is(err, services.ErrValidation):
		writeMessage(w, StatusIncorrectInput, msgIncorrectInputs)
		return
	case err != nil:
		log.Error().Err(err).Int64("user_id", userID).Int64("property_id", id).Msg("Failed to update property")
		writeMessage(w, http.StatusInternalServerError, "Error updating property")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Property updated successfully",
		"property": property,
	})
}

// Delete handles the request to remove a property owned by the caller.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, msgNotOwnedOrMissing)
		return
	}

	err := h.service.DeleteProperty(r.Context(), userID, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, msgNotOwnedOrMissing)
		return
	case err != nil:
		log.Error().Err(err).Int64("user_id", userID).Int64("property_id", id).Msg("Failed to delete property")
		writeMessage(w, http.StatusInternalServerError, "Error deleting property")
		return
	}

	writeMessage(w, http.StatusOK, "Property deleted successfully")
}

// GetMine handles the request to list the caller's own properties.
func (h *PropertyHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	properties, err := h.service.GetPropertiesByOwner(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to fetch properties")
		writeMessage(w, http.StatusInternalServerError, "Error fetching properties")
		return
	}

	writeJSON(w, http.StatusOK, properties)
}

// GetOwner handles the property detail request. The response is the owner's
// profile, which is what clients use to contact the lister.
func (h *PropertyHandler) GetOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Property not found")
		return
	}

	owner, err := h.service.GetPropertyOwner(r.Context(), id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Property not found")
		return
	case err != nil:
		log.Error().Err(err).Int64("property_id", id).Msg("Failed to fetch property details")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, owner)
}

// Search handles the public listing endpoint with optional filters.
func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeMessage(w, StatusIncorrectInput, msgIncorrectInputs)
		return
	}

	properties, err := h.service.SearchProperties(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch properties")
		writeMessage(w, http.StatusInternalServerError, "Error fetching properties")
		return
	}

	writeJSON(w, http.StatusOK, properties)
}

// parseFilter reads the search query. Empty values are treated as absent.
func parseFilter(q url.Values) (models.PropertyFilter, error) {
	var (
		filter models.PropertyFilter
		err    error
	)
	if v := q.Get("city"); v != "" {
		filter.City = &v
	}
	if v := q.Get("state"); v != "" {
		filter.State = &v
	}
	if filter.MinBedrooms, err = optionalInt(q, "minBedrooms"); err != nil {
		return filter, err
	}
	if filter.MaxBedrooms, err = optionalInt(q, "maxBedrooms"); err != nil {
		return filter, err
	}
	if filter.MinBathrooms, err = optionalInt(q, "minBathrooms"); err != nil {
		return filter, err
	}
	if filter.MaxBathrooms, err = optionalInt(q, "maxBathrooms"); err != nil {
		return filter, err
	}
	return filter, nil
}

func optionalInt(q url.Values, key string) (*int, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
