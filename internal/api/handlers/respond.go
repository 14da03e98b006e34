package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Jegadheeswaran/Rentify-backend/internal/auth"
)

// StatusIncorrectInput is the status this API has always used for rejected input.
const StatusIncorrectInput = http.StatusLengthRequired

const msgIncorrectInputs = "Incorrect inputs"

// maxRequestBodySize is the maximum allowed request body size (1 MB).
const maxRequestBodySize = 1 << 20

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response body")
	}
}

// writeMessage writes a {"message": ...} response.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// requireUserID returns the caller's id. Routes using it sit behind
// auth.Middleware, so the 400 branch only fires on a routing mistake.
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Error().Str("path", r.URL.Path).Msg("Protected handler reached without an authenticated user")
		writeMessage(w, http.StatusBadRequest, "User ID is required")
		return 0, false
	}
	return userID, true
}

// pathID parses the {id} URL parameter. Anything but a positive integer is reported as not ok.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
