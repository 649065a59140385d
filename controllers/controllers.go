package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"baequest_server/services"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeServiceError maps service sentinels onto status codes. TooFar never
// reaches here: it is a success-shaped result, not an error.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrGatheringNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrFeedbackNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrEventEnded),
		errors.Is(err, services.ErrNotAnEvent),
		errors.Is(err, services.ErrInvalidWindow),
		errors.Is(err, services.ErrFeedbackExpired),
		errors.Is(err, services.ErrFeedbackSubmitted):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Unexpected service error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
