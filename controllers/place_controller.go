package controllers

import (
	"encoding/json"
	"net/http"

	"baequest_server/middleware"
	"baequest_server/services"

	"github.com/gorilla/mux"
)

// PlaceController handles check-ins at untimed places (bars, cafes, parks).
type PlaceController struct {
	Checkins *services.CheckinService
}

func NewPlaceController(checkins *services.CheckinService) *PlaceController {
	return &PlaceController{Checkins: checkins}
}

type placeCheckinRequest struct {
	PlaceID      string `json:"placeId"`
	PlaceName    string `json:"placeName"`
	PlaceAddress string `json:"placeAddress"`
}

type placeCheckoutRequest struct {
	PlaceID string `json:"placeId"`
}

// Checkin checks the caller in at a place, creating the place on first use.
func (pc *PlaceController) Checkin(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req placeCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PlaceID == "" || req.PlaceName == "" {
		http.Error(w, "placeId and placeName are required", http.StatusBadRequest)
		return
	}

	result, err := pc.Checkins.CheckInPlace(r.Context(), userID, req.PlaceID, req.PlaceName, req.PlaceAddress)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Checked in successfully",
		"presenceRecord":  result.Record,
		"compatibleUsers": result.Users,
	})
}

// Checkout checks the caller out of a place.
func (pc *PlaceController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req placeCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PlaceID == "" {
		http.Error(w, "placeId is required", http.StatusBadRequest)
		return
	}

	if err := pc.Checkins.CheckOut(r.Context(), userID, req.PlaceID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Checked out successfully"})
}

// UsersAtPlace lists compatible users checked in at a place.
func (pc *PlaceController) UsersAtPlace(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	placeID := mux.Vars(r)["placeId"]

	users, err := pc.Checkins.ListCompatible(r.Context(), userID, placeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"compatibleUsers": users})
}

// UserCountAtPlace returns the raw headcount at a place, viewer-independent.
func (pc *PlaceController) UserCountAtPlace(w http.ResponseWriter, r *http.Request) {
	placeID := mux.Vars(r)["placeId"]

	count, err := pc.Checkins.Presence.CountPresent(r.Context(), placeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
