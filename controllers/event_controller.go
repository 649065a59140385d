package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"baequest_server/middleware"
	"baequest_server/services"

	"github.com/gorilla/mux"
)

// EventController handles curated-event requests: listing, creation, and the
// presence operations (check-in, check-out, going, compatible users).
type EventController struct {
	Checkins *services.CheckinService
	Events   *services.EventService
}

// NewEventController creates a new instance of EventController
func NewEventController(checkins *services.CheckinService, events *services.EventService) *EventController {
	return &EventController{Checkins: checkins, Events: events}
}

type checkinRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// CreateEvent handles event creation
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in services.CreateEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if in.Name == "" || in.Address == "" || in.StartTime == 0 || in.EndTime == 0 {
		http.Error(w, "Name, address, start time, and end time are required", http.StatusBadRequest)
		return
	}

	event, err := c.Events.CreateEvent(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	log.Printf("Event created: %s (%s)", event.Name, event.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Event created successfully",
		"event":   event,
	})
}

// ListEvents returns active events with going/checked-in counts
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	events, err := c.Events.ListActiveEvents(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// NearbyEvents returns currently-active events within a km radius
func (c *EventController) NearbyEvents(w http.ResponseWriter, r *http.Request) {
	lat, latErr := parseFloatParam(r, "lat")
	lng, lngErr := parseFloatParam(r, "lng")
	if latErr != nil || lngErr != nil {
		http.Error(w, "Latitude and longitude are required", http.StatusBadRequest)
		return
	}
	radiusKm, err := parseFloatParam(r, "radiusKm")
	if err != nil {
		radiusKm = 10
	}

	events, err := c.Events.ListNearbyEvents(r.Context(), lat, lng, radiusKm)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Checkin handles an event check-in. A geofence miss is a 200 with a
// rejection message, matching what clients already expect.
func (c *EventController) Checkin(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	eventID := mux.Vars(r)["id"]

	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Lat == nil || req.Lng == nil {
		http.Error(w, "Missing required fields: lat, lng", http.StatusBadRequest)
		return
	}

	result, err := c.Checkins.CheckInEvent(r.Context(), userID, eventID, *req.Lat, *req.Lng)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if result.TooFar {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"gathering": result.Gathering,
			"message":   result.Message,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Checked in successfully",
		"presenceRecord":  result.Record,
		"compatibleUsers": result.Users,
	})
}

// Checkout handles an event check-out
func (c *EventController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	eventID := mux.Vars(r)["id"]

	if err := c.Checkins.CheckOut(r.Context(), userID, eventID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Checked out successfully",
	})
}

// Going toggles the requesting user's interest in an event
func (c *EventController) Going(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	eventID := mux.Vars(r)["id"]

	result, err := c.Checkins.ToggleGoing(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// UsersAtEvent returns the compatible present users for the requester
func (c *EventController) UsersAtEvent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	eventID := mux.Vars(r)["id"]

	users, err := c.Checkins.ListCompatible(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	return strconv.ParseFloat(r.URL.Query().Get(name), 64)
}
