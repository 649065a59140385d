package routes

import (
	"baequest_server/controllers"
	"baequest_server/services"

	"github.com/gorilla/mux"
)

// RegisterEventRoutes sets up routes for event operations under /api/events.
// Listing and creation are open; check-in, check-out, and interest require a
// signed-in user.
func RegisterEventRoutes(r *mux.Router, checkins *services.CheckinService, events *services.EventService, auth mux.MiddlewareFunc) {
	controller := controllers.NewEventController(checkins, events)

	eventRouter := r.PathPrefix("/api/events").Subrouter()
	eventRouter.HandleFunc("", controller.CreateEvent).Methods("POST")
	eventRouter.HandleFunc("/nearby", controller.NearbyEvents).Methods("GET")

	authed := r.PathPrefix("/api/events").Subrouter()
	authed.Use(auth)
	authed.HandleFunc("", controller.ListEvents).Methods("GET")
	authed.HandleFunc("/{id}/checkin", controller.Checkin).Methods("POST")
	authed.HandleFunc("/{id}/checkout", controller.Checkout).Methods("POST")
	authed.HandleFunc("/{id}/going", controller.Going).Methods("POST")
	authed.HandleFunc("/{id}/users", controller.UsersAtEvent).Methods("GET")
}
