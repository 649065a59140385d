package routes

import (
	"baequest_server/controllers"
	"baequest_server/services"

	"github.com/gorilla/mux"
)

// RegisterPlaceRoutes sets up routes for place check-ins under /api/places.
func RegisterPlaceRoutes(r *mux.Router, checkins *services.CheckinService, auth mux.MiddlewareFunc) {
	controller := controllers.NewPlaceController(checkins)

	// The headcount is viewer-independent and stays public.
	r.HandleFunc("/api/places/{placeId}/count", controller.UserCountAtPlace).Methods("GET")

	placeRouter := r.PathPrefix("/api/places").Subrouter()
	placeRouter.Use(auth)
	placeRouter.HandleFunc("/checkin", controller.Checkin).Methods("POST")
	placeRouter.HandleFunc("/checkout", controller.Checkout).Methods("POST")
	placeRouter.HandleFunc("/{placeId}/users", controller.UsersAtPlace).Methods("GET")
}
