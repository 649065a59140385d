package routes

import (
	"baequest_server/controllers"
	"baequest_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for user profile operations under
// /api/profiles. All of them require a signed-in user.
func RegisterUserProfileRoutes(r *mux.Router, profiles *services.UserProfileService, auth mux.MiddlewareFunc) {
	controller := controllers.NewUserProfileController(profiles)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.Use(auth)
	profileRouter.HandleFunc("", controller.AddUserProfile).Methods("POST")
	profileRouter.HandleFunc("/me", controller.GetUserProfile).Methods("GET")
	profileRouter.HandleFunc("/me", controller.DeleteUserProfile).Methods("DELETE")
	profileRouter.HandleFunc("/{userId}", controller.GetUserProfileByID).Methods("GET")
}
