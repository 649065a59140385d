package routes

import (
	"baequest_server/controllers"
	"baequest_server/services"

	"github.com/gorilla/mux"
)

// RegisterFeedbackRoutes sets up the token-based feedback routes under
// /api/feedback. No JWT here: the token from the email is the credential.
func RegisterFeedbackRoutes(r *mux.Router, feedback *services.FeedbackService) {
	controller := controllers.NewFeedbackController(feedback)

	feedbackRouter := r.PathPrefix("/api/feedback").Subrouter()
	feedbackRouter.HandleFunc("/{token}", controller.GetFeedback).Methods("GET")
	feedbackRouter.HandleFunc("/{token}", controller.SubmitFeedback).Methods("POST")
}
