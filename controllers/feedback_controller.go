package controllers

import (
	"encoding/json"
	"net/http"

	"baequest_server/services"

	"github.com/gorilla/mux"
)

// FeedbackController serves the emailed post-event feedback flow. The routes
// are token-authenticated, not JWT-authenticated: the link in the email is
// the credential.
type FeedbackController struct {
	Feedback *services.FeedbackService
}

func NewFeedbackController(feedback *services.FeedbackService) *FeedbackController {
	return &FeedbackController{Feedback: feedback}
}

type submitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// GetFeedback resolves a token to the pending feedback request so the
// frontend can show the event name and address on the form.
func (fc *FeedbackController) GetFeedback(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	request, err := fc.Feedback.GetByToken(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

// SubmitFeedback records the rating and comment behind a token.
func (fc *FeedbackController) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req submitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		http.Error(w, "rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	if err := fc.Feedback.SubmitFeedback(r.Context(), token, req.Rating, req.Comment); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Feedback submitted successfully"})
}
