package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"baequest_server/middleware"
	"baequest_server/models"
	"baequest_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController manages user profile endpoints
type UserProfileController struct {
	Profiles *services.UserProfileService
}

func NewUserProfileController(profiles *services.UserProfileService) *UserProfileController {
	return &UserProfileController{Profiles: profiles}
}

// AddUserProfile handles profile creation and updates. Put semantics: the
// caller's whole profile is replaced.
func (upc *UserProfileController) AddUserProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	profile.UserID = middleware.UserID(r.Context())
	if profile.EmailID == "" {
		http.Error(w, "emailId is required", http.StatusBadRequest)
		return
	}

	saved, err := upc.Profiles.AddUserProfile(r.Context(), profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	log.Printf("Profile saved for user %s", saved.UserID)
	writeJSON(w, http.StatusOK, saved)
}

// GetUserProfile retrieves the caller's own profile.
func (upc *UserProfileController) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	profile, err := upc.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GetUserProfileByID retrieves another user's profile with contact details
// stripped.
func (upc *UserProfileController) GetUserProfileByID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := upc.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile.View())
}

// DeleteUserProfile removes the caller's profile.
func (upc *UserProfileController) DeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	if err := upc.Profiles.DeleteUserProfile(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted successfully"})
}
