package services

import "errors"

// Sentinel errors surfaced to the HTTP layer. TooFar is deliberately not
// here: a geofence miss is a result kind on CheckinResult, not a failure.
var (
	ErrGatheringNotFound = errors.New("gathering not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrFeedbackNotFound  = errors.New("feedback request not found")
	ErrEventEnded        = errors.New("event has already ended")
	ErrNotAnEvent        = errors.New("gathering is not an event")
	ErrInvalidWindow     = errors.New("end time must be after start time")
	ErrFeedbackExpired   = errors.New("feedback request has expired")
	ErrFeedbackSubmitted = errors.New("feedback already submitted")
)
