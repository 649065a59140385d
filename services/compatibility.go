package services

import "baequest_server/models"

// IsCompatible decides whether the viewer should see the candidate in their
// list of present users. The rule is evaluated from the viewer's side only:
// bisexual viewers see everyone, straight viewers see the opposite gender,
// gay viewers see their own gender. The candidate's own orientation is not
// re-checked, so the relation is not symmetric.
func IsCompatible(viewer, candidate *models.UserProfile) bool {
	switch viewer.Orientation {
	case models.OrientationBisexual:
		return true
	case models.OrientationStraight:
		return candidate.Gender != viewer.Gender
	case models.OrientationGay:
		return candidate.Gender == viewer.Gender
	}
	return false
}

// FilterCompatible applies IsCompatible over the candidate profiles and
// returns the attendee-facing views. The viewer is always excluded.
func FilterCompatible(viewer *models.UserProfile, candidates []models.UserProfile) []models.CompatibleUser {
	views := make([]models.CompatibleUser, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if c.UserID == viewer.UserID {
			continue
		}
		if IsCompatible(viewer, c) {
			views = append(views, c.View())
		}
	}
	return views
}
