package models

// UserProfile defines the structure for user profiles. This service only
// writes profiles on behalf of the onboarding flow; the matching core reads
// them for gender, orientation, and contact channels.
type UserProfile struct {
	UserID         string   `json:"userId" dynamodbav:"userId"`
	Name           string   `json:"name" dynamodbav:"name,omitempty"`
	EmailID        string   `json:"emailId,omitempty" dynamodbav:"emailId,omitempty"`
	Age            int      `json:"age" dynamodbav:"age,omitempty"`
	Gender         string   `json:"gender" dynamodbav:"gender,omitempty"`
	Orientation    string   `json:"sexualOrientation" dynamodbav:"sexualOrientation,omitempty"`
	Profession     string   `json:"profession,omitempty" dynamodbav:"profession,omitempty"`
	Bio            string   `json:"bio,omitempty" dynamodbav:"bio,omitempty"`
	Interests      []string `json:"interests,omitempty" dynamodbav:"interests,omitempty"`
	ConvoStarter   string   `json:"convoStarter,omitempty" dynamodbav:"convoStarter,omitempty"`
	ProfilePicture string   `json:"profilePicture,omitempty" dynamodbav:"profilePicture,omitempty"`
	PhoneNumber    string   `json:"phoneNumber,omitempty" dynamodbav:"phoneNumber,omitempty"`
}

// CompatibleUser is the profile shape shown to other attendees. Contact
// channels (email, phone) are deliberately omitted.
type CompatibleUser struct {
	UserID         string   `json:"userId"`
	Name           string   `json:"name"`
	Age            int      `json:"age"`
	Gender         string   `json:"gender"`
	Orientation    string   `json:"sexualOrientation"`
	Profession     string   `json:"profession,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Interests      []string `json:"interests,omitempty"`
	ConvoStarter   string   `json:"convoStarter,omitempty"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
}

// View strips a profile down to what other attendees are allowed to see.
func (p *UserProfile) View() CompatibleUser {
	return CompatibleUser{
		UserID:         p.UserID,
		Name:           p.Name,
		Age:            p.Age,
		Gender:         p.Gender,
		Orientation:    p.Orientation,
		Profession:     p.Profession,
		Bio:            p.Bio,
		Interests:      p.Interests,
		ConvoStarter:   p.ConvoStarter,
		ProfilePicture: p.ProfilePicture,
	}
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
