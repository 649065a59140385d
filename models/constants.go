package models

// Gathering kinds
const (
	GatheringKindEvent = "event"
	GatheringKindPlace = "place"
)

// Genders (binary model, mirrors the profile store)
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Sexual orientations
const (
	OrientationStraight = "straight"
	OrientationGay      = "gay"
	OrientationBisexual = "bisexual"
)

// Socket event names. Room-scoped events go to the gathering's room,
// the rest are broadcast to every connected client.
const (
	SocketUserCheckedIn     = "user-checked-in"
	SocketUserCheckedOut    = "user-checked-out"
	SocketForceCheckout     = "force-checkout"
	SocketEventExpired      = "event-expired"
	SocketEventGoingUpdated = "event-going-updated"
)

// Client-emitted room management events
const (
	SocketJoinEvent  = "join-event"
	SocketLeaveEvent = "leave-event"
)
