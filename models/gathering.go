package models

import (
	"fmt"
	"time"
)

// Gathering is anything a user can be checked in at: a curated event with a
// fixed [StartTime, EndTime) window, or an untimed place created on first
// check-in. Times are unix seconds; places leave them zero.
type Gathering struct {
	ID             string   `json:"id" dynamodbav:"gatheringId"`
	Kind           string   `json:"kind" dynamodbav:"kind"`
	Name           string   `json:"name" dynamodbav:"name"`
	Address        string   `json:"address" dynamodbav:"address,omitempty"`
	City           string   `json:"city,omitempty" dynamodbav:"city,omitempty"`
	State          string   `json:"state,omitempty" dynamodbav:"state,omitempty"`
	Description    string   `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Lat            float64  `json:"lat" dynamodbav:"lat,omitempty"`
	Lng            float64  `json:"lng" dynamodbav:"lng,omitempty"`
	StartTime      int64    `json:"startTime,omitempty" dynamodbav:"startTime,omitempty"`
	EndTime        int64    `json:"endTime,omitempty" dynamodbav:"endTime,omitempty"`
	CheckedInUsers []string `json:"checkedInUsers,omitempty" dynamodbav:"checkedInUsers,stringset,omitempty"`
	UsersGoing     []string `json:"usersGoing,omitempty" dynamodbav:"usersGoing,stringset,omitempty"`
	CreatedAt      int64    `json:"createdAt" dynamodbav:"createdAt,omitempty"`
}

// IsEvent reports whether the gathering has a fixed time window.
func (g *Gathering) IsEvent() bool {
	return g.Kind == GatheringKindEvent
}

// Ended reports whether an event's window has closed. Places never end.
func (g *Gathering) Ended(now time.Time) bool {
	return g.IsEvent() && g.EndTime != 0 && now.Unix() >= g.EndTime
}

// Room is the socket room name presence events for this gathering go to.
func (g *Gathering) Room() string {
	if g.Kind == GatheringKindPlace {
		return PlaceRoom(g.ID)
	}
	return EventRoom(g.ID)
}

// EventRoom returns the socket room for an event gathering.
func EventRoom(id string) string { return fmt.Sprintf("event_%s", id) }

// PlaceRoom returns the socket room for a place gathering.
func PlaceRoom(id string) string { return fmt.Sprintf("place_%s", id) }

// EventSummary is the listing shape returned to clients, with the
// per-viewer attendance flags the frontend renders.
type EventSummary struct {
	Gathering
	GoingCount     int  `json:"goingCount"`
	CheckedInCount int  `json:"checkedInCount"`
	IsUserGoing    bool `json:"isUserGoing"`
}

// GatheringsTable is the DynamoDB table name for gatherings
const GatheringsTable = "Gatherings"
