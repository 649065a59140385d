package models

// PresenceRecord is the authoritative "where is this user" row. At most one
// live gathering reference per user; an empty GatheringID means the user is
// not checked in anywhere. The last known coordinate survives checkout.
type PresenceRecord struct {
	UserID       string  `json:"userId" dynamodbav:"userId"`
	GatheringID  string  `json:"gatheringId,omitempty" dynamodbav:"gatheringId,omitempty"`
	Lat          float64 `json:"lat,omitempty" dynamodbav:"lat,omitempty"`
	Lng          float64 `json:"lng,omitempty" dynamodbav:"lng,omitempty"`
	PlaceName    string  `json:"placeName,omitempty" dynamodbav:"placeName,omitempty"`
	PlaceAddress string  `json:"placeAddress,omitempty" dynamodbav:"placeAddress,omitempty"`
	UpdatedAt    int64   `json:"updatedAt" dynamodbav:"updatedAt"`
}

// CheckedIn reports whether the record references a gathering.
func (p *PresenceRecord) CheckedIn() bool {
	return p.GatheringID != ""
}

// PresenceRecordsTable is the DynamoDB table name for presence records
const PresenceRecordsTable = "PresenceRecords"
