package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RangeTripFields are the writable fields of the range_trips collection
var RangeTripFields = []string{
	"date", "location", "notes", "weather", "duration", "firearms_used",
}

// RangeTrip holds the structure for the range_trips collection
type RangeTrip struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id"`
	Date         string               `json:"date" bson:"date"`
	Location     string               `json:"location" bson:"location"`
	Notes        string               `json:"notes,omitempty" bson:"notes,omitempty"`
	Weather      string               `json:"weather,omitempty" bson:"weather,omitempty"`
	Duration     float64              `json:"duration,omitempty" bson:"duration,omitempty"`
	FirearmsUsed []primitive.ObjectID `json:"firearms_used,omitempty" bson:"firearms_used,omitempty"`
	User         primitive.ObjectID   `json:"user" bson:"user"`
	Created      time.Time            `json:"created" bson:"created"`
	Updated      time.Time            `json:"updated" bson:"updated"`
	Expand       *RangeTripExpand     `json:"expand,omitempty" bson:"expand,omitempty"`
}

// RangeTripExpand carries related records resolved by the repository
type RangeTripExpand struct {
	FirearmsUsed []Firearm `json:"firearms_used,omitempty" bson:"firearms_used,omitempty"`
	User         *User     `json:"user,omitempty" bson:"user,omitempty"`
}

// ValidateRangeTrip checks a decoded range trip payload
func ValidateRangeTrip(fields map[string]interface{}, requireAll bool) map[string]string {
	errs := map[string]string{}
	if requireAll {
		errs = RequireFields(fields, "date", "location")
	}
	ValidateMin(fields, errs, "duration", 0)
	return errs
}
