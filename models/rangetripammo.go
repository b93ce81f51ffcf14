package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RangeTripAmmoFields are the writable fields of the range_trip_ammo collection
var RangeTripAmmoFields = []string{
	"range_trip", "firearm", "ammunition", "rounds_fired", "notes",
}

// RangeTripAmmo is the join record capturing one firearm/ammo/rounds-fired
// event within a range trip
type RangeTripAmmo struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id"`
	RangeTrip   primitive.ObjectID   `json:"range_trip" bson:"range_trip"`
	Firearm     primitive.ObjectID   `json:"firearm" bson:"firearm"`
	Ammunition  primitive.ObjectID   `json:"ammunition,omitempty" bson:"ammunition,omitempty"`
	RoundsFired int                  `json:"rounds_fired" bson:"rounds_fired"`
	Notes       string               `json:"notes,omitempty" bson:"notes,omitempty"`
	User        primitive.ObjectID   `json:"user" bson:"user"`
	Created     time.Time            `json:"created" bson:"created"`
	Updated     time.Time            `json:"updated" bson:"updated"`
	Expand      *RangeTripAmmoExpand `json:"expand,omitempty" bson:"expand,omitempty"`
}

// RangeTripAmmoExpand carries related records resolved by the repository
type RangeTripAmmoExpand struct {
	Firearm    *Firearm    `json:"firearm,omitempty" bson:"firearm,omitempty"`
	Ammunition *Ammunition `json:"ammunition,omitempty" bson:"ammunition,omitempty"`
}

// ValidateRangeTripAmmo checks a decoded ammo usage payload. rounds_fired must
// be a positive integer; ammunition is optional.
func ValidateRangeTripAmmo(fields map[string]interface{}, requireAll bool) map[string]string {
	errs := map[string]string{}
	if requireAll {
		errs = RequireFields(fields, "range_trip", "firearm", "rounds_fired")
	}
	ValidateMin(fields, errs, "rounds_fired", 1)
	return errs
}
