package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FirearmTypes are the accepted values for the firearm type select field
var FirearmTypes = []string{"handgun", "rifle", "shotgun", "other"}

// FirearmStatuses are the accepted values for the firearm status select field
var FirearmStatuses = []string{"active", "sold", "stored", "repair"}

// FirearmFields are the writable fields of the firearms collection
var FirearmFields = []string{
	"name", "make", "model", "serial_number", "caliber", "type",
	"purchase_date", "purchase_price", "purchase_location",
	"warranty_expires", "notes", "photos", "documents",
	"round_count", "status",
}

// Firearm holds the structure for the firearms collection
type Firearm struct {
	ID               primitive.ObjectID `json:"id" bson:"_id"`
	Name             string             `json:"name" bson:"name"`
	Make             string             `json:"make,omitempty" bson:"make,omitempty"`
	Model            string             `json:"model,omitempty" bson:"model,omitempty"`
	SerialNumber     string             `json:"serial_number,omitempty" bson:"serial_number,omitempty"`
	Caliber          string             `json:"caliber,omitempty" bson:"caliber,omitempty"`
	Type             string             `json:"type,omitempty" bson:"type,omitempty"`
	PurchaseDate     string             `json:"purchase_date,omitempty" bson:"purchase_date,omitempty"`
	PurchasePrice    float64            `json:"purchase_price,omitempty" bson:"purchase_price,omitempty"`
	PurchaseLocation string             `json:"purchase_location,omitempty" bson:"purchase_location,omitempty"`
	WarrantyExpires  string             `json:"warranty_expires,omitempty" bson:"warranty_expires,omitempty"`
	Notes            string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Photos           []string           `json:"photos,omitempty" bson:"photos,omitempty"`
	Documents        []string           `json:"documents,omitempty" bson:"documents,omitempty"`
	RoundCount       int                `json:"round_count" bson:"round_count"`
	Status           string             `json:"status,omitempty" bson:"status,omitempty"`
	User             primitive.ObjectID `json:"user" bson:"user"`
	Created          time.Time          `json:"created" bson:"created"`
	Updated          time.Time          `json:"updated" bson:"updated"`
	Expand           *FirearmExpand     `json:"expand,omitempty" bson:"expand,omitempty"`
}

// FirearmExpand carries related records resolved by the repository
type FirearmExpand struct {
	User *User `json:"user,omitempty" bson:"user,omitempty"`
}

// ValidateFirearm checks a decoded firearm payload. Required fields are only
// enforced when requireAll is set (create); enum and range checks always run.
func ValidateFirearm(fields map[string]interface{}, requireAll bool) map[string]string {
	errs := map[string]string{}
	if requireAll {
		errs = RequireFields(fields, "name")
	}
	ValidateEnum(fields, errs, "type", FirearmTypes)
	ValidateEnum(fields, errs, "status", FirearmStatuses)
	ValidateMin(fields, errs, "round_count", 0)
	return errs
}
