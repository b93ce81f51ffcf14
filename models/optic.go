package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OpticTypes are the accepted values for the optic type select field
var OpticTypes = []string{
	"red_dot", "holographic", "scope", "iron_sights",
	"magnifier", "night_vision", "thermal",
}

// OpticFields are the writable fields of the optics collection
var OpticFields = []string{
	"name", "brand", "model", "type", "magnification", "serial_number",
	"purchase_date", "purchase_price", "warranty_expires", "notes",
	"photos", "documents", "mounted_on",
}

// Optic holds the structure for the optics collection
type Optic struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	Name            string             `json:"name" bson:"name"`
	Brand           string             `json:"brand,omitempty" bson:"brand,omitempty"`
	Model           string             `json:"model,omitempty" bson:"model,omitempty"`
	Type            string             `json:"type" bson:"type"`
	Magnification   string             `json:"magnification,omitempty" bson:"magnification,omitempty"`
	SerialNumber    string             `json:"serial_number,omitempty" bson:"serial_number,omitempty"`
	PurchaseDate    string             `json:"purchase_date,omitempty" bson:"purchase_date,omitempty"`
	PurchasePrice   float64            `json:"purchase_price,omitempty" bson:"purchase_price,omitempty"`
	WarrantyExpires string             `json:"warranty_expires,omitempty" bson:"warranty_expires,omitempty"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Photos          []string           `json:"photos,omitempty" bson:"photos,omitempty"`
	Documents       []string           `json:"documents,omitempty" bson:"documents,omitempty"`
	MountedOn       primitive.ObjectID `json:"mounted_on,omitempty" bson:"mounted_on,omitempty"`
	User            primitive.ObjectID `json:"user" bson:"user"`
	Created         time.Time          `json:"created" bson:"created"`
	Updated         time.Time          `json:"updated" bson:"updated"`
	Expand          *OpticExpand       `json:"expand,omitempty" bson:"expand,omitempty"`
}

// OpticExpand carries related records resolved by the repository
type OpticExpand struct {
	MountedOn *Firearm `json:"mounted_on,omitempty" bson:"mounted_on,omitempty"`
	User      *User    `json:"user,omitempty" bson:"user,omitempty"`
}

// ValidateOptic checks a decoded optic payload
func ValidateOptic(fields map[string]interface{}, requireAll bool) map[string]string {
	errs := map[string]string{}
	if requireAll {
		errs = RequireFields(fields, "name", "type")
	}
	ValidateEnum(fields, errs, "type", OpticTypes)
	return errs
}
