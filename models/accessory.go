package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessoryCategories are the accepted values for the accessory category select field
var AccessoryCategories = []string{
	"light", "laser", "grip", "stock", "handguard", "trigger",
	"suppressor", "muzzle_device", "sling", "bipod", "other",
}

// AccessoryFields are the writable fields of the accessories collection
var AccessoryFields = []string{
	"name", "category", "brand", "model", "serial_number",
	"purchase_date", "purchase_price", "warranty_expires", "notes",
	"photos", "documents", "mounted_on",
}

// Accessory holds the structure for the accessories collection
type Accessory struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	Name            string             `json:"name" bson:"name"`
	Category        string             `json:"category" bson:"category"`
	Brand           string             `json:"brand,omitempty" bson:"brand,omitempty"`
	Model           string             `json:"model,omitempty" bson:"model,omitempty"`
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
	Expand          *AccessoryExpand   `json:"expand,omitempty" bson:"expand,omitempty"`
}

// AccessoryExpand carries related records resolved by the repository
type AccessoryExpand struct {
	MountedOn *Firearm `json:"mounted_on,omitempty" bson:"mounted_on,omitempty"`
	User      *User    `json:"user,omitempty" bson:"user,omitempty"`
}

// ValidateAccessory checks a decoded accessory payload
func ValidateAccessory(fields map[string]interface{}, requireAll bool) map[string]string {
	errs := map[string]string{}
	if requireAll {
		errs = RequireFields(fields, "name", "category")
	}
	ValidateEnum(fields, errs, "category", AccessoryCategories)
	return errs
}
