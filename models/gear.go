package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GearCategories are the accepted values for the gear category select field
var GearCategories = []string{
	"hearing_protection", "eye_protection", "magazine", "holster",
	"case", "bag", "cleaning", "targets", "other",
}

// GearConditions are the accepted values for the gear condition select field
var GearConditions = []string{"new", "excellent", "good", "fair", "poor"}

// GearFields are the writable fields of the gear collection
var GearFields = []string{
	"name", "category", "brand", "model", "serial_number", "quantity",
	"purchase_date", "purchase_price", "warranty_expires", "condition",
	"notes", "photos", "documents", "linked_firearm",
}

// Gear holds the structure for the gear collection
type Gear struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	Name            string             `json:"name" bson:"name"`
	Category        string             `json:"category" bson:"category"`
	Brand           string             `json:"brand,omitempty" bson:"brand,omitempty"`
	Model           string             `json:"model,omitempty" bson:"model,omitempty"`
	SerialNumber    string             `json:"serial_number,omitempty" bson:"serial_number,omitempty"`
	Quantity        int                `json:"quantity,omitempty" bson:"quantity,omitempty"`
	PurchaseDate    string             `json:"purchase_date,omitempty" bson:"purchase_date,omitempty"`
	PurchasePrice   float64            `json:"purchase_price,omitempty" bson:"purchase_price,omitempty"`
	WarrantyExpires string             `json:"warranty_expires,omitempty" bson:"warranty_expires,omitempty"`
	Condition       string             `json:"condition,omitempty" bson:"condition,omitempty"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Photos          []string           `json:"photos,omitempty" bson:"photos,omitempty"`
	Documents       []string           `json:"documents,omitempty" bson:"documents,omitempty"`
	LinkedFirearm   primitive.ObjectID `json:"linked_firearm,omitempty" bson:"linked_firearm,omitempty"`
	User            primitive.ObjectID `json:"user" bson:"user"`
	Created         time.Time          `json:"created" bson:"created"`
	Updated         time.Time          `json:"updated" bson:"updated"`
	Expand          *GearExpand        `json:"expand,omitempty" bson:"expand,omitempty"`
}

// GearExpand carries related records resolved by the repository
type GearExpand struct {
	LinkedFirearm *Firearm `json:"linked_firearm,omitempty" bson:"linked_firearm,omitempty"`
	User          *User    `json:"user,omitempty" bson:"user,omitempty"`
}

// ValidateGear checks a decoded gear payload
func ValidateGear(fields map[string]interface{}, requireAll bool) map[string]string {
	errs := map[string]string{}
	if requireAll {
		errs = RequireFields(fields, "name", "category")
	}
	ValidateEnum(fields, errs, "category", GearCategories)
	ValidateEnum(fields, errs, "condition", GearConditions)
	ValidateMin(fields, errs, "quantity", 1)
	return errs
}
