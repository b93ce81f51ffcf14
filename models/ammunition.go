package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AmmunitionFields are the writable fields of the ammunition collection
var AmmunitionFields = []string{
	"brand", "caliber", "grain", "type", "quantity", "lot_number",
	"purchase_date", "purchase_price", "notes",
}

// Ammunition holds the structure for the ammunition collection
type Ammunition struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Brand         string             `json:"brand" bson:"brand"`
	Caliber       string             `json:"caliber" bson:"caliber"`
	Grain         int                `json:"grain,omitempty" bson:"grain,omitempty"`
	Type          string             `json:"type,omitempty" bson:"type,omitempty"`
	Quantity      int                `json:"quantity" bson:"quantity"`
	LotNumber     string             `json:"lot_number,omitempty" bson:"lot_number,omitempty"`
	PurchaseDate  string             `json:"purchase_date,omitempty" bson:"purchase_date,omitempty"`
	PurchasePrice float64            `json:"purchase_price,omitempty" bson:"purchase_price,omitempty"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	User          primitive.ObjectID `json:"user" bson:"user"`
	Created       time.Time          `json:"created" bson:"created"`
	Updated       time.Time          `json:"updated" bson:"updated"`
}

// ValidateAmmunition checks a decoded ammunition payload
func ValidateAmmunition(fields map[string]interface{}, requireAll bool) map[string]string {
	errs := map[string]string{}
	if requireAll {
		errs = RequireFields(fields, "brand", "caliber", "quantity")
	}
	ValidateMin(fields, errs, "quantity", 0)
	return errs
}
