package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceTypes are the accepted values for the maintenance type select field
var MaintenanceTypes = []string{
	"cleaning", "lubrication", "inspection", "repair",
	"parts_replacement", "other",
}

// MaintenanceLogFields are the writable fields of the maintenance_logs collection
var MaintenanceLogFields = []string{
	"date", "type", "rounds_since_last", "description", "parts_replaced",
	"cost", "notes", "photos", "firearm",
}

// MaintenanceLog holds the structure for the maintenance_logs collection
type MaintenanceLog struct {
	ID              primitive.ObjectID    `json:"id" bson:"_id"`
	Date            string                `json:"date" bson:"date"`
	Type            string                `json:"type" bson:"type"`
	RoundsSinceLast int                   `json:"rounds_since_last,omitempty" bson:"rounds_since_last,omitempty"`
	Description     string                `json:"description,omitempty" bson:"description,omitempty"`
	PartsReplaced   string                `json:"parts_replaced,omitempty" bson:"parts_replaced,omitempty"`
	Cost            float64               `json:"cost,omitempty" bson:"cost,omitempty"`
	Notes           string                `json:"notes,omitempty" bson:"notes,omitempty"`
	Photos          []string              `json:"photos,omitempty" bson:"photos,omitempty"`
	Firearm         primitive.ObjectID    `json:"firearm" bson:"firearm"`
	User            primitive.ObjectID    `json:"user" bson:"user"`
	Created         time.Time             `json:"created" bson:"created"`
	Updated         time.Time             `json:"updated" bson:"updated"`
	Expand          *MaintenanceLogExpand `json:"expand,omitempty" bson:"expand,omitempty"`
}

// MaintenanceLogExpand carries related records resolved by the repository
type MaintenanceLogExpand struct {
	Firearm *Firearm `json:"firearm,omitempty" bson:"firearm,omitempty"`
	User    *User    `json:"user,omitempty" bson:"user,omitempty"`
}

// ValidateMaintenanceLog checks a decoded maintenance log payload
func ValidateMaintenanceLog(fields map[string]interface{}, requireAll bool) map[string]string {
	errs := map[string]string{}
	if requireAll {
		errs = RequireFields(fields, "date", "type", "firearm")
	}
	ValidateEnum(fields, errs, "type", MaintenanceTypes)
	ValidateMin(fields, errs, "rounds_since_last", 0)
	ValidateMin(fields, errs, "cost", 0)
	return errs
}
