package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/gun-locker-api/models"
)

func TestBuildDocument(t *testing.T) {
	fields := map[string]interface{}{
		"name":           "Duty Pistol",
		"make":           "",          // empty string dropped
		"caliber":        nil,         // nil dropped
		"round_count":    float64(0),  // zero number survives
		"purchase_price": 549.99,
		"unknown_field":  "ignored", // not in the allow list
	}

	doc := models.BuildDocument(fields, models.FirearmFields)

	assert.Equal(t, "Duty Pistol", doc["name"])
	assert.NotContains(t, doc, "make")
	assert.NotContains(t, doc, "caliber")
	assert.NotContains(t, doc, "unknown_field")
	assert.Equal(t, float64(0), doc["round_count"])
	assert.Equal(t, 549.99, doc["purchase_price"])
	assert.Len(t, doc, 3)
}

func TestBuildDocumentEmpty(t *testing.T) {
	doc := models.BuildDocument(map[string]interface{}{}, models.FirearmFields)
	assert.Empty(t, doc)
}

func TestRequireFields(t *testing.T) {
	fields := map[string]interface{}{
		"brand":   "Federal",
		"caliber": "",
	}
	missing := models.RequireFields(fields, "brand", "caliber", "quantity")

	assert.NotContains(t, missing, "brand")
	assert.Equal(t, "cannot be blank", missing["caliber"])
	assert.Equal(t, "cannot be blank", missing["quantity"])
}

func TestValidateEnum(t *testing.T) {
	errs := map[string]string{}

	models.ValidateEnum(map[string]interface{}{"type": "handgun"}, errs, "type", models.FirearmTypes)
	assert.Empty(t, errs)

	models.ValidateEnum(map[string]interface{}{"type": "crossbow"}, errs, "type", models.FirearmTypes)
	assert.Contains(t, errs, "type")

	// absent and empty values are left to the required-field check
	errs = map[string]string{}
	models.ValidateEnum(map[string]interface{}{}, errs, "type", models.FirearmTypes)
	models.ValidateEnum(map[string]interface{}{"type": ""}, errs, "type", models.FirearmTypes)
	assert.Empty(t, errs)
}

func TestNumber(t *testing.T) {
	n, ok := models.Number(map[string]interface{}{"quantity": float64(50)}, "quantity")
	assert.True(t, ok)
	assert.Equal(t, 50.0, n)

	n, ok = models.Number(map[string]interface{}{"quantity": 50}, "quantity")
	assert.True(t, ok)
	assert.Equal(t, 50.0, n)

	_, ok = models.Number(map[string]interface{}{"quantity": "50"}, "quantity")
	assert.False(t, ok)

	_, ok = models.Number(map[string]interface{}{}, "quantity")
	assert.False(t, ok)
}

func TestValidateMin(t *testing.T) {
	errs := map[string]string{}
	models.ValidateMin(map[string]interface{}{"rounds_fired": float64(0)}, errs, "rounds_fired", 1)
	assert.Contains(t, errs, "rounds_fired")

	errs = map[string]string{}
	models.ValidateMin(map[string]interface{}{"rounds_fired": float64(1)}, errs, "rounds_fired", 1)
	assert.Empty(t, errs)
}

func TestValidateFirearm(t *testing.T) {
	errs := models.ValidateFirearm(map[string]interface{}{}, true)
	assert.Contains(t, errs, "name")

	// partial updates skip required checks but still validate enums
	errs = models.ValidateFirearm(map[string]interface{}{"status": "lost"}, false)
	assert.NotContains(t, errs, "name")
	assert.Contains(t, errs, "status")

	errs = models.ValidateFirearm(map[string]interface{}{
		"name":        "Duty Pistol",
		"type":        "handgun",
		"status":      "active",
		"round_count": float64(0),
	}, true)
	assert.Empty(t, errs)
}

func TestValidateRangeTripAmmo(t *testing.T) {
	errs := models.ValidateRangeTripAmmo(map[string]interface{}{}, true)
	assert.Contains(t, errs, "range_trip")
	assert.Contains(t, errs, "firearm")
	assert.Contains(t, errs, "rounds_fired")

	errs = models.ValidateRangeTripAmmo(map[string]interface{}{
		"range_trip":   "507f1f77bcf86cd799439011",
		"firearm":      "507f1f77bcf86cd799439012",
		"rounds_fired": float64(0),
	}, true)
	assert.Contains(t, errs, "rounds_fired")

	errs = models.ValidateRangeTripAmmo(map[string]interface{}{
		"range_trip":   "507f1f77bcf86cd799439011",
		"firearm":      "507f1f77bcf86cd799439012",
		"rounds_fired": float64(50),
	}, true)
	assert.Empty(t, errs)
}
