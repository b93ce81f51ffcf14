package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/gun-locker-api/models"
	"github.com/linesmerrill/gun-locker-api/stats"
)

func TestWarrantyStatus(t *testing.T) {
	tests := []struct {
		daysRemaining int
		want          string
	}{
		{-100, "expired"},
		{-1, "expired"},
		{0, "critical"},
		{15, "critical"},
		{30, "critical"},
		{31, "warning"},
		{60, "warning"},
		{61, "upcoming"},
		{90, "upcoming"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stats.WarrantyStatus(tt.daysRemaining), "daysRemaining=%d", tt.daysRemaining)
	}
}

func TestDaysRemaining(t *testing.T) {
	today := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, 0, stats.DaysRemaining(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 1, stats.DaysRemaining(time.Date(2026, 3, 16, 23, 59, 0, 0, time.UTC), today))
	assert.Equal(t, -1, stats.DaysRemaining(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 90, stats.DaysRemaining(time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC), today))
}

func TestWarrantyAlerts(t *testing.T) {
	today := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	inv := stats.Inventory{
		Firearms: []models.Firearm{
			{ID: primitive.NewObjectID(), Name: "Duty Pistol", WarrantyExpires: "2026-03-10"}, // expired
			{ID: primitive.NewObjectID(), Name: "Hunting Rifle", WarrantyExpires: "2026-09-15"}, // beyond window, excluded
		},
		Gear: []models.Gear{
			{ID: primitive.NewObjectID(), Name: "Range Bag", WarrantyExpires: "2026-04-01"}, // 17 days, critical
			{ID: primitive.NewObjectID(), Name: "Ear Pro"},                                 // no warranty, excluded
		},
		Optics: []models.Optic{
			{ID: primitive.NewObjectID(), Brand: "Vortex", Model: "Viper", WarrantyExpires: "2026-06-01"}, // 78 days, upcoming
		},
		Accessories: []models.Accessory{
			{ID: primitive.NewObjectID(), Name: "Weapon Light", WarrantyExpires: "not-a-date"}, // unparseable, excluded
		},
	}

	alerts := stats.WarrantyAlerts(inv, today)

	assert.Len(t, alerts, 3)
	// most urgent first
	assert.Equal(t, "Duty Pistol", alerts[0].Name)
	assert.Equal(t, "expired", alerts[0].Status)
	assert.Equal(t, -5, alerts[0].DaysRemaining)

	assert.Equal(t, "Range Bag", alerts[1].Name)
	assert.Equal(t, "critical", alerts[1].Status)
	assert.Equal(t, "gear", alerts[1].Category)

	// name falls back to brand + model
	assert.Equal(t, "Vortex Viper", alerts[2].Name)
	assert.Equal(t, "upcoming", alerts[2].Status)
}

func TestWarrantyAlertsEmptyInventory(t *testing.T) {
	alerts := stats.WarrantyAlerts(stats.Inventory{}, time.Now())
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestParseDate(t *testing.T) {
	d, err := stats.ParseDate("2026-03-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = stats.ParseDate("2026-03-15T10:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	d, err = stats.ParseDate("2026-03-15 00:00:00.000Z")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = stats.ParseDate("03/15/2026")
	assert.Error(t, err)
}
