package stats

import (
	"sort"
	"strings"
	"time"
)

// WarrantyAlert describes one item whose warranty is expired or expiring
// within the alert window
type WarrantyAlert struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	ExpiryDate    string `json:"expiryDate"`
	DaysRemaining int    `json:"daysRemaining"`
	Status        string `json:"status"`
}

// warrantyWindowDays is the furthest-out expiry that still alerts
const warrantyWindowDays = 90

// WarrantyStatus classifies a daysRemaining value: expired when negative,
// critical within 30 days, warning within 60, upcoming within 90
func WarrantyStatus(daysRemaining int) string {
	switch {
	case daysRemaining < 0:
		return "expired"
	case daysRemaining <= 30:
		return "critical"
	case daysRemaining <= 60:
		return "warning"
	default:
		return "upcoming"
	}
}

// DaysRemaining computes whole days between today and the expiry date, both
// truncated to their calendar day
func DaysRemaining(expiry, today time.Time) int {
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t).Hours() / 24)
}

// WarrantyAlerts scans firearms, gear, optics and accessories for warranties
// expiring within the window, most urgent first
func WarrantyAlerts(inv Inventory, today time.Time) []WarrantyAlert {
	alerts := []WarrantyAlert{}

	for _, f := range inv.Firearms {
		appendWarrantyAlert(&alerts, f.ID.Hex(), f.Name, f.Make, f.Model, "firearm", f.WarrantyExpires, today)
	}
	for _, g := range inv.Gear {
		appendWarrantyAlert(&alerts, g.ID.Hex(), g.Name, g.Brand, g.Model, "gear", g.WarrantyExpires, today)
	}
	for _, o := range inv.Optics {
		appendWarrantyAlert(&alerts, o.ID.Hex(), o.Name, o.Brand, o.Model, "optic", o.WarrantyExpires, today)
	}
	for _, a := range inv.Accessories {
		appendWarrantyAlert(&alerts, a.ID.Hex(), a.Name, a.Brand, a.Model, "accessory", a.WarrantyExpires, today)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DaysRemaining < alerts[j].DaysRemaining
	})
	return alerts
}

func appendWarrantyAlert(alerts *[]WarrantyAlert, id, name, brand, model, category, expires string, today time.Time) {
	if expires == "" {
		return
	}
	expiry, err := ParseDate(expires)
	if err != nil {
		return
	}
	days := DaysRemaining(expiry, today)
	if days > warrantyWindowDays {
		return
	}
	if name == "" {
		name = strings.TrimSpace(brand + " " + model)
	}
	*alerts = append(*alerts, WarrantyAlert{
		ID:            id,
		Name:          name,
		Category:      category,
		ExpiryDate:    expires,
		DaysRemaining: days,
		Status:        WarrantyStatus(days),
	})
}

// ParseDate accepts the date-only form used by the store, space-separated
// UTC timestamps from imported data, and RFC 3339 timestamps
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05.000Z", "2006-01-02 15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Parse(time.RFC3339, s)
}
