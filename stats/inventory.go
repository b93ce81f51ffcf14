// Package stats derives dashboard view models from an in-memory snapshot of
// the inventory collections. Every function here is pure: same snapshot in,
// same numbers out, no store access.
package stats

import (
	"sort"

	"github.com/linesmerrill/gun-locker-api/models"
)

// Inventory is a point-in-time snapshot of the five inventory collections
type Inventory struct {
	Firearms    []models.Firearm
	Ammunition  []models.Ammunition
	Gear        []models.Gear
	Optics      []models.Optic
	Accessories []models.Accessory
}

// ValueByCategory is the purchase-price sum partitioned per collection
type ValueByCategory struct {
	Firearms    float64 `json:"firearms"`
	Ammunition  float64 `json:"ammunition"`
	Gear        float64 `json:"gear"`
	Optics      float64 `json:"optics"`
	Accessories float64 `json:"accessories"`
}

// CaliberGroup is one ammunition-by-caliber bucket
type CaliberGroup struct {
	TotalQuantity int                 `json:"totalQuantity"`
	Items         []models.Ammunition `json:"items"`
}

// QuickStats are the headline counters on the dashboard
type QuickStats struct {
	TotalFirearms    int `json:"totalFirearms"`
	TotalAmmunition  int `json:"totalAmmunition"`
	TotalGear        int `json:"totalGear"`
	TotalOptics      int `json:"totalOptics"`
	TotalAccessories int `json:"totalAccessories"`
	TotalItems       int `json:"totalItems"`
	ActiveFirearms   int `json:"activeFirearms"`
}

// TotalValue sums purchase_price across all five collections. Items without a
// price contribute zero.
func TotalValue(inv Inventory) float64 {
	v := CategoryValues(inv)
	return v.Firearms + v.Ammunition + v.Gear + v.Optics + v.Accessories
}

// CategoryValues sums purchase_price per collection
func CategoryValues(inv Inventory) ValueByCategory {
	var v ValueByCategory
	for _, f := range inv.Firearms {
		v.Firearms += f.PurchasePrice
	}
	for _, a := range inv.Ammunition {
		v.Ammunition += a.PurchasePrice
	}
	for _, g := range inv.Gear {
		v.Gear += g.PurchasePrice
	}
	for _, o := range inv.Optics {
		v.Optics += o.PurchasePrice
	}
	for _, a := range inv.Accessories {
		v.Accessories += a.PurchasePrice
	}
	return v
}

// AmmunitionByCaliber groups ammunition rows by caliber, with rows missing a
// caliber collected under the "Unknown" bucket
func AmmunitionByCaliber(ammunition []models.Ammunition) map[string]CaliberGroup {
	byCaliber := map[string]CaliberGroup{}
	for _, ammo := range ammunition {
		caliber := ammo.Caliber
		if caliber == "" {
			caliber = "Unknown"
		}
		group := byCaliber[caliber]
		group.TotalQuantity += ammo.Quantity
		group.Items = append(group.Items, ammo)
		byCaliber[caliber] = group
	}
	return byCaliber
}

// FirearmsByType groups firearms by type, defaulting to "other" when unset
func FirearmsByType(firearms []models.Firearm) map[string][]models.Firearm {
	byType := map[string][]models.Firearm{}
	for _, firearm := range firearms {
		t := firearm.Type
		if t == "" {
			t = "other"
		}
		byType[t] = append(byType[t], firearm)
	}
	return byType
}

// Counts derives the headline counters. TotalAmmunition is rounds on hand,
// not lot count; TotalItems excludes ammunition lots.
func Counts(inv Inventory) QuickStats {
	qs := QuickStats{
		TotalFirearms:    len(inv.Firearms),
		TotalGear:        len(inv.Gear),
		TotalOptics:      len(inv.Optics),
		TotalAccessories: len(inv.Accessories),
	}
	for _, a := range inv.Ammunition {
		qs.TotalAmmunition += a.Quantity
	}
	for _, f := range inv.Firearms {
		if f.Status == "active" {
			qs.ActiveFirearms++
		}
	}
	qs.TotalItems = qs.TotalFirearms + qs.TotalGear + qs.TotalOptics + qs.TotalAccessories
	return qs
}

// LowAmmoAlert flags a caliber whose summed quantity has fallen to or below
// the threshold
type LowAmmoAlert struct {
	Caliber  string              `json:"caliber"`
	Quantity int                 `json:"quantity"`
	Items    []models.Ammunition `json:"items"`
}

// DefaultLowAmmoThreshold is used when the caller does not supply one
const DefaultLowAmmoThreshold = 100

// LowAmmoAlerts returns the caliber buckets at or below threshold, lowest
// quantity first
func LowAmmoAlerts(ammunition []models.Ammunition, threshold int) []LowAmmoAlert {
	alerts := []LowAmmoAlert{}
	for caliber, group := range AmmunitionByCaliber(ammunition) {
		if group.TotalQuantity <= threshold {
			alerts = append(alerts, LowAmmoAlert{
				Caliber:  caliber,
				Quantity: group.TotalQuantity,
				Items:    group.Items,
			})
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Quantity != alerts[j].Quantity {
			return alerts[i].Quantity < alerts[j].Quantity
		}
		return alerts[i].Caliber < alerts[j].Caliber
	})
	return alerts
}
