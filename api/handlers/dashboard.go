package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/gun-locker-api/api"
	"github.com/linesmerrill/gun-locker-api/config"
	"github.com/linesmerrill/gun-locker-api/databases"
	"github.com/linesmerrill/gun-locker-api/stats"
)

// Dashboard exported for testing purposes
type Dashboard struct {
	FDB    databases.FirearmDatabase
	AmmoDB databases.AmmunitionDatabase
	GDB    databases.GearDatabase
	ODB    databases.OpticDatabase
	ADB    databases.AccessoryDatabase
}

// snapshot fetches the five inventory collections concurrently and returns
// the first error encountered
func (d Dashboard) snapshot(ctx context.Context, user primitive.ObjectID) (stats.Inventory, error) {
	var inv stats.Inventory
	filter := bson.M{"user": user}
	errs := make([]error, 5)

	var wg sync.WaitGroup
	wg.Add(5)
	go func() { defer wg.Done(); inv.Firearms, errs[0] = d.FDB.Find(ctx, filter) }()
	go func() { defer wg.Done(); inv.Ammunition, errs[1] = d.AmmoDB.Find(ctx, filter) }()
	go func() { defer wg.Done(); inv.Gear, errs[2] = d.GDB.Find(ctx, filter) }()
	go func() { defer wg.Done(); inv.Optics, errs[3] = d.ODB.Find(ctx, filter) }()
	go func() { defer wg.Done(); inv.Accessories, errs[4] = d.ADB.Find(ctx, filter) }()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return stats.Inventory{}, err
		}
	}
	return inv, nil
}

// StatsHandler returns the dashboard aggregates: headline counters, total and
// per-category value, ammunition grouped by caliber and firearms grouped by
// type
func (d Dashboard) StatsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	inv, err := d.snapshot(ctx, user)
	if err != nil {
		config.ErrorStatus("failed to get inventory", http.StatusInternalServerError, w, err)
		return
	}

	response := map[string]interface{}{
		"counts":              stats.Counts(inv),
		"totalValue":          stats.TotalValue(inv),
		"valueByCategory":     stats.CategoryValues(inv),
		"ammunitionByCaliber": stats.AmmunitionByCaliber(inv.Ammunition),
		"firearmsByType":      stats.FirearmsByType(inv.Firearms),
	}
	b, err := json.Marshal(response)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// WarrantyAlertsHandler returns the items whose warranties are expired or
// expiring within 90 days, most urgent first
func (d Dashboard) WarrantyAlertsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	inv, err := d.snapshot(ctx, user)
	if err != nil {
		config.ErrorStatus("failed to get inventory", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(stats.WarrantyAlerts(inv, time.Now().UTC()))
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LowAmmoHandler returns the caliber buckets at or below threshold, which
// defaults to 100 rounds
func (d Dashboard) LowAmmoHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	threshold := stats.DefaultLowAmmoThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			config.ErrorStatus("failed to parse threshold", http.StatusBadRequest, w, err)
			return
		}
		threshold = parsed
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	ammunition, err := d.AmmoDB.Find(ctx, bson.M{"user": user})
	if err != nil {
		config.ErrorStatus("failed to get ammunition", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(stats.LowAmmoAlerts(ammunition, threshold))
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
