package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/gun-locker-api/api"
	"github.com/linesmerrill/gun-locker-api/config"
	"github.com/linesmerrill/gun-locker-api/stats"
)

// Export exported for testing purposes
type Export struct {
	Inv Dashboard
}

var exportHeaders = []string{"Category", "Name", "Brand", "Model", "Serial Number", "Purchase Date", "Purchase Price", "Notes"}

type exportRow struct {
	category     string
	name         string
	brand        string
	model        string
	serialNumber string
	purchaseDate string
	price        float64
	notes        string
	caliber      string
}

func (row exportRow) matches(q string) bool {
	if q == "" {
		return true
	}
	for _, field := range []string{row.name, row.brand, row.model, row.serialNumber, row.caliber} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (row exportRow) record() []string {
	price := ""
	if row.price != 0 {
		price = strconv.FormatFloat(row.price, 'f', -1, 64)
	}
	return []string{row.category, row.name, row.brand, row.model, row.serialNumber, formatExportDate(row.purchaseDate), price, row.notes}
}

func formatExportDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := stats.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

// InventoryCSVHandler streams the caller's inventory as a CSV download.
// Accepts optional category and q filters matching the inventory page.
func (e Export) InventoryCSVHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	category := r.URL.Query().Get("category")
	q := strings.ToLower(r.URL.Query().Get("q"))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	inv, err := e.Inv.snapshot(ctx, user)
	if err != nil {
		config.ErrorStatus("failed to get inventory", http.StatusInternalServerError, w, err)
		return
	}

	rows := []exportRow{}
	if category == "" || category == "firearm" {
		for _, f := range inv.Firearms {
			rows = append(rows, exportRow{
				category: "Firearm", name: f.Name, brand: f.Make, model: f.Model,
				serialNumber: f.SerialNumber, purchaseDate: f.PurchaseDate,
				price: f.PurchasePrice, notes: f.Notes, caliber: f.Caliber,
			})
		}
	}
	if category == "" || category == "ammunition" {
		for _, a := range inv.Ammunition {
			rows = append(rows, exportRow{
				category: "Ammunition", name: strings.TrimSpace(a.Brand + " " + a.Caliber), brand: a.Brand,
				purchaseDate: a.PurchaseDate, price: a.PurchasePrice, notes: a.Notes, caliber: a.Caliber,
			})
		}
	}
	if category == "" || category == "gear" {
		for _, g := range inv.Gear {
			rows = append(rows, exportRow{
				category: "Gear", name: g.Name, brand: g.Brand, model: g.Model,
				serialNumber: g.SerialNumber, purchaseDate: g.PurchaseDate,
				price: g.PurchasePrice, notes: g.Notes,
			})
		}
	}
	if category == "" || category == "optic" {
		for _, o := range inv.Optics {
			rows = append(rows, exportRow{
				category: "Optic", name: o.Name, brand: o.Brand, model: o.Model,
				serialNumber: o.SerialNumber, purchaseDate: o.PurchaseDate,
				price: o.PurchasePrice, notes: o.Notes,
			})
		}
	}
	if category == "" || category == "accessory" {
		for _, a := range inv.Accessories {
			rows = append(rows, exportRow{
				category: "Accessory", name: a.Name, brand: a.Brand, model: a.Model,
				serialNumber: a.SerialNumber, purchaseDate: a.PurchaseDate,
				price: a.PurchasePrice, notes: a.Notes,
			})
		}
	}

	filename := fmt.Sprintf("gun-locker-inventory-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	_ = writer.Write(exportHeaders)
	for _, row := range rows {
		if !row.matches(q) {
			continue
		}
		_ = writer.Write(row.record())
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		// headers are already gone; the truncated download can only be logged
		zap.S().Errorw("failed to stream inventory csv", "error", err)
	}
}
