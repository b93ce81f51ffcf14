package handlers_test

import (
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/linesmerrill/gun-locker-api/api/handlers"
	"github.com/linesmerrill/gun-locker-api/models"
	"github.com/linesmerrill/gun-locker-api/stats"
)

func exportInventory() stats.Inventory {
	return stats.Inventory{
		Firearms: []models.Firearm{
			{
				Name: "Duty Pistol", Make: "Glock", Model: "19", SerialNumber: "ABC123",
				Caliber: "9mm", PurchaseDate: "2024-03-15 00:00:00.000Z",
				PurchasePrice: 549.99, Notes: "first purchase",
			},
		},
		Ammunition: []models.Ammunition{
			{Brand: "Federal", Caliber: "9mm", Quantity: 150},
		},
		Gear: []models.Gear{
			{Name: "Range Bag", Brand: "Savior", SerialNumber: "RB-445", PurchasePrice: 60},
		},
		Accessories: []models.Accessory{
			{Name: "Weapon Light", Brand: "Streamlight", SerialNumber: "TLR-889", PurchasePrice: 90},
		},
	}
}

func exportCSV(t *testing.T, target string) (*httptest.ResponseRecorder, [][]string) {
	t.Helper()

	user := primitive.NewObjectID()
	req := authedRequest(t, "GET", target, nil, user)

	e := handlers.Export{Inv: dashboardHandlerSet(inventoryDB(exportInventory()))}

	rr := httptest.NewRecorder()
	http.HandlerFunc(e.InventoryCSVHandler).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	records, err := csv.NewReader(rr.Body).ReadAll()
	assert.NoError(t, err)
	return rr, records
}

func TestExport_InventoryCSVHandler(t *testing.T) {
	rr, records := exportCSV(t, "/api/v1/inventory/export")

	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	expectedName := "gun-locker-inventory-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	assert.Contains(t, rr.Header().Get("Content-Disposition"), expectedName)

	assert.Equal(t, []string{"Category", "Name", "Brand", "Model", "Serial Number", "Purchase Date", "Purchase Price", "Notes"}, records[0])
	assert.Len(t, records, 5)

	firearm := records[1]
	assert.Equal(t, "Firearm", firearm[0])
	assert.Equal(t, "Duty Pistol", firearm[1])
	assert.Equal(t, "Glock", firearm[2])
	// timestamps collapse to a plain date
	assert.Equal(t, "2024-03-15", firearm[5])
	assert.Equal(t, "549.99", firearm[6])

	ammo := records[2]
	assert.Equal(t, "Ammunition", ammo[0])
	// lots are named by brand and caliber
	assert.Equal(t, "Federal 9mm", ammo[1])
	// zero price exports as blank, not 0
	assert.Equal(t, "", ammo[6])

	// every category carries its serial number through
	gear := records[3]
	assert.Equal(t, "Gear", gear[0])
	assert.Equal(t, "RB-445", gear[4])
	accessory := records[4]
	assert.Equal(t, "Accessory", accessory[0])
	assert.Equal(t, "TLR-889", accessory[4])
}

func TestExport_InventoryCSVHandlerCategoryFilter(t *testing.T) {
	_, records := exportCSV(t, "/api/v1/inventory/export?category=gear")

	assert.Len(t, records, 2)
	assert.Equal(t, "Gear", records[1][0])
	assert.Equal(t, "Range Bag", records[1][1])
}

func TestExport_InventoryCSVHandlerSearch(t *testing.T) {
	// caliber matches both the firearm and the ammunition lot
	_, records := exportCSV(t, "/api/v1/inventory/export?q=9mm")

	assert.Len(t, records, 3)
	assert.Equal(t, "Firearm", records[1][0])
	assert.Equal(t, "Ammunition", records[2][0])
}

// failingResponseWriter drops every body write, like a client that hung up
// mid-download
type failingResponseWriter struct {
	header http.Header
	code   int
}

func (f *failingResponseWriter) Header() http.Header  { return f.header }
func (f *failingResponseWriter) WriteHeader(code int) { f.code = code }
func (f *failingResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestExport_InventoryCSVHandlerStreamError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	user := primitive.NewObjectID()
	req := authedRequest(t, "GET", "/api/v1/inventory/export", nil, user)

	e := handlers.Export{Inv: dashboardHandlerSet(inventoryDB(exportInventory()))}

	w := &failingResponseWriter{header: http.Header{}}
	e.InventoryCSVHandler(w, req)

	assert.Equal(t, http.StatusOK, w.code)
	assert.Equal(t, 1, logs.FilterMessage("failed to stream inventory csv").Len())
}

func TestExport_InventoryCSVHandlerNoContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/inventory/export", nil)

	e := handlers.Export{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(e.InventoryCSVHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
