package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/gun-locker-api/api"
	"github.com/linesmerrill/gun-locker-api/config"
	"github.com/linesmerrill/gun-locker-api/databases"
	"github.com/linesmerrill/gun-locker-api/models"
)

// MaintenanceLog exported for testing purposes
type MaintenanceLog struct {
	DB databases.MaintenanceLogDatabase
}

// MaintenanceLogHandler returns the caller's maintenance history, most recent
// service date first. Accepts an optional firearm_id filter and resolves the
// firearm when expand=firearm is requested.
func (m MaintenanceLog) MaintenanceLogHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	filter := bson.M{"user": user}
	if firearmID := r.URL.Query().Get("firearm_id"); firearmID != "" {
		fID, err := primitive.ObjectIDFromHex(firearmID)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		filter["firearm"] = fID
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var dbResp []models.MaintenanceLog
	if r.URL.Query().Get("expand") == "firearm" {
		dbResp, err = m.DB.FindExpanded(ctx, filter)
	} else {
		dbResp, err = m.DB.Find(ctx, filter, pageOptions(r)...)
	}
	if err != nil {
		config.ErrorStatus("failed to get maintenance logs", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.MaintenanceLog{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MaintenanceLogByIDHandler returns one maintenance log by ID with its firearm
// resolved
func (m MaintenanceLog) MaintenanceLogByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	mID, err := pathObjectID(r, "maintenance_log_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := m.DB.FindOneExpanded(ctx, bson.M{"_id": mID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get maintenance log by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateMaintenanceLogHandler inserts a maintenance log owned by the caller
func (m MaintenanceLog) CreateMaintenanceLogHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	fields, err := decodeBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if errs := models.ValidateMaintenanceLog(fields, true); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to create record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.MaintenanceLogFields)
	if err := convertRelations(doc, "firearm"); err != nil {
		config.ErrorStatus("failed to parse firearm", http.StatusBadRequest, w, err)
		return
	}
	id := stampNew(doc, user)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = m.DB.InsertOne(ctx, doc)
	if err != nil {
		config.ErrorStatus("failed to insert maintenance log", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := m.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get created maintenance log", http.StatusInternalServerError, w, err)
		return
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateMaintenanceLogHandler applies a partial update to a maintenance log
func (m MaintenanceLog) UpdateMaintenanceLogHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	mID, err := pathObjectID(r, "maintenance_log_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	fields, err := decodeBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if errs := models.ValidateMaintenanceLog(fields, false); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to update record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.MaintenanceLogFields)
	if len(doc) == 0 {
		config.ErrorStatus("no updatable fields in request", http.StatusBadRequest, w, fmt.Errorf("empty update"))
		return
	}
	if err := convertRelations(doc, "firearm"); err != nil {
		config.ErrorStatus("failed to parse firearm", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = m.DB.FindOne(ctx, bson.M{"_id": mID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get maintenance log by ID", http.StatusNotFound, w, err)
		return
	}

	doc["updated"] = time.Now().UTC()
	err = m.DB.UpdateOne(ctx, bson.M{"_id": mID, "user": user}, bson.M{"$set": doc})
	if err != nil {
		config.ErrorStatus("failed to update maintenance log", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := m.DB.FindOne(ctx, bson.M{"_id": mID})
	if err != nil {
		config.ErrorStatus("failed to get updated maintenance log", http.StatusInternalServerError, w, err)
		return
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteMaintenanceLogHandler removes a maintenance log owned by the caller
func (m MaintenanceLog) DeleteMaintenanceLogHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	mID, err := pathObjectID(r, "maintenance_log_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = m.DB.FindOne(ctx, bson.M{"_id": mID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get maintenance log by ID", http.StatusNotFound, w, err)
		return
	}
	err = m.DB.DeleteOne(ctx, bson.M{"_id": mID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to delete maintenance log", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fmt.Sprintf(`{"deleted": %q}`, mID.Hex())))
}
