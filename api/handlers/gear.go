package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/gun-locker-api/api"
	"github.com/linesmerrill/gun-locker-api/config"
	"github.com/linesmerrill/gun-locker-api/databases"
	"github.com/linesmerrill/gun-locker-api/models"
)

// Gear exported for testing purposes
type Gear struct {
	DB databases.GearDatabase
}

// GearHandler returns the caller's gear, newest first. The linked firearm is
// resolved when expand=linked_firearm is requested.
func (g Gear) GearHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	filter := bson.M{"user": user}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var dbResp []models.Gear
	if r.URL.Query().Get("expand") == "linked_firearm" {
		dbResp, err = g.DB.FindExpanded(ctx, filter)
	} else {
		dbResp, err = g.DB.Find(ctx, filter, pageOptions(r)...)
	}
	if err != nil {
		config.ErrorStatus("failed to get gear", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Gear{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// GearByIDHandler returns one gear item by ID with its relations resolved
func (g Gear) GearByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	gID, err := pathObjectID(r, "gear_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := g.DB.FindOneExpanded(ctx, bson.M{"_id": gID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get gear by ID", http.StatusNotFound, w, err)
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

// CreateGearHandler inserts a gear item owned by the caller
func (g Gear) CreateGearHandler(w http.ResponseWriter, r *http.Request) {
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
	if errs := models.ValidateGear(fields, true); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to create record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.GearFields)
	if err := convertRelations(doc, "linked_firearm"); err != nil {
		config.ErrorStatus("failed to parse linked_firearm", http.StatusBadRequest, w, err)
		return
	}
	id := stampNew(doc, user)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = g.DB.InsertOne(ctx, doc)
	if err != nil {
		config.ErrorStatus("failed to insert gear", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := g.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get created gear", http.StatusInternalServerError, w, err)
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

// UpdateGearHandler applies a partial update to a gear item
func (g Gear) UpdateGearHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	gID, err := pathObjectID(r, "gear_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	fields, err := decodeBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if errs := models.ValidateGear(fields, false); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to update record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.GearFields)
	if len(doc) == 0 {
		config.ErrorStatus("no updatable fields in request", http.StatusBadRequest, w, fmt.Errorf("empty update"))
		return
	}
	if err := convertRelations(doc, "linked_firearm"); err != nil {
		config.ErrorStatus("failed to parse linked_firearm", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = g.DB.FindOne(ctx, bson.M{"_id": gID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get gear by ID", http.StatusNotFound, w, err)
		return
	}

	doc["updated"] = time.Now().UTC()
	err = g.DB.UpdateOne(ctx, bson.M{"_id": gID, "user": user}, bson.M{"$set": doc})
	if err != nil {
		config.ErrorStatus("failed to update gear", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := g.DB.FindOne(ctx, bson.M{"_id": gID})
	if err != nil {
		config.ErrorStatus("failed to get updated gear", http.StatusInternalServerError, w, err)
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

// DeleteGearHandler removes a gear item owned by the caller
func (g Gear) DeleteGearHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	gID, err := pathObjectID(r, "gear_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = g.DB.FindOne(ctx, bson.M{"_id": gID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get gear by ID", http.StatusNotFound, w, err)
		return
	}
	err = g.DB.DeleteOne(ctx, bson.M{"_id": gID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to delete gear", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fmt.Sprintf(`{"deleted": %q}`, gID.Hex())))
}
