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

// Ammunition exported for testing purposes
type Ammunition struct {
	DB databases.AmmunitionDatabase
}

// AmmunitionHandler returns the caller's ammunition lots, newest first, with
// an optional caliber filter
func (a Ammunition) AmmunitionHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	filter := bson.M{"user": user}
	if caliber := r.URL.Query().Get("caliber"); caliber != "" {
		filter["caliber"] = caliber
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := a.DB.Find(ctx, filter, pageOptions(r)...)
	if err != nil {
		config.ErrorStatus("failed to get ammunition", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Ammunition{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AmmunitionByIDHandler returns one ammunition lot by ID
func (a Ammunition) AmmunitionByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	aID, err := pathObjectID(r, "ammunition_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := a.DB.FindOne(ctx, bson.M{"_id": aID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get ammunition by ID", http.StatusNotFound, w, err)
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

// CreateAmmunitionHandler inserts an ammunition lot owned by the caller
func (a Ammunition) CreateAmmunitionHandler(w http.ResponseWriter, r *http.Request) {
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
	if errs := models.ValidateAmmunition(fields, true); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to create record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.AmmunitionFields)
	id := stampNew(doc, user)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = a.DB.InsertOne(ctx, doc)
	if err != nil {
		config.ErrorStatus("failed to insert ammunition", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := a.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get created ammunition", http.StatusInternalServerError, w, err)
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

// UpdateAmmunitionHandler applies a partial update to an ammunition lot
func (a Ammunition) UpdateAmmunitionHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	aID, err := pathObjectID(r, "ammunition_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	fields, err := decodeBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if errs := models.ValidateAmmunition(fields, false); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to update record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.AmmunitionFields)
	if len(doc) == 0 {
		config.ErrorStatus("no updatable fields in request", http.StatusBadRequest, w, fmt.Errorf("empty update"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = a.DB.FindOne(ctx, bson.M{"_id": aID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get ammunition by ID", http.StatusNotFound, w, err)
		return
	}

	doc["updated"] = time.Now().UTC()
	err = a.DB.UpdateOne(ctx, bson.M{"_id": aID, "user": user}, bson.M{"$set": doc})
	if err != nil {
		config.ErrorStatus("failed to update ammunition", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := a.DB.FindOne(ctx, bson.M{"_id": aID})
	if err != nil {
		config.ErrorStatus("failed to get updated ammunition", http.StatusInternalServerError, w, err)
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

// DeleteAmmunitionHandler removes an ammunition lot owned by the caller
func (a Ammunition) DeleteAmmunitionHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	aID, err := pathObjectID(r, "ammunition_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = a.DB.FindOne(ctx, bson.M{"_id": aID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get ammunition by ID", http.StatusNotFound, w, err)
		return
	}
	err = a.DB.DeleteOne(ctx, bson.M{"_id": aID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to delete ammunition", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fmt.Sprintf(`{"deleted": %q}`, aID.Hex())))
}
