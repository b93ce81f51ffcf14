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

// Accessory exported for testing purposes
type Accessory struct {
	DB databases.AccessoryDatabase
}

// AccessoryHandler returns the caller's accessories, newest first. The host
// firearm is resolved when expand=mounted_on is requested.
func (a Accessory) AccessoryHandler(w http.ResponseWriter, r *http.Request) {
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

	var dbResp []models.Accessory
	if r.URL.Query().Get("expand") == "mounted_on" {
		dbResp, err = a.DB.FindExpanded(ctx, filter)
	} else {
		dbResp, err = a.DB.Find(ctx, filter, pageOptions(r)...)
	}
	if err != nil {
		config.ErrorStatus("failed to get accessories", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Accessory{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AccessoryByIDHandler returns one accessory by ID with its relations resolved
func (a Accessory) AccessoryByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	aID, err := pathObjectID(r, "accessory_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := a.DB.FindOneExpanded(ctx, bson.M{"_id": aID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get accessory by ID", http.StatusNotFound, w, err)
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

// CreateAccessoryHandler inserts an accessory owned by the caller
func (a Accessory) CreateAccessoryHandler(w http.ResponseWriter, r *http.Request) {
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
	if errs := models.ValidateAccessory(fields, true); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to create record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.AccessoryFields)
	if err := convertRelations(doc, "mounted_on"); err != nil {
		config.ErrorStatus("failed to parse mounted_on", http.StatusBadRequest, w, err)
		return
	}
	id := stampNew(doc, user)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = a.DB.InsertOne(ctx, doc)
	if err != nil {
		config.ErrorStatus("failed to insert accessory", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := a.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get created accessory", http.StatusInternalServerError, w, err)
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

// UpdateAccessoryHandler applies a partial update to an accessory
func (a Accessory) UpdateAccessoryHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	aID, err := pathObjectID(r, "accessory_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	fields, err := decodeBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if errs := models.ValidateAccessory(fields, false); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to update record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.AccessoryFields)
	if len(doc) == 0 {
		config.ErrorStatus("no updatable fields in request", http.StatusBadRequest, w, fmt.Errorf("empty update"))
		return
	}
	if err := convertRelations(doc, "mounted_on"); err != nil {
		config.ErrorStatus("failed to parse mounted_on", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = a.DB.FindOne(ctx, bson.M{"_id": aID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get accessory by ID", http.StatusNotFound, w, err)
		return
	}

	doc["updated"] = time.Now().UTC()
	err = a.DB.UpdateOne(ctx, bson.M{"_id": aID, "user": user}, bson.M{"$set": doc})
	if err != nil {
		config.ErrorStatus("failed to update accessory", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := a.DB.FindOne(ctx, bson.M{"_id": aID})
	if err != nil {
		config.ErrorStatus("failed to get updated accessory", http.StatusInternalServerError, w, err)
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

// DeleteAccessoryHandler removes an accessory owned by the caller
func (a Accessory) DeleteAccessoryHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	aID, err := pathObjectID(r, "accessory_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = a.DB.FindOne(ctx, bson.M{"_id": aID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get accessory by ID", http.StatusNotFound, w, err)
		return
	}
	err = a.DB.DeleteOne(ctx, bson.M{"_id": aID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to delete accessory", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fmt.Sprintf(`{"deleted": %q}`, aID.Hex())))
}
