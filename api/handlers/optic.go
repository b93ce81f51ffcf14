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

// Optic exported for testing purposes
type Optic struct {
	DB databases.OpticDatabase
}

// OpticHandler returns the caller's optics, newest first. The host firearm is
// resolved when expand=mounted_on is requested.
func (o Optic) OpticHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	filter := bson.M{"user": user}
	if opticType := r.URL.Query().Get("type"); opticType != "" {
		filter["type"] = opticType
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var dbResp []models.Optic
	if r.URL.Query().Get("expand") == "mounted_on" {
		dbResp, err = o.DB.FindExpanded(ctx, filter)
	} else {
		dbResp, err = o.DB.Find(ctx, filter, pageOptions(r)...)
	}
	if err != nil {
		config.ErrorStatus("failed to get optics", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Optic{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// OpticByIDHandler returns one optic by ID with its relations resolved
func (o Optic) OpticByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	oID, err := pathObjectID(r, "optic_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := o.DB.FindOneExpanded(ctx, bson.M{"_id": oID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get optic by ID", http.StatusNotFound, w, err)
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

// CreateOpticHandler inserts an optic owned by the caller
func (o Optic) CreateOpticHandler(w http.ResponseWriter, r *http.Request) {
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
	if errs := models.ValidateOptic(fields, true); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to create record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.OpticFields)
	if err := convertRelations(doc, "mounted_on"); err != nil {
		config.ErrorStatus("failed to parse mounted_on", http.StatusBadRequest, w, err)
		return
	}
	id := stampNew(doc, user)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = o.DB.InsertOne(ctx, doc)
	if err != nil {
		config.ErrorStatus("failed to insert optic", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := o.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get created optic", http.StatusInternalServerError, w, err)
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

// UpdateOpticHandler applies a partial update to an optic
func (o Optic) UpdateOpticHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	oID, err := pathObjectID(r, "optic_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	fields, err := decodeBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if errs := models.ValidateOptic(fields, false); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to update record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.OpticFields)
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
	_, err = o.DB.FindOne(ctx, bson.M{"_id": oID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get optic by ID", http.StatusNotFound, w, err)
		return
	}

	doc["updated"] = time.Now().UTC()
	err = o.DB.UpdateOne(ctx, bson.M{"_id": oID, "user": user}, bson.M{"$set": doc})
	if err != nil {
		config.ErrorStatus("failed to update optic", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := o.DB.FindOne(ctx, bson.M{"_id": oID})
	if err != nil {
		config.ErrorStatus("failed to get updated optic", http.StatusInternalServerError, w, err)
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

// DeleteOpticHandler removes an optic owned by the caller
func (o Optic) DeleteOpticHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	oID, err := pathObjectID(r, "optic_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = o.DB.FindOne(ctx, bson.M{"_id": oID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get optic by ID", http.StatusNotFound, w, err)
		return
	}
	err = o.DB.DeleteOne(ctx, bson.M{"_id": oID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to delete optic", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fmt.Sprintf(`{"deleted": %q}`, oID.Hex())))
}
