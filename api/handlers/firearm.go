package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/gun-locker-api/api"
	"github.com/linesmerrill/gun-locker-api/config"
	"github.com/linesmerrill/gun-locker-api/databases"
	"github.com/linesmerrill/gun-locker-api/models"
)

// Firearm exported for testing purposes
type Firearm struct {
	DB databases.FirearmDatabase
}

// FirearmHandler returns the caller's firearms, newest first. Supports
// optional status, type and caliber filters.
func (f Firearm) FirearmHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	filter := bson.M{"user": user}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if firearmType := r.URL.Query().Get("type"); firearmType != "" {
		filter["type"] = firearmType
	}
	if caliber := r.URL.Query().Get("caliber"); caliber != "" {
		filter["caliber"] = caliber
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := f.DB.Find(ctx, filter, pageOptions(r)...)
	if err != nil {
		config.ErrorStatus("failed to get firearms", http.StatusNotFound, w, err)
		return
	}

	// the frontend expects a list even when the locker is empty
	if len(dbResp) == 0 {
		dbResp = []models.Firearm{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// FirearmsSearchHandler matches q case-insensitively against name, make,
// model, serial number and caliber within the caller's locker
func (f Firearm) FirearmsSearchHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	q := regexp.QuoteMeta(r.URL.Query().Get("q"))
	regex := primitive.Regex{Pattern: q, Options: "i"}
	filter := bson.M{
		"user": user,
		"$or": []bson.M{
			{"name": regex},
			{"make": regex},
			{"model": regex},
			{"serial_number": regex},
			{"caliber": regex},
		},
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := f.DB.Find(ctx, filter, pageOptions(r)...)
	if err != nil {
		config.ErrorStatus("failed to search firearms", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Firearm{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// FirearmByIDHandler returns one firearm by ID, with the owning user resolved
// when expand=user is requested
func (f Firearm) FirearmByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	fID, err := pathObjectID(r, "firearm_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var dbResp *models.Firearm
	if r.URL.Query().Get("expand") == "user" {
		dbResp, err = f.DB.FindOneExpanded(ctx, bson.M{"_id": fID, "user": user})
	} else {
		dbResp, err = f.DB.FindOne(ctx, bson.M{"_id": fID, "user": user})
	}
	if err != nil {
		config.ErrorStatus("failed to get firearm by ID", http.StatusNotFound, w, err)
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

// CreateFirearmHandler inserts a firearm owned by the caller and returns the
// stored record
func (f Firearm) CreateFirearmHandler(w http.ResponseWriter, r *http.Request) {
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
	if errs := models.ValidateFirearm(fields, true); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to create record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.FirearmFields)
	id := stampNew(doc, user)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = f.DB.InsertOne(ctx, doc)
	if err != nil {
		config.ErrorStatus("failed to insert firearm", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := f.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get created firearm", http.StatusInternalServerError, w, err)
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

// UpdateFirearmHandler applies a partial update to a firearm owned by the
// caller and returns the updated record
func (f Firearm) UpdateFirearmHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	fID, err := pathObjectID(r, "firearm_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	fields, err := decodeBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if errs := models.ValidateFirearm(fields, false); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to update record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.FirearmFields)
	if len(doc) == 0 {
		config.ErrorStatus("no updatable fields in request", http.StatusBadRequest, w, fmt.Errorf("empty update"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = f.DB.FindOne(ctx, bson.M{"_id": fID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get firearm by ID", http.StatusNotFound, w, err)
		return
	}

	doc["updated"] = time.Now().UTC()
	err = f.DB.UpdateOne(ctx, bson.M{"_id": fID, "user": user}, bson.M{"$set": doc})
	if err != nil {
		config.ErrorStatus("failed to update firearm", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := f.DB.FindOne(ctx, bson.M{"_id": fID})
	if err != nil {
		config.ErrorStatus("failed to get updated firearm", http.StatusInternalServerError, w, err)
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

// UpdateRoundCountHandler adds rounds_to_add to the firearm's round count,
// clamping at zero so a correction can never drive the counter negative
func (f Firearm) UpdateRoundCountHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	fID, err := pathObjectID(r, "firearm_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	fields, err := decodeBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	rounds, ok := models.Number(fields, "rounds_to_add")
	if !ok {
		config.ValidationErrorStatus("Failed to update record.", w, map[string]string{"rounds_to_add": "cannot be blank"})
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	firearm, err := f.DB.FindOne(ctx, bson.M{"_id": fID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get firearm by ID", http.StatusNotFound, w, err)
		return
	}

	newCount := firearm.RoundCount + int(rounds)
	if newCount < 0 {
		newCount = 0
	}
	err = f.DB.UpdateOne(ctx, bson.M{"_id": fID, "user": user}, bson.M{"$set": bson.M{
		"round_count": newCount,
		"updated":     time.Now().UTC(),
	}})
	if err != nil {
		config.ErrorStatus("failed to update firearm round count", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := f.DB.FindOne(ctx, bson.M{"_id": fID})
	if err != nil {
		config.ErrorStatus("failed to get updated firearm", http.StatusInternalServerError, w, err)
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

// DeleteFirearmHandler removes a firearm owned by the caller
func (f Firearm) DeleteFirearmHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	fID, err := pathObjectID(r, "firearm_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = f.DB.FindOne(ctx, bson.M{"_id": fID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get firearm by ID", http.StatusNotFound, w, err)
		return
	}
	err = f.DB.DeleteOne(ctx, bson.M{"_id": fID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to delete firearm", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fmt.Sprintf(`{"deleted": %q}`, fID.Hex())))
}
