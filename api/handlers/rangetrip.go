package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linesmerrill/gun-locker-api/api"
	"github.com/linesmerrill/gun-locker-api/config"
	"github.com/linesmerrill/gun-locker-api/databases"
	"github.com/linesmerrill/gun-locker-api/models"
)

// RangeTrip exported for testing purposes
type RangeTrip struct {
	DB     databases.RangeTripDatabase
	ADB    databases.RangeTripAmmoDatabase
	AmmoDB databases.AmmunitionDatabase
	FDB    databases.FirearmDatabase
}

// decrementQuantity returns the lot quantity after firing rounds, clamped at
// zero so a miscounted session can never drive inventory negative
func decrementQuantity(quantity, roundsFired int) int {
	newQuantity := quantity - roundsFired
	if newQuantity < 0 {
		newQuantity = 0
	}
	return newQuantity
}

// incrementRoundCount returns the firearm's lifetime round count after a
// session
func incrementRoundCount(roundCount, roundsFired int) int {
	return roundCount + roundsFired
}

// RangeTripHandler returns the caller's range trips, most recent first
func (t RangeTrip) RangeTripHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var dbResp []models.RangeTrip
	if r.URL.Query().Get("expand") == "firearms_used" {
		dbResp, err = t.DB.FindExpanded(ctx, bson.M{"user": user})
	} else {
		dbResp, err = t.DB.Find(ctx, bson.M{"user": user}, pageOptions(r)...)
	}
	if err != nil {
		config.ErrorStatus("failed to get range trips", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.RangeTrip{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RangeTripByIDHandler returns one range trip by ID with the firearms used
// resolved
func (t RangeTrip) RangeTripByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	tID, err := pathObjectID(r, "range_trip_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := t.DB.FindOneExpanded(ctx, bson.M{"_id": tID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get range trip by ID", http.StatusNotFound, w, err)
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

// CreateRangeTripHandler inserts a range trip owned by the caller
func (t RangeTrip) CreateRangeTripHandler(w http.ResponseWriter, r *http.Request) {
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
	if errs := models.ValidateRangeTrip(fields, true); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to create record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.RangeTripFields)
	if err := convertRelationList(doc, "firearms_used"); err != nil {
		config.ErrorStatus("failed to parse firearms_used", http.StatusBadRequest, w, err)
		return
	}
	id := stampNew(doc, user)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = t.DB.InsertOne(ctx, doc)
	if err != nil {
		config.ErrorStatus("failed to insert range trip", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := t.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get created range trip", http.StatusInternalServerError, w, err)
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

// UpdateRangeTripHandler applies a partial update to a range trip
func (t RangeTrip) UpdateRangeTripHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	tID, err := pathObjectID(r, "range_trip_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	fields, err := decodeBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if errs := models.ValidateRangeTrip(fields, false); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to update record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.RangeTripFields)
	if len(doc) == 0 {
		config.ErrorStatus("no updatable fields in request", http.StatusBadRequest, w, fmt.Errorf("empty update"))
		return
	}
	if err := convertRelationList(doc, "firearms_used"); err != nil {
		config.ErrorStatus("failed to parse firearms_used", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = t.DB.FindOne(ctx, bson.M{"_id": tID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get range trip by ID", http.StatusNotFound, w, err)
		return
	}

	doc["updated"] = time.Now().UTC()
	err = t.DB.UpdateOne(ctx, bson.M{"_id": tID, "user": user}, bson.M{"$set": doc})
	if err != nil {
		config.ErrorStatus("failed to update range trip", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := t.DB.FindOne(ctx, bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("failed to get updated range trip", http.StatusInternalServerError, w, err)
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

// DeleteRangeTripHandler removes a range trip and its ammo usage rows. Usage
// rows go first, one by one, then the trip itself; inventory counters are left
// as-is since the rounds were genuinely fired.
func (t RangeTrip) DeleteRangeTripHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	tID, err := pathObjectID(r, "range_trip_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = t.DB.FindOne(ctx, bson.M{"_id": tID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get range trip by ID", http.StatusNotFound, w, err)
		return
	}

	usages, err := t.ADB.Find(ctx, bson.M{"range_trip": tID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get range trip ammo usage", http.StatusInternalServerError, w, err)
		return
	}
	for _, usage := range usages {
		if err := t.ADB.DeleteOne(ctx, bson.M{"_id": usage.ID, "user": user}); err != nil {
			config.ErrorStatus("failed to delete range trip ammo usage", http.StatusInternalServerError, w, err)
			return
		}
	}

	err = t.DB.DeleteOne(ctx, bson.M{"_id": tID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to delete range trip", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fmt.Sprintf(`{"deleted": %q}`, tID.Hex())))
}

// RangeTripAmmoHandler lists the ammo usage rows of one trip with firearm and
// ammunition resolved
func (t RangeTrip) RangeTripAmmoHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	tID, err := pathObjectID(r, "range_trip_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := t.ADB.FindExpanded(ctx, bson.M{"range_trip": tID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get range trip ammo usage", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.RangeTripAmmo{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LogAmmoUsageHandler records rounds fired on a trip and rolls the counters
// forward: the usage row is written first, then the ammunition lot is drawn
// down, then the firearm's lifetime round count is bumped. The steps run in
// order and a failed counter update does not unwind the usage row.
func (t RangeTrip) LogAmmoUsageHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	tID, err := pathObjectID(r, "range_trip_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	fields, err := decodeBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	fields["range_trip"] = tID.Hex()
	if errs := models.ValidateRangeTripAmmo(fields, true); len(errs) > 0 {
		config.ValidationErrorStatus("Failed to create record.", w, errs)
		return
	}

	doc := models.BuildDocument(fields, models.RangeTripAmmoFields)
	if err := convertRelations(doc, "range_trip", "firearm", "ammunition"); err != nil {
		config.ErrorStatus("failed to parse relation ids", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = t.DB.FindOne(ctx, bson.M{"_id": tID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get range trip by ID", http.StatusNotFound, w, err)
		return
	}

	roundsFired := 0
	if n, ok := models.Number(fields, "rounds_fired"); ok {
		roundsFired = int(n)
	}

	id := stampNew(doc, user)
	_, err = t.ADB.InsertOne(ctx, doc)
	if err != nil {
		config.ErrorStatus("failed to insert range trip ammo usage", http.StatusInternalServerError, w, err)
		return
	}

	if err := t.drawDownAmmunition(ctx, doc, user, roundsFired); err != nil {
		config.ErrorStatus("failed to update ammunition quantity", http.StatusInternalServerError, w, err)
		return
	}
	if err := t.bumpRoundCount(ctx, doc, user, roundsFired); err != nil {
		config.ErrorStatus("failed to update firearm round count", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := t.ADB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get created range trip ammo usage", http.StatusInternalServerError, w, err)
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

func (t RangeTrip) drawDownAmmunition(ctx context.Context, doc bson.M, user interface{}, roundsFired int) error {
	ammoID, ok := doc["ammunition"]
	if !ok {
		// dry-fire or unlogged lot, nothing to draw down
		return nil
	}
	ammo, err := t.AmmoDB.FindOne(ctx, bson.M{"_id": ammoID, "user": user})
	if err != nil {
		return err
	}
	newQuantity := decrementQuantity(ammo.Quantity, roundsFired)
	zap.S().Debugw("drawing down ammunition lot",
		"ammunition", ammo.ID.Hex(),
		"quantity", ammo.Quantity,
		"newQuantity", newQuantity)
	return t.AmmoDB.UpdateOne(ctx, bson.M{"_id": ammoID, "user": user}, bson.M{"$set": bson.M{
		"quantity": newQuantity,
		"updated":  time.Now().UTC(),
	}})
}

func (t RangeTrip) bumpRoundCount(ctx context.Context, doc bson.M, user interface{}, roundsFired int) error {
	firearmID := doc["firearm"]
	firearm, err := t.FDB.FindOne(ctx, bson.M{"_id": firearmID, "user": user})
	if err != nil {
		return err
	}
	return t.FDB.UpdateOne(ctx, bson.M{"_id": firearmID, "user": user}, bson.M{"$set": bson.M{
		"round_count": incrementRoundCount(firearm.RoundCount, roundsFired),
		"updated":     time.Now().UTC(),
	}})
}

// DeleteAmmoUsageHandler removes one usage row. Counters are not compensated;
// the rounds were fired regardless of the bookkeeping.
func (t RangeTrip) DeleteAmmoUsageHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	uID, err := pathObjectID(r, "usage_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = t.ADB.FindOne(ctx, bson.M{"_id": uID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to get range trip ammo usage by ID", http.StatusNotFound, w, err)
		return
	}
	err = t.ADB.DeleteOne(ctx, bson.M{"_id": uID, "user": user})
	if err != nil {
		config.ErrorStatus("failed to delete range trip ammo usage", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fmt.Sprintf(`{"deleted": %q}`, uID.Hex())))
}
