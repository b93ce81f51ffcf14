package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/gun-locker-api/api/handlers"
	"github.com/linesmerrill/gun-locker-api/databases"
	mocksdb "github.com/linesmerrill/gun-locker-api/databases/mocks"
	"github.com/linesmerrill/gun-locker-api/models"
)

func rangeTripHandlerSet(db *mocksdb.DatabaseHelper) handlers.RangeTrip {
	return handlers.RangeTrip{
		DB:     databases.NewRangeTripDatabase(db),
		ADB:    databases.NewRangeTripAmmoDatabase(db),
		AmmoDB: databases.NewAmmunitionDatabase(db),
		FDB:    databases.NewFirearmDatabase(db),
	}
}

func TestRangeTrip_LogAmmoUsageHandler(t *testing.T) {
	user := primitive.NewObjectID()
	tripID := primitive.NewObjectID()
	firearmID := primitive.NewObjectID()
	ammoID := primitive.NewObjectID()

	body, _ := json.Marshal(map[string]interface{}{
		"firearm":      firearmID.Hex(),
		"ammunition":   ammoID.Hex(),
		"rounds_fired": 80,
	})
	req := authedRequest(t, "POST", "/api/v1/range-trip/"+tripID.Hex()+"/ammo", body, user)
	req = mux.SetURLVars(req, map[string]string{"range_trip_id": tripID.Hex()})

	db := &mocksdb.DatabaseHelper{}

	// the parent trip exists and belongs to the caller
	tripConn := &mocksdb.CollectionHelper{}
	tripResult := &mocksdb.SingleResultHelper{}
	tripResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.RangeTrip)
		(*arg).ID = tripID
		(*arg).User = user
	})
	tripConn.On("FindOne", mock.Anything, mock.Anything).Return(tripResult)

	// the usage row is written first
	usageConn := &mocksdb.CollectionHelper{}
	insertResult := &mocksdb.InsertOneResultHelper{}
	var insertedUsage bson.M
	usageConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil).Run(func(args mock.Arguments) {
		insertedUsage = args.Get(1).(bson.M)
	})
	usageResult := &mocksdb.SingleResultHelper{}
	usageResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.RangeTripAmmo)
		(*arg).RangeTrip = tripID
		(*arg).Firearm = firearmID
		(*arg).Ammunition = ammoID
		(*arg).RoundsFired = 80
	})
	usageConn.On("FindOne", mock.Anything, mock.Anything).Return(usageResult)

	// the lot holds fewer rounds than were fired, so the quantity clamps
	ammoConn := &mocksdb.CollectionHelper{}
	ammoResult := &mocksdb.SingleResultHelper{}
	ammoResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Ammunition)
		(*arg).ID = ammoID
		(*arg).Quantity = 50
	})
	ammoConn.On("FindOne", mock.Anything, mock.Anything).Return(ammoResult)
	var ammoUpdate bson.M
	ammoConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		ammoUpdate = args.Get(2).(bson.M)
	})

	firearmConn := &mocksdb.CollectionHelper{}
	firearmResult := &mocksdb.SingleResultHelper{}
	firearmResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Firearm)
		(*arg).ID = firearmID
		(*arg).RoundCount = 1200
	})
	firearmConn.On("FindOne", mock.Anything, mock.Anything).Return(firearmResult)
	var firearmUpdate bson.M
	firearmConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		firearmUpdate = args.Get(2).(bson.M)
	})

	db.On("Collection", "range_trips").Return(tripConn)
	db.On("Collection", "range_trip_ammo").Return(usageConn)
	db.On("Collection", "ammunition").Return(ammoConn)
	db.On("Collection", "firearms").Return(firearmConn)

	u := rangeTripHandlerSet(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.LogAmmoUsageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	// relation ids were stored as ObjectIDs, not hex strings
	assert.Equal(t, tripID, insertedUsage["range_trip"])
	assert.Equal(t, firearmID, insertedUsage["firearm"])
	assert.Equal(t, ammoID, insertedUsage["ammunition"])
	assert.Equal(t, user, insertedUsage["user"])

	ammoSet := ammoUpdate["$set"].(bson.M)
	assert.Equal(t, 0, ammoSet["quantity"])

	firearmSet := firearmUpdate["$set"].(bson.M)
	assert.Equal(t, 1280, firearmSet["round_count"])
}

func TestRangeTrip_LogAmmoUsageHandlerNoAmmunition(t *testing.T) {
	user := primitive.NewObjectID()
	tripID := primitive.NewObjectID()
	firearmID := primitive.NewObjectID()

	body, _ := json.Marshal(map[string]interface{}{
		"firearm":      firearmID.Hex(),
		"rounds_fired": 30,
	})
	req := authedRequest(t, "POST", "/api/v1/range-trip/"+tripID.Hex()+"/ammo", body, user)
	req = mux.SetURLVars(req, map[string]string{"range_trip_id": tripID.Hex()})

	db := &mocksdb.DatabaseHelper{}

	tripConn := &mocksdb.CollectionHelper{}
	tripResult := &mocksdb.SingleResultHelper{}
	tripResult.On("Decode", mock.Anything).Return(nil)
	tripConn.On("FindOne", mock.Anything, mock.Anything).Return(tripResult)

	usageConn := &mocksdb.CollectionHelper{}
	insertResult := &mocksdb.InsertOneResultHelper{}
	usageConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	usageResult := &mocksdb.SingleResultHelper{}
	usageResult.On("Decode", mock.Anything).Return(nil)
	usageConn.On("FindOne", mock.Anything, mock.Anything).Return(usageResult)

	// no ammunition in the body, so the lot is never touched
	firearmConn := &mocksdb.CollectionHelper{}
	firearmResult := &mocksdb.SingleResultHelper{}
	firearmResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Firearm)
		(*arg).RoundCount = 100
	})
	firearmConn.On("FindOne", mock.Anything, mock.Anything).Return(firearmResult)
	firearmConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	db.On("Collection", "range_trips").Return(tripConn)
	db.On("Collection", "range_trip_ammo").Return(usageConn)
	db.On("Collection", "firearms").Return(firearmConn)

	u := rangeTripHandlerSet(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.LogAmmoUsageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	firearmConn.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestRangeTrip_LogAmmoUsageHandlerValidation(t *testing.T) {
	user := primitive.NewObjectID()
	tripID := primitive.NewObjectID()

	body, _ := json.Marshal(map[string]interface{}{"rounds_fired": 0})
	req := authedRequest(t, "POST", "/api/v1/range-trip/"+tripID.Hex()+"/ammo", body, user)
	req = mux.SetURLVars(req, map[string]string{"range_trip_id": tripID.Hex()})

	u := rangeTripHandlerSet(&mocksdb.DatabaseHelper{})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.LogAmmoUsageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "firearm")
	assert.Contains(t, rr.Body.String(), "rounds_fired")
}

func TestRangeTrip_DeleteRangeTripHandlerCascades(t *testing.T) {
	user := primitive.NewObjectID()
	tripID := primitive.NewObjectID()
	usageIDs := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	req := authedRequest(t, "DELETE", "/api/v1/range-trip/"+tripID.Hex(), nil, user)
	req = mux.SetURLVars(req, map[string]string{"range_trip_id": tripID.Hex()})

	db := &mocksdb.DatabaseHelper{}

	tripConn := &mocksdb.CollectionHelper{}
	tripResult := &mocksdb.SingleResultHelper{}
	tripResult.On("Decode", mock.Anything).Return(nil)
	tripConn.On("FindOne", mock.Anything, mock.Anything).Return(tripResult)
	tripConn.On("DeleteOne", mock.Anything, mock.Anything).Return(nil)

	usageConn := &mocksdb.CollectionHelper{}
	cursor := &mocksdb.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.RangeTripAmmo)
		*arg = []models.RangeTripAmmo{
			{ID: usageIDs[0], RangeTrip: tripID, User: user},
			{ID: usageIDs[1], RangeTrip: tripID, User: user},
		}
	})
	usageConn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)

	deletedUsages := []bson.M{}
	usageConn.On("DeleteOne", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		deletedUsages = append(deletedUsages, args.Get(1).(bson.M))
	})

	db.On("Collection", "range_trips").Return(tripConn)
	db.On("Collection", "range_trip_ammo").Return(usageConn)

	u := rangeTripHandlerSet(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.DeleteRangeTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	// every usage row went first, then the trip itself
	assert.Len(t, deletedUsages, 2)
	assert.Equal(t, usageIDs[0], deletedUsages[0]["_id"])
	assert.Equal(t, usageIDs[1], deletedUsages[1]["_id"])
	tripConn.AssertCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestRangeTrip_CreateRangeTripHandler(t *testing.T) {
	user := primitive.NewObjectID()
	firearmID := primitive.NewObjectID()
	body, _ := json.Marshal(map[string]interface{}{
		"date":          "2026-08-30",
		"location":      "County Range",
		"firearms_used": []string{firearmID.Hex()},
	})
	req := authedRequest(t, "POST", "/api/v1/range-trip", body, user)

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	insertResult := &mocksdb.InsertOneResultHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	var inserted bson.M
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(bson.M)
	})
	singleResultHelper.On("Decode", mock.Anything).Return(nil)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "range_trips").Return(conn)

	u := rangeTripHandlerSet(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.CreateRangeTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, []primitive.ObjectID{firearmID}, inserted["firearms_used"])
}

func TestRangeTrip_CreateRangeTripHandlerValidation(t *testing.T) {
	user := primitive.NewObjectID()
	body, _ := json.Marshal(map[string]interface{}{"notes": "forgot the basics"})
	req := authedRequest(t, "POST", "/api/v1/range-trip", body, user)

	u := rangeTripHandlerSet(&mocksdb.DatabaseHelper{})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.CreateRangeTripHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "date")
	assert.Contains(t, rr.Body.String(), "location")
}
