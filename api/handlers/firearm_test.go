package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/api"
	"github.com/linesmerrill/gun-locker-api/api/handlers"
	"github.com/linesmerrill/gun-locker-api/databases"
	mocksdb "github.com/linesmerrill/gun-locker-api/databases/mocks"
	"github.com/linesmerrill/gun-locker-api/models"
)

func authedRequest(t *testing.T, method, target string, body []byte, user primitive.ObjectID) *http.Request {
	t.Helper()
	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequest(method, target, nil)
	} else {
		req, err = http.NewRequest(method, target, bytes.NewReader(body))
	}
	if err != nil {
		t.Fatal(err)
	}
	return req.WithContext(api.ContextWithUserID(context.Background(), user))
}

func TestFirearm_FirearmByIDHandlerBadID(t *testing.T) {
	user := primitive.NewObjectID()
	req := authedRequest(t, "GET", "/api/v1/firearm/1234", nil, user)
	req = mux.SetURLVars(req, map[string]string{"firearm_id": "1234"})

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(&mocksdb.DatabaseHelper{})}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.FirearmByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get objectID from Hex")
}

func TestFirearm_FirearmByIDHandlerUnauthorized(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/firearm/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"firearm_id": "5fc51f58c72ff10004dca382"})

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(&mocksdb.DatabaseHelper{})}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.FirearmByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestFirearm_FirearmByIDHandler(t *testing.T) {
	user := primitive.NewObjectID()
	firearmID := primitive.NewObjectID()
	req := authedRequest(t, "GET", "/api/v1/firearm/"+firearmID.Hex(), nil, user)
	req = mux.SetURLVars(req, map[string]string{"firearm_id": firearmID.Hex()})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Firearm)
		(*arg).ID = firearmID
		(*arg).Name = "Duty Pistol"
		(*arg).User = user
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "firearms").Return(conn)

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.FirearmByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.Firearm
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Duty Pistol", got.Name)
}

func TestFirearm_FirearmByIDHandlerNotFound(t *testing.T) {
	user := primitive.NewObjectID()
	firearmID := primitive.NewObjectID()
	req := authedRequest(t, "GET", "/api/v1/firearm/"+firearmID.Hex(), nil, user)
	req = mux.SetURLVars(req, map[string]string{"firearm_id": firearmID.Hex()})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "firearms").Return(conn)

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.FirearmByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get firearm by ID")
}

func TestFirearm_FirearmHandler(t *testing.T) {
	user := primitive.NewObjectID()
	req := authedRequest(t, "GET", "/api/v1/firearms", nil, user)

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	cursor := &mocksdb.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Firearm)
		*arg = []models.Firearm{
			{ID: primitive.NewObjectID(), Name: "Duty Pistol", User: user},
			{ID: primitive.NewObjectID(), Name: "Hunting Rifle", User: user},
		}
	})
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "firearms").Return(conn)

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.FirearmHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.Firearm
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestFirearm_FirearmHandlerPagination(t *testing.T) {
	user := primitive.NewObjectID()
	req := authedRequest(t, "GET", "/api/v1/firearms?limit=10&page=2", nil, user)

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	cursor := &mocksdb.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil)
	var sortOpt, pageOpt *options.FindOptions
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil).Run(func(args mock.Arguments) {
		sortOpt = args.Get(2).(*options.FindOptions)
		pageOpt = args.Get(3).(*options.FindOptions)
	})
	db.On("Collection", "firearms").Return(conn)

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.FirearmHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	// the default sort survives alongside the page window
	assert.NotNil(t, sortOpt.Sort)
	assert.Equal(t, int64(10), *pageOpt.Limit)
	assert.Equal(t, int64(10), *pageOpt.Skip)
}

func TestFirearm_FirearmHandlerEmptyList(t *testing.T) {
	user := primitive.NewObjectID()
	req := authedRequest(t, "GET", "/api/v1/firearms", nil, user)

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	cursor := &mocksdb.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "firearms").Return(conn)

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.FirearmHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestFirearm_CreateFirearmHandler(t *testing.T) {
	user := primitive.NewObjectID()
	body, _ := json.Marshal(map[string]interface{}{
		"name":    "Duty Pistol",
		"type":    "handgun",
		"caliber": "9mm",
		"notes":   "",
	})
	req := authedRequest(t, "POST", "/api/v1/firearm", body, user)

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	insertResult := &mocksdb.InsertOneResultHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	var inserted bson.M
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(bson.M)
	})
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Firearm)
		(*arg).Name = "Duty Pistol"
		(*arg).User = user
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "firearms").Return(conn)

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.CreateFirearmHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	// empty strings never reach the store, ownership and timestamps do
	assert.Equal(t, "Duty Pistol", inserted["name"])
	assert.NotContains(t, inserted, "notes")
	assert.Equal(t, user, inserted["user"])
	assert.Contains(t, inserted, "created")
	assert.Contains(t, inserted, "updated")
}

func TestFirearm_CreateFirearmHandlerValidation(t *testing.T) {
	user := primitive.NewObjectID()
	body, _ := json.Marshal(map[string]interface{}{"type": "crossbow"})
	req := authedRequest(t, "POST", "/api/v1/firearm", body, user)

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(&mocksdb.DatabaseHelper{})}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.CreateFirearmHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "cannot be blank")
	assert.Contains(t, rr.Body.String(), "must be one of")
}

func TestFirearm_UpdateRoundCountHandlerClampsAtZero(t *testing.T) {
	user := primitive.NewObjectID()
	firearmID := primitive.NewObjectID()
	body, _ := json.Marshal(map[string]interface{}{"rounds_to_add": -80})
	req := authedRequest(t, "PATCH", "/api/v1/firearm/"+firearmID.Hex()+"/round-count", body, user)
	req = mux.SetURLVars(req, map[string]string{"firearm_id": firearmID.Hex()})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Firearm)
		(*arg).ID = firearmID
		(*arg).RoundCount = 50
		(*arg).User = user
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)

	var update bson.M
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		update = args.Get(2).(bson.M)
	})
	db.On("Collection", "firearms").Return(conn)

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UpdateRoundCountHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	set := update["$set"].(bson.M)
	assert.Equal(t, 0, set["round_count"])
}

func TestFirearm_DeleteFirearmHandler(t *testing.T) {
	user := primitive.NewObjectID()
	firearmID := primitive.NewObjectID()
	req := authedRequest(t, "DELETE", "/api/v1/firearm/"+firearmID.Hex(), nil, user)
	req = mux.SetURLVars(req, map[string]string{"firearm_id": firearmID.Hex()})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)

	var deleteFilter bson.M
	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		deleteFilter = args.Get(1).(bson.M)
	})
	db.On("Collection", "firearms").Return(conn)

	u := handlers.Firearm{DB: databases.NewFirearmDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.DeleteFirearmHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), firearmID.Hex())

	// rows belonging to another user can never match the delete filter
	assert.Equal(t, user, deleteFilter["user"])
}
