package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/gun-locker-api/api/handlers"
	"github.com/linesmerrill/gun-locker-api/databases"
	mocksdb "github.com/linesmerrill/gun-locker-api/databases/mocks"
	"github.com/linesmerrill/gun-locker-api/models"
)

func userHandlerSet(db *mocksdb.DatabaseHelper) handlers.User {
	return handlers.User{
		DB:  databases.NewUserDatabase(db),
		RDB: databases.NewPasswordResetDatabase(db),
	}
}

func TestUser_UserCreateHandlerValidation(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{"email": "", "password": "short"})
	req := httptest.NewRequest("POST", "/api/v1/user/create-user", bytes.NewReader(body))

	u := userHandlerSet(&mocksdb.DatabaseHelper{})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "email")
	assert.Contains(t, rr.Body.String(), "password")
}

func TestUser_UserCreateHandlerDuplicateEmail(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{"email": "dan@example.com", "password": "hunter2hunter2"})
	req := httptest.NewRequest("POST", "/api/v1/user/create-user", bytes.NewReader(body))

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	// Decode succeeding means the email is already taken
	singleResultHelper.On("Decode", mock.Anything).Return(nil)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "users").Return(conn)

	u := userHandlerSet(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "email already exists")
}

func TestUser_UserCreateHandler(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{
		"email":    "dan@example.com",
		"password": "hunter2hunter2",
		"name":     "Dan",
	})
	req := httptest.NewRequest("POST", "/api/v1/user/create-user", bytes.NewReader(body))

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}

	notFound := &mocksdb.SingleResultHelper{}
	notFound.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	found := &mocksdb.SingleResultHelper{}
	found.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).Email = "dan@example.com"
		(*arg).Name = "Dan"
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(notFound).Once()
	conn.On("FindOne", mock.Anything, mock.Anything).Return(found)

	insertResult := &mocksdb.InsertOneResultHelper{}
	var inserted bson.M
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(bson.M)
	})
	db.On("Collection", "users").Return(conn)

	u := userHandlerSet(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "dan@example.com", inserted["email"])
	// the stored password is a bcrypt hash, never the plaintext
	stored, _ := inserted["password"].(string)
	assert.NotEqual(t, "hunter2hunter2", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("hunter2hunter2")))
	// the response never leaks the password hash
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestUser_UserLoginHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	assert.NoError(t, err)

	body, _ := json.Marshal(map[string]interface{}{"email": "dan@example.com", "password": "hunter2hunter2"})
	req := httptest.NewRequest("POST", "/api/v1/user/login", bytes.NewReader(body))

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).ID = primitive.NewObjectID()
		(*arg).Email = "dan@example.com"
		(*arg).Password = string(hash)
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "users").Return(conn)

	u := userHandlerSet(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
}

func TestUser_UserLoginHandlerWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)

	body, _ := json.Marshal(map[string]interface{}{"email": "dan@example.com", "password": "wrong-password"})
	req := httptest.NewRequest("POST", "/api/v1/user/login", bytes.NewReader(body))

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).Password = string(hash)
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "users").Return(conn)

	u := userHandlerSet(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid credentials")
}

func TestUser_UserHandlerForbidden(t *testing.T) {
	user := primitive.NewObjectID()
	other := primitive.NewObjectID()

	req := authedRequest(t, "GET", "/api/v1/user/"+other.Hex(), nil, user)
	req = mux.SetURLVars(req, map[string]string{"user_id": other.Hex()})

	u := userHandlerSet(&mocksdb.DatabaseHelper{})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "cannot access another user")
}

func TestUser_ResetPasswordHandlerShortPassword(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{"token": "abc", "password": "short"})
	req := httptest.NewRequest("POST", "/api/v1/user/reset-password", bytes.NewReader(body))

	u := userHandlerSet(&mocksdb.DatabaseHelper{})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ResetPasswordHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "password")
}

func TestUser_ResetPasswordHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	resetID := primitive.NewObjectID()

	body, _ := json.Marshal(map[string]interface{}{"token": "plain-token", "password": "a-new-password"})
	req := httptest.NewRequest("POST", "/api/v1/user/reset-password", bytes.NewReader(body))

	db := &mocksdb.DatabaseHelper{}

	resetConn := &mocksdb.CollectionHelper{}
	resetResult := &mocksdb.SingleResultHelper{}
	resetResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.PasswordReset)
		(*arg).ID = resetID
		(*arg).UserID = userID
	})
	resetConn.On("FindOne", mock.Anything, mock.Anything).Return(resetResult)
	var resetUpdate bson.M
	resetConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		resetUpdate = args.Get(2).(bson.M)
	})

	userConn := &mocksdb.CollectionHelper{}
	var userFilter, userUpdate bson.M
	userConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		userFilter = args.Get(1).(bson.M)
		userUpdate = args.Get(2).(bson.M)
	})

	db.On("Collection", "password_resets").Return(resetConn)
	db.On("Collection", "users").Return(userConn)

	u := userHandlerSet(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ResetPasswordHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "password updated")

	assert.Equal(t, userID, userFilter["_id"])
	userSet := userUpdate["$set"].(bson.M)
	stored, _ := userSet["password"].(string)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("a-new-password")))

	// the token is single-use
	resetSet := resetUpdate["$set"].(bson.M)
	assert.Contains(t, resetSet, "usedAt")
}

func TestUser_ResetPasswordHandlerInvalidToken(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{"token": "expired", "password": "a-new-password"})
	req := httptest.NewRequest("POST", "/api/v1/user/reset-password", bytes.NewReader(body))

	db := &mocksdb.DatabaseHelper{}
	resetConn := &mocksdb.CollectionHelper{}
	resetResult := &mocksdb.SingleResultHelper{}
	resetResult.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	resetConn.On("FindOne", mock.Anything, mock.Anything).Return(resetResult)
	db.On("Collection", "password_resets").Return(resetConn)

	u := userHandlerSet(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ResetPasswordHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid or expired token")
}
