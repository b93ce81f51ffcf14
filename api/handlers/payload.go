package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/api"
	"github.com/linesmerrill/gun-locker-api/databases"
)

// decodeBody reads a JSON request body into a loose field map so that absent
// fields can be told apart from empty ones when the write payload is built
func decodeBody(r *http.Request) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	err := json.NewDecoder(r.Body).Decode(&fields)
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// pageOptions reads the optional limit and page query values of a list
// request. Without a positive limit the full list is returned; page defaults
// to the first.
func pageOptions(r *http.Request) []*options.FindOptions {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return nil
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	return []*options.FindOptions{databases.PageOpts(limit, page)}
}

// actingUser returns the authenticated user id placed in the context by the
// auth middleware
func actingUser(r *http.Request) (primitive.ObjectID, error) {
	id, ok := api.UserIDFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("no authenticated user in request context")
	}
	return id, nil
}

// pathObjectID parses the named mux path variable as an ObjectID
func pathObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)[name])
}

// convertRelations rewrites hex-string relation ids in a write payload into
// ObjectIDs so that reads and lookups join on the stored type
func convertRelations(doc bson.M, names ...string) error {
	for _, name := range names {
		v, ok := doc[name]
		if !ok {
			continue
		}
		s, isString := v.(string)
		if !isString {
			return fmt.Errorf("%s must be a record id", name)
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return fmt.Errorf("%s is not a valid record id: %w", name, err)
		}
		doc[name] = id
	}
	return nil
}

// convertRelationList does the same for a field holding a list of record ids
func convertRelationList(doc bson.M, name string) error {
	v, ok := doc[name]
	if !ok {
		return nil
	}
	list, isList := v.([]interface{})
	if !isList {
		return fmt.Errorf("%s must be a list of record ids", name)
	}
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, item := range list {
		s, isString := item.(string)
		if !isString {
			return fmt.Errorf("%s must be a list of record ids", name)
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return fmt.Errorf("%s contains an invalid record id: %w", name, err)
		}
		ids = append(ids, id)
	}
	doc[name] = ids
	return nil
}

// stampNew assigns the id, owner and timestamps on a document about to be
// inserted and returns the new id
func stampNew(doc bson.M, user primitive.ObjectID) primitive.ObjectID {
	id := primitive.NewObjectID()
	now := time.Now().UTC()
	doc["_id"] = id
	doc["user"] = user
	doc["created"] = now
	doc["updated"] = now
	return id
}
