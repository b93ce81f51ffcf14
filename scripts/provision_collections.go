package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/models"
)

// Provisions the gun-locker collections, validators and indexes. Safe to run
// repeatedly: collections that already exist are left untouched.
// Usage: go run scripts/provision_collections.go

type collectionSpec struct {
	name      string
	required  []string
	indexes   []mongo.IndexModel
	relations []string
	// enums constrains select fields to the same value sets the API validates
	enums map[string][]string
	// minimums puts a floor under numeric counters
	minimums map[string]int
}

// base collections carry no relations and are created first so that the
// relation-bearing collections always reference existing targets
var baseCollections = []collectionSpec{
	{
		name:     "users",
		required: []string{"email", "password"},
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	},
	{
		name:     "firearms",
		required: []string{"name", "user"},
		enums: map[string][]string{
			"type":   models.FirearmTypes,
			"status": models.FirearmStatuses,
		},
		minimums: map[string]int{"round_count": 0},
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created", Value: -1}}},
		},
	},
	{
		name:     "ammunition",
		required: []string{"brand", "caliber", "quantity", "user"},
		minimums: map[string]int{"quantity": 0},
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "caliber", Value: 1}}},
		},
	},
	{
		name:     "password_resets",
		required: []string{"userId", "tokenHash", "expiresAt"},
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "tokenHash", Value: 1}}},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	},
}

// relation-bearing collections, created second
var relationCollections = []collectionSpec{
	{
		name:      "gear",
		required:  []string{"name", "category", "user"},
		relations: []string{"linked_firearm"},
		enums: map[string][]string{
			"category":  models.GearCategories,
			"condition": models.GearConditions,
		},
		minimums: map[string]int{"quantity": 0},
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created", Value: -1}}},
		},
	},
	{
		name:      "optics",
		required:  []string{"name", "type", "user"},
		relations: []string{"mounted_on"},
		enums:     map[string][]string{"type": models.OpticTypes},
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created", Value: -1}}},
		},
	},
	{
		name:      "accessories",
		required:  []string{"name", "category", "user"},
		relations: []string{"mounted_on"},
		enums:     map[string][]string{"category": models.AccessoryCategories},
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created", Value: -1}}},
		},
	},
	{
		name:      "maintenance_logs",
		required:  []string{"date", "type", "firearm", "user"},
		relations: []string{"firearm"},
		enums:     map[string][]string{"type": models.MaintenanceTypes},
		minimums:  map[string]int{"rounds_since_last": 0},
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "firearm", Value: 1}}},
		},
	},
	{
		name:      "range_trips",
		required:  []string{"date", "location", "user"},
		relations: []string{"firearms_used"},
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}}},
		},
	},
	{
		name:      "range_trip_ammo",
		required:  []string{"range_trip", "firearm", "rounds_fired", "user"},
		relations: []string{"range_trip", "firearm", "ammunition"},
		minimums:  map[string]int{"rounds_fired": 1},
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "range_trip", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created", Value: -1}}},
		},
	},
}

func main() {
	uri := os.Getenv("DB_URI")
	dbName := os.Getenv("DB_NAME")
	if uri == "" || dbName == "" {
		fmt.Println("DB_URI and DB_NAME must be set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		fmt.Printf("failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)

	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		fmt.Printf("failed to list collections: %v\n", err)
		os.Exit(1)
	}
	present := map[string]bool{}
	for _, name := range existing {
		present[name] = true
	}

	for _, phase := range [][]collectionSpec{baseCollections, relationCollections} {
		for _, spec := range phase {
			if present[spec.name] {
				fmt.Printf("collection %q already exists, skipping\n", spec.name)
				continue
			}
			if err := provision(ctx, db, spec); err != nil {
				fmt.Printf("failed to provision %q: %v\n", spec.name, err)
				os.Exit(1)
			}
			fmt.Printf("created collection %q\n", spec.name)
		}
	}
}

func provision(ctx context.Context, db *mongo.Database, spec collectionSpec) error {
	properties := bson.M{}
	for _, field := range spec.required {
		properties[field] = bson.M{"bsonType": bson.A{"string", "objectId", "int", "long", "double", "date"}}
	}
	for _, field := range spec.relations {
		properties[field] = bson.M{"bsonType": bson.A{"objectId", "array", "null"}}
	}
	for field, values := range spec.enums {
		properties[field] = bson.M{"enum": values}
	}
	for field, floor := range spec.minimums {
		properties[field] = bson.M{
			"bsonType": bson.A{"int", "long", "double"},
			"minimum":  floor,
		}
	}

	validator := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": append([]string{}, spec.required...),
			// additional fields stay open so optional columns never need a
			// schema migration
			"properties": properties,
		},
	}

	err := db.CreateCollection(ctx, spec.name, options.CreateCollection().SetValidator(validator))
	if err != nil {
		return err
	}
	if len(spec.indexes) > 0 {
		_, err = db.Collection(spec.name).Indexes().CreateMany(ctx, spec.indexes)
	}
	return err
}
