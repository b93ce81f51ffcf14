package databases

//go generate: mockery --name RangeTripAmmoDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/models"
)

const rangeTripAmmoName = "range_trip_ammo"

// RangeTripAmmoDatabase contains the methods to use with the range_trip_ammo collection
type RangeTripAmmoDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.RangeTripAmmo, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.RangeTripAmmo, error)
	FindExpanded(ctx context.Context, filter interface{}) ([]models.RangeTripAmmo, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type rangeTripAmmoDatabase struct {
	db DatabaseHelper
}

// NewRangeTripAmmoDatabase initializes a new instance of range trip ammo database with the provided db connection
func NewRangeTripAmmoDatabase(db DatabaseHelper) RangeTripAmmoDatabase {
	return &rangeTripAmmoDatabase{
		db: db,
	}
}

func (c *rangeTripAmmoDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.RangeTripAmmo, error) {
	usage := &models.RangeTripAmmo{}
	err := c.db.Collection(rangeTripAmmoName).FindOne(ctx, filter, opts...).Decode(&usage)
	if err != nil {
		return nil, err
	}
	return usage, nil
}

func (c *rangeTripAmmoDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.RangeTripAmmo, error) {
	opts = append([]*options.FindOptions{sortCreatedDesc()}, opts...)
	var usages []models.RangeTripAmmo
	cur, err := c.db.Collection(rangeTripAmmoName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&usages)
	if err != nil {
		return nil, err
	}
	return usages, nil
}

// FindExpanded lists usage rows with their firearm and ammunition lot
// resolved, the shape the trip detail view needs
func (c *rangeTripAmmoDatabase) FindExpanded(ctx context.Context, filter interface{}) ([]models.RangeTripAmmo, error) {
	pipeline := []bson.M{
		{"$match": filter},
		{"$sort": bson.M{"created": -1}},
	}
	pipeline = append(pipeline, lookupOne(firearmName, "firearm", "firearm")...)
	pipeline = append(pipeline, lookupOne(ammunitionName, "ammunition", "ammunition")...)

	cur, err := c.db.Collection(rangeTripAmmoName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var usages []models.RangeTripAmmo
	if err := cur.Decode(&usages); err != nil {
		return nil, err
	}
	return usages, nil
}

func (c *rangeTripAmmoDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(rangeTripAmmoName).InsertOne(ctx, document, opts...)
}

func (c *rangeTripAmmoDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(rangeTripAmmoName).DeleteOne(ctx, filter, opts...)
}

func (c *rangeTripAmmoDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(rangeTripAmmoName).CountDocuments(ctx, filter, opts...)
}
