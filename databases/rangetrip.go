package databases

//go generate: mockery --name RangeTripDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/models"
)

const rangeTripName = "range_trips"

// RangeTripDatabase contains the methods to use with the range_trips collection
type RangeTripDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.RangeTrip, error)
	FindOneExpanded(ctx context.Context, filter interface{}) (*models.RangeTrip, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.RangeTrip, error)
	FindExpanded(ctx context.Context, filter interface{}) ([]models.RangeTrip, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type rangeTripDatabase struct {
	db DatabaseHelper
}

// NewRangeTripDatabase initializes a new instance of range trip database with the provided db connection
func NewRangeTripDatabase(db DatabaseHelper) RangeTripDatabase {
	return &rangeTripDatabase{
		db: db,
	}
}

func (c *rangeTripDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.RangeTrip, error) {
	trip := &models.RangeTrip{}
	err := c.db.Collection(rangeTripName).FindOne(ctx, filter, opts...).Decode(&trip)
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// FindOneExpanded fetches one trip with the firearms used and the owning user
// resolved
func (c *rangeTripDatabase) FindOneExpanded(ctx context.Context, filter interface{}) (*models.RangeTrip, error) {
	pipeline := []bson.M{{"$match": filter}}
	pipeline = append(pipeline, lookupMany(firearmName, "firearms_used", "firearms_used")...)
	pipeline = append(pipeline, lookupOne(userName, "user", "user")...)

	trips, err := c.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &trips[0], nil
}

func (c *rangeTripDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.RangeTrip, error) {
	opts = append([]*options.FindOptions{sortDateDesc()}, opts...)
	var trips []models.RangeTrip
	cur, err := c.db.Collection(rangeTripName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&trips)
	if err != nil {
		return nil, err
	}
	return trips, nil
}

// FindExpanded lists trips most recent first with the firearms used resolved
func (c *rangeTripDatabase) FindExpanded(ctx context.Context, filter interface{}) ([]models.RangeTrip, error) {
	pipeline := []bson.M{
		{"$match": filter},
		{"$sort": bson.M{"date": -1}},
	}
	pipeline = append(pipeline, lookupMany(firearmName, "firearms_used", "firearms_used")...)
	return c.aggregate(ctx, pipeline)
}

func (c *rangeTripDatabase) aggregate(ctx context.Context, pipeline []bson.M) ([]models.RangeTrip, error) {
	cur, err := c.db.Collection(rangeTripName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var trips []models.RangeTrip
	if err := cur.Decode(&trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *rangeTripDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(rangeTripName).InsertOne(ctx, document, opts...)
}

func (c *rangeTripDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(rangeTripName).UpdateOne(ctx, filter, update, opts...)
}

func (c *rangeTripDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(rangeTripName).DeleteOne(ctx, filter, opts...)
}

func (c *rangeTripDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(rangeTripName).CountDocuments(ctx, filter, opts...)
}
