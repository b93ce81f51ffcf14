package databases

//go generate: mockery --name GearDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/models"
)

const gearName = "gear"

// GearDatabase contains the methods to use with the gear collection
type GearDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Gear, error)
	FindOneExpanded(ctx context.Context, filter interface{}) (*models.Gear, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Gear, error)
	FindExpanded(ctx context.Context, filter interface{}) ([]models.Gear, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type gearDatabase struct {
	db DatabaseHelper
}

// NewGearDatabase initializes a new instance of gear database with the provided db connection
func NewGearDatabase(db DatabaseHelper) GearDatabase {
	return &gearDatabase{
		db: db,
	}
}

func (c *gearDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Gear, error) {
	gear := &models.Gear{}
	err := c.db.Collection(gearName).FindOne(ctx, filter, opts...).Decode(&gear)
	if err != nil {
		return nil, err
	}
	return gear, nil
}

// FindOneExpanded fetches one gear item with its linked firearm and owning
// user resolved
func (c *gearDatabase) FindOneExpanded(ctx context.Context, filter interface{}) (*models.Gear, error) {
	pipeline := []bson.M{{"$match": filter}}
	pipeline = append(pipeline, lookupOne(firearmName, "linked_firearm", "linked_firearm")...)
	pipeline = append(pipeline, lookupOne(userName, "user", "user")...)

	items, err := c.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &items[0], nil
}

func (c *gearDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Gear, error) {
	opts = append([]*options.FindOptions{sortCreatedDesc()}, opts...)
	var gear []models.Gear
	cur, err := c.db.Collection(gearName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&gear)
	if err != nil {
		return nil, err
	}
	return gear, nil
}

// FindExpanded lists gear newest first with each linked firearm resolved, the
// default shape for list views
func (c *gearDatabase) FindExpanded(ctx context.Context, filter interface{}) ([]models.Gear, error) {
	pipeline := []bson.M{
		{"$match": filter},
		{"$sort": bson.M{"created": -1}},
	}
	pipeline = append(pipeline, lookupOne(firearmName, "linked_firearm", "linked_firearm")...)
	return c.aggregate(ctx, pipeline)
}

func (c *gearDatabase) aggregate(ctx context.Context, pipeline []bson.M) ([]models.Gear, error) {
	cur, err := c.db.Collection(gearName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var gear []models.Gear
	if err := cur.Decode(&gear); err != nil {
		return nil, err
	}
	return gear, nil
}

func (c *gearDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(gearName).InsertOne(ctx, document, opts...)
}

func (c *gearDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(gearName).UpdateOne(ctx, filter, update, opts...)
}

func (c *gearDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(gearName).DeleteOne(ctx, filter, opts...)
}

func (c *gearDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(gearName).CountDocuments(ctx, filter, opts...)
}
