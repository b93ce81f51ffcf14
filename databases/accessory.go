package databases

//go generate: mockery --name AccessoryDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/models"
)

const accessoryName = "accessories"

// AccessoryDatabase contains the methods to use with the accessories collection
type AccessoryDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Accessory, error)
	FindOneExpanded(ctx context.Context, filter interface{}) (*models.Accessory, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Accessory, error)
	FindExpanded(ctx context.Context, filter interface{}) ([]models.Accessory, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type accessoryDatabase struct {
	db DatabaseHelper
}

// NewAccessoryDatabase initializes a new instance of accessory database with the provided db connection
func NewAccessoryDatabase(db DatabaseHelper) AccessoryDatabase {
	return &accessoryDatabase{
		db: db,
	}
}

func (c *accessoryDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Accessory, error) {
	accessory := &models.Accessory{}
	err := c.db.Collection(accessoryName).FindOne(ctx, filter, opts...).Decode(&accessory)
	if err != nil {
		return nil, err
	}
	return accessory, nil
}

// FindOneExpanded fetches one accessory with the firearm it is mounted on and
// the owning user resolved
func (c *accessoryDatabase) FindOneExpanded(ctx context.Context, filter interface{}) (*models.Accessory, error) {
	pipeline := []bson.M{{"$match": filter}}
	pipeline = append(pipeline, lookupOne(firearmName, "mounted_on", "mounted_on")...)
	pipeline = append(pipeline, lookupOne(userName, "user", "user")...)

	accessories, err := c.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(accessories) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &accessories[0], nil
}

func (c *accessoryDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Accessory, error) {
	opts = append([]*options.FindOptions{sortCreatedDesc()}, opts...)
	var accessories []models.Accessory
	cur, err := c.db.Collection(accessoryName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&accessories)
	if err != nil {
		return nil, err
	}
	return accessories, nil
}

// FindExpanded lists accessories newest first with each mount firearm resolved
func (c *accessoryDatabase) FindExpanded(ctx context.Context, filter interface{}) ([]models.Accessory, error) {
	pipeline := []bson.M{
		{"$match": filter},
		{"$sort": bson.M{"created": -1}},
	}
	pipeline = append(pipeline, lookupOne(firearmName, "mounted_on", "mounted_on")...)
	return c.aggregate(ctx, pipeline)
}

func (c *accessoryDatabase) aggregate(ctx context.Context, pipeline []bson.M) ([]models.Accessory, error) {
	cur, err := c.db.Collection(accessoryName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var accessories []models.Accessory
	if err := cur.Decode(&accessories); err != nil {
		return nil, err
	}
	return accessories, nil
}

func (c *accessoryDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(accessoryName).InsertOne(ctx, document, opts...)
}

func (c *accessoryDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(accessoryName).UpdateOne(ctx, filter, update, opts...)
}

func (c *accessoryDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(accessoryName).DeleteOne(ctx, filter, opts...)
}

func (c *accessoryDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(accessoryName).CountDocuments(ctx, filter, opts...)
}
