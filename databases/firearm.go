package databases

//go generate: mockery --name FirearmDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/models"
)

const firearmName = "firearms"

// FirearmDatabase contains the methods to use with the firearms collection
type FirearmDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Firearm, error)
	FindOneExpanded(ctx context.Context, filter interface{}) (*models.Firearm, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Firearm, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type firearmDatabase struct {
	db DatabaseHelper
}

// NewFirearmDatabase initializes a new instance of firearm database with the provided db connection
func NewFirearmDatabase(db DatabaseHelper) FirearmDatabase {
	return &firearmDatabase{
		db: db,
	}
}

func (c *firearmDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Firearm, error) {
	firearm := &models.Firearm{}
	err := c.db.Collection(firearmName).FindOne(ctx, filter, opts...).Decode(&firearm)
	if err != nil {
		return nil, err
	}
	return firearm, nil
}

// FindOneExpanded fetches one firearm with its owning user resolved, for
// detail views
func (c *firearmDatabase) FindOneExpanded(ctx context.Context, filter interface{}) (*models.Firearm, error) {
	pipeline := []bson.M{{"$match": filter}}
	pipeline = append(pipeline, lookupOne(userName, "user", "user")...)

	cur, err := c.db.Collection(firearmName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var firearms []models.Firearm
	if err := cur.Decode(&firearms); err != nil {
		return nil, err
	}
	if len(firearms) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &firearms[0], nil
}

func (c *firearmDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Firearm, error) {
	opts = append([]*options.FindOptions{sortCreatedDesc()}, opts...)
	var firearms []models.Firearm
	cur, err := c.db.Collection(firearmName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&firearms)
	if err != nil {
		return nil, err
	}
	return firearms, nil
}

func (c *firearmDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(firearmName).InsertOne(ctx, document, opts...)
}

func (c *firearmDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(firearmName).UpdateOne(ctx, filter, update, opts...)
}

func (c *firearmDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(firearmName).DeleteOne(ctx, filter, opts...)
}

func (c *firearmDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(firearmName).CountDocuments(ctx, filter, opts...)
}
