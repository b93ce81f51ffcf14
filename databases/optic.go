package databases

//go generate: mockery --name OpticDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/models"
)

const opticName = "optics"

// OpticDatabase contains the methods to use with the optics collection
type OpticDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Optic, error)
	FindOneExpanded(ctx context.Context, filter interface{}) (*models.Optic, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Optic, error)
	FindExpanded(ctx context.Context, filter interface{}) ([]models.Optic, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type opticDatabase struct {
	db DatabaseHelper
}

// NewOpticDatabase initializes a new instance of optic database with the provided db connection
func NewOpticDatabase(db DatabaseHelper) OpticDatabase {
	return &opticDatabase{
		db: db,
	}
}

func (c *opticDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Optic, error) {
	optic := &models.Optic{}
	err := c.db.Collection(opticName).FindOne(ctx, filter, opts...).Decode(&optic)
	if err != nil {
		return nil, err
	}
	return optic, nil
}

// FindOneExpanded fetches one optic with the firearm it is mounted on and the
// owning user resolved
func (c *opticDatabase) FindOneExpanded(ctx context.Context, filter interface{}) (*models.Optic, error) {
	pipeline := []bson.M{{"$match": filter}}
	pipeline = append(pipeline, lookupOne(firearmName, "mounted_on", "mounted_on")...)
	pipeline = append(pipeline, lookupOne(userName, "user", "user")...)

	optics, err := c.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(optics) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &optics[0], nil
}

func (c *opticDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Optic, error) {
	opts = append([]*options.FindOptions{sortCreatedDesc()}, opts...)
	var optics []models.Optic
	cur, err := c.db.Collection(opticName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&optics)
	if err != nil {
		return nil, err
	}
	return optics, nil
}

// FindExpanded lists optics newest first with each mount firearm resolved
func (c *opticDatabase) FindExpanded(ctx context.Context, filter interface{}) ([]models.Optic, error) {
	pipeline := []bson.M{
		{"$match": filter},
		{"$sort": bson.M{"created": -1}},
	}
	pipeline = append(pipeline, lookupOne(firearmName, "mounted_on", "mounted_on")...)
	return c.aggregate(ctx, pipeline)
}

func (c *opticDatabase) aggregate(ctx context.Context, pipeline []bson.M) ([]models.Optic, error) {
	cur, err := c.db.Collection(opticName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var optics []models.Optic
	if err := cur.Decode(&optics); err != nil {
		return nil, err
	}
	return optics, nil
}

func (c *opticDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(opticName).InsertOne(ctx, document, opts...)
}

func (c *opticDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(opticName).UpdateOne(ctx, filter, update, opts...)
}

func (c *opticDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(opticName).DeleteOne(ctx, filter, opts...)
}

func (c *opticDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(opticName).CountDocuments(ctx, filter, opts...)
}
