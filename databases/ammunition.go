package databases

//go generate: mockery --name AmmunitionDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/models"
)

const ammunitionName = "ammunition"

// AmmunitionDatabase contains the methods to use with the ammunition collection
type AmmunitionDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Ammunition, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Ammunition, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type ammunitionDatabase struct {
	db DatabaseHelper
}

// NewAmmunitionDatabase initializes a new instance of ammunition database with the provided db connection
func NewAmmunitionDatabase(db DatabaseHelper) AmmunitionDatabase {
	return &ammunitionDatabase{
		db: db,
	}
}

func (c *ammunitionDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Ammunition, error) {
	ammo := &models.Ammunition{}
	err := c.db.Collection(ammunitionName).FindOne(ctx, filter, opts...).Decode(&ammo)
	if err != nil {
		return nil, err
	}
	return ammo, nil
}

func (c *ammunitionDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Ammunition, error) {
	opts = append([]*options.FindOptions{sortCreatedDesc()}, opts...)
	var ammo []models.Ammunition
	cur, err := c.db.Collection(ammunitionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&ammo)
	if err != nil {
		return nil, err
	}
	return ammo, nil
}

func (c *ammunitionDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(ammunitionName).InsertOne(ctx, document, opts...)
}

func (c *ammunitionDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(ammunitionName).UpdateOne(ctx, filter, update, opts...)
}

func (c *ammunitionDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(ammunitionName).DeleteOne(ctx, filter, opts...)
}

func (c *ammunitionDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(ammunitionName).CountDocuments(ctx, filter, opts...)
}
