package databases

//go generate: mockery --name MaintenanceLogDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/models"
)

const maintenanceLogName = "maintenance_logs"

// MaintenanceLogDatabase contains the methods to use with the maintenance_logs collection
type MaintenanceLogDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MaintenanceLog, error)
	FindOneExpanded(ctx context.Context, filter interface{}) (*models.MaintenanceLog, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MaintenanceLog, error)
	FindExpanded(ctx context.Context, filter interface{}) ([]models.MaintenanceLog, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type maintenanceLogDatabase struct {
	db DatabaseHelper
}

// NewMaintenanceLogDatabase initializes a new instance of maintenance log database with the provided db connection
func NewMaintenanceLogDatabase(db DatabaseHelper) MaintenanceLogDatabase {
	return &maintenanceLogDatabase{
		db: db,
	}
}

func (c *maintenanceLogDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MaintenanceLog, error) {
	log := &models.MaintenanceLog{}
	err := c.db.Collection(maintenanceLogName).FindOne(ctx, filter, opts...).Decode(&log)
	if err != nil {
		return nil, err
	}
	return log, nil
}

// FindOneExpanded fetches one log with its firearm and owning user resolved
func (c *maintenanceLogDatabase) FindOneExpanded(ctx context.Context, filter interface{}) (*models.MaintenanceLog, error) {
	pipeline := []bson.M{{"$match": filter}}
	pipeline = append(pipeline, lookupOne(firearmName, "firearm", "firearm")...)
	pipeline = append(pipeline, lookupOne(userName, "user", "user")...)

	logs, err := c.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &logs[0], nil
}

func (c *maintenanceLogDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MaintenanceLog, error) {
	opts = append([]*options.FindOptions{sortDateDesc()}, opts...)
	var logs []models.MaintenanceLog
	cur, err := c.db.Collection(maintenanceLogName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&logs)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// FindExpanded lists logs most recent first with each firearm resolved
func (c *maintenanceLogDatabase) FindExpanded(ctx context.Context, filter interface{}) ([]models.MaintenanceLog, error) {
	pipeline := []bson.M{
		{"$match": filter},
		{"$sort": bson.M{"date": -1}},
	}
	pipeline = append(pipeline, lookupOne(firearmName, "firearm", "firearm")...)
	return c.aggregate(ctx, pipeline)
}

func (c *maintenanceLogDatabase) aggregate(ctx context.Context, pipeline []bson.M) ([]models.MaintenanceLog, error) {
	cur, err := c.db.Collection(maintenanceLogName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var logs []models.MaintenanceLog
	if err := cur.Decode(&logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *maintenanceLogDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(maintenanceLogName).InsertOne(ctx, document, opts...)
}

func (c *maintenanceLogDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(maintenanceLogName).UpdateOne(ctx, filter, update, opts...)
}

func (c *maintenanceLogDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(maintenanceLogName).DeleteOne(ctx, filter, opts...)
}

func (c *maintenanceLogDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(maintenanceLogName).CountDocuments(ctx, filter, opts...)
}
