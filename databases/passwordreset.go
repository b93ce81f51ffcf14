package databases

//go generate: mockery --name PasswordResetDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/gun-locker-api/models"
)

const passwordResetName = "password_resets"

// PasswordResetDatabase contains the methods to use with the password_resets collection
type PasswordResetDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.PasswordReset, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
}

type passwordResetDatabase struct {
	db DatabaseHelper
}

// NewPasswordResetDatabase initializes a new instance of password reset database with the provided db connection
func NewPasswordResetDatabase(db DatabaseHelper) PasswordResetDatabase {
	return &passwordResetDatabase{
		db: db,
	}
}

func (c *passwordResetDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.PasswordReset, error) {
	reset := &models.PasswordReset{}
	err := c.db.Collection(passwordResetName).FindOne(ctx, filter, opts...).Decode(&reset)
	if err != nil {
		return nil, err
	}
	return reset, nil
}

func (c *passwordResetDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(passwordResetName).InsertOne(ctx, document, opts...)
}

func (c *passwordResetDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(passwordResetName).UpdateOne(ctx, filter, update, opts...)
}
