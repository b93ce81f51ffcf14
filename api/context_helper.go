package api

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

type contextKey string

const userIDKey contextKey = "actingUserID"

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

// ContextWithUserID stashes the authenticated user's id so handlers can scope
// every store call to the session owner
func ContextWithUserID(parent context.Context, id primitive.ObjectID) context.Context {
	return context.WithValue(parent, userIDKey, id)
}

// UserIDFromContext returns the acting user id placed by the auth middleware
func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(userIDKey).(primitive.ObjectID)
	return id, ok
}
