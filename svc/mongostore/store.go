package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	UsersCollection     = "users"
	TemplatesCollection = "templates"
	FavoritesCollection = "favorites"
)

var ErrIndexSetupFailed = errors.New("mongo index setup failed")

// newestFirst sorts by creation time, newest first.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// EnsureIndexes creates the indexes every collection relies on. Mongo
// treats re-creating an identical index as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "googleId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		TemplatesCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
		},
		FavoritesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "templateId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Join(ErrIndexSetupFailed, err)
		}
	}
	return nil
}

// parseID returns false for anything that is not a 24-char hex ObjectID.
func parseID(id string) (bson.ObjectID, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, false
	}
	return oid, true
}

func now() time.Time {
	// Mongo stores milliseconds.
	return time.Now().UTC().Truncate(time.Millisecond)
}
