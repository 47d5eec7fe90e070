package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/tmplstore/pkg/auth"
)

type userDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password,omitempty"`
	Name      string        `bson:"name,omitempty"`
	GoogleID  string        `bson:"googleId,omitempty"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d *userDoc) identity() *auth.Identity {
	return &auth.Identity{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Name:         d.Name,
		ExternalID:   d.GoogleID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Users implements auth.Directory.
type Users struct {
	coll *mongo.Collection
}

var _ auth.Directory = (*Users)(nil)

func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection(UsersCollection)}
}

func (u *Users) Create(ctx context.Context, identity *auth.Identity) error {
	ts := now()
	doc := userDoc{
		ID:        bson.NewObjectID(),
		Email:     strings.ToLower(strings.TrimSpace(identity.Email)),
		Password:  identity.PasswordHash,
		Name:      identity.Name,
		GoogleID:  identity.ExternalID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if _, err := u.coll.InsertOne(ctx, doc); err != nil {
		return insertError(err)
	}

	*identity = *doc.identity()
	return nil
}

func (u *Users) FindByID(ctx context.Context, id string) (*auth.Identity, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	return u.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	return u.findOne(ctx, bson.D{{Key: "email", Value: strings.ToLower(strings.TrimSpace(email))}})
}

func (u *Users) FindByExternalID(ctx context.Context, externalID string) (*auth.Identity, error) {
	if externalID == "" {
		return nil, auth.ErrIdentityNotFound
	}
	return u.findOne(ctx, bson.D{{Key: "googleId", Value: externalID}})
}

// LinkExternalID sets googleId only on a record that has none or already
// has the same one. No match on an existing _id means another account won.
func (u *Users) LinkExternalID(ctx context.Context, id, externalID string) (*auth.Identity, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}

	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "googleId", Value: bson.D{{Key: "$exists", Value: false}}}},
			bson.D{{Key: "googleId", Value: externalID}},
		}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "googleId", Value: externalID},
		{Key: "updatedAt", Value: now()},
	}}}

	var doc userDoc
	err := u.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		n, cerr := u.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
		if cerr != nil {
			return nil, fmt.Errorf("failed to count users: %w", cerr)
		}
		if n > 0 {
			return nil, auth.ErrExternalAccountConflict
		}
		return nil, auth.ErrIdentityNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, auth.ErrExternalAccountConflict
	case err != nil:
		return nil, fmt.Errorf("failed to link user: %w", err)
	}
	return doc.identity(), nil
}

func (u *Users) findOne(ctx context.Context, filter bson.D) (*auth.Identity, error) {
	var doc userDoc
	if err := u.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.identity(), nil
}

// insertError maps a duplicate key to the sentinel of the index it hit.
func insertError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if strings.Contains(err.Error(), "index: googleId_") {
		return auth.ErrExternalAccountConflict
	}
	return auth.ErrEmailAlreadyExists
}
