package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/tmplstore/svc/catalog"
)

type favoriteDoc struct {
	ID         bson.ObjectID `bson:"_id"`
	UserID     bson.ObjectID `bson:"userId"`
	TemplateID bson.ObjectID `bson:"templateId"`
	CreatedAt  time.Time     `bson:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt"`
}

// Favorites implements catalog.FavoriteStore.
type Favorites struct {
	coll *mongo.Collection
}

var _ catalog.FavoriteStore = (*Favorites)(nil)

func NewFavorites(db *mongo.Database) *Favorites {
	return &Favorites{coll: db.Collection(FavoritesCollection)}
}

func (f *Favorites) ListTemplates(ctx context.Context, userID string) ([]catalog.Template, error) {
	uid, ok := parseID(userID)
	if !ok {
		return []catalog.Template{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: uid}}}},
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: TemplatesCollection},
			{Key: "localField", Value: "templateId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "template"},
		}}},
		// Drops favorites whose template was deleted.
		{{Key: "$unwind", Value: "$template"}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$template"}}}},
	}

	cur, err := f.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	var docs []templateDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}

	out := make([]catalog.Template, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].template())
	}
	return out, nil
}

func (f *Favorites) Add(ctx context.Context, userID, templateID string) error {
	uid, ok := parseID(userID)
	if !ok {
		return fmt.Errorf("invalid user id %q", userID)
	}
	tid, ok := parseID(templateID)
	if !ok {
		return catalog.ErrTemplateNotFound
	}

	ts := now()
	_, err := f.coll.InsertOne(ctx, favoriteDoc{
		ID:         bson.NewObjectID(),
		UserID:     uid,
		TemplateID: tid,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return catalog.ErrAlreadyFavorited
		}
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

func (f *Favorites) Remove(ctx context.Context, userID, templateID string) error {
	filter, ok := pairFilter(userID, templateID)
	if !ok {
		return catalog.ErrFavoriteNotFound
	}

	res, err := f.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if res.DeletedCount == 0 {
		return catalog.ErrFavoriteNotFound
	}
	return nil
}

func (f *Favorites) Exists(ctx context.Context, userID, templateID string) (bool, error) {
	filter, ok := pairFilter(userID, templateID)
	if !ok {
		return false, nil
	}

	n, err := f.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return n > 0, nil
}

func pairFilter(userID, templateID string) (bson.D, bool) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, false
	}
	tid, ok := parseID(templateID)
	if !ok {
		return nil, false
	}
	return bson.D{{Key: "userId", Value: uid}, {Key: "templateId", Value: tid}}, true
}
