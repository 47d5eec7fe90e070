package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/tmplstore/svc/catalog"
)

type templateDoc struct {
	ID           bson.ObjectID `bson:"_id"`
	Name         string        `bson:"name"`
	Description  string        `bson:"description"`
	ThumbnailURL string        `bson:"thumbnail_url"`
	Category     string        `bson:"category"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"`
}

func (d *templateDoc) template() catalog.Template {
	return catalog.Template{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Description:  d.Description,
		ThumbnailURL: d.ThumbnailURL,
		Category:     d.Category,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Templates implements catalog.TemplateStore and catalog.SearchIndex using
// the collection's text index.
type Templates struct {
	coll *mongo.Collection
}

var (
	_ catalog.TemplateStore = (*Templates)(nil)
	_ catalog.SearchIndex   = (*Templates)(nil)
)

func NewTemplates(db *mongo.Database) *Templates {
	return &Templates{coll: db.Collection(TemplatesCollection)}
}

func (t *Templates) List(ctx context.Context) ([]catalog.Template, error) {
	return t.find(ctx, bson.D{})
}

func (t *Templates) FindByID(ctx context.Context, id string) (*catalog.Template, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, catalog.ErrTemplateNotFound
	}

	var doc templateDoc
	if err := t.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	tpl := doc.template()
	return &tpl, nil
}

func (t *Templates) ListByCategory(ctx context.Context, category string) ([]catalog.Template, error) {
	return t.find(ctx, bson.D{{Key: "category", Value: category}})
}

func (t *Templates) Search(ctx context.Context, query string) ([]catalog.Template, error) {
	return t.find(ctx, bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: query}}}})
}

// ReplaceAll deletes every template and inserts the given ones, returning
// them with ids and timestamps assigned.
func (t *Templates) ReplaceAll(ctx context.Context, templates []catalog.Template) ([]catalog.Template, error) {
	if _, err := t.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return nil, fmt.Errorf("failed to clear templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, nil
	}

	ts := now()
	docs := make([]any, 0, len(templates))
	out := make([]catalog.Template, 0, len(templates))
	for i, tpl := range templates {
		// Distinct timestamps keep the newest-first order stable.
		created := ts.Add(time.Duration(i) * time.Millisecond)
		doc := templateDoc{
			ID:           bson.NewObjectID(),
			Name:         tpl.Name,
			Description:  tpl.Description,
			ThumbnailURL: tpl.ThumbnailURL,
			Category:     tpl.Category,
			CreatedAt:    created,
			UpdatedAt:    created,
		}
		docs = append(docs, doc)
		out = append(out, doc.template())
	}

	if _, err := t.coll.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert templates: %w", err)
	}
	return out, nil
}

func (t *Templates) find(ctx context.Context, filter bson.D) ([]catalog.Template, error) {
	cur, err := t.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}

	var docs []templateDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}

	out := make([]catalog.Template, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].template())
	}
	return out, nil
}
