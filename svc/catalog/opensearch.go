package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"

	pkgopensearch "github.com/dmitrymomot/tmplstore/pkg/opensearch"
)

// templateMapping mirrors the Mongo text index: name and description are
// analysed, category is an exact keyword.
const templateMapping = `{
  "settings": {"number_of_shards": 1, "number_of_replicas": 0},
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "name":          {"type": "text"},
      "description":   {"type": "text"},
      "thumbnail_url": {"type": "keyword", "index": false},
      "category":      {"type": "keyword"},
      "createdAt":     {"type": "date"},
      "updatedAt":     {"type": "date"}
    }
  }
}`

const defaultSearchSize = 100

// OpenSearchIndex is a SearchIndex over an OpenSearch index holding full
// template documents.
type OpenSearchIndex struct {
	client *opensearch.Client
	index  string
	size   int
}

var _ SearchIndex = (*OpenSearchIndex)(nil)

func NewOpenSearchIndex(client *opensearch.Client, index string) *OpenSearchIndex {
	return &OpenSearchIndex{client: client, index: index, size: defaultSearchSize}
}

// EnsureIndex creates the index with the template mapping if missing.
func (i *OpenSearchIndex) EnsureIndex(ctx context.Context) error {
	return pkgopensearch.EnsureIndex(ctx, i.client, i.index, []byte(templateMapping))
}

// Reset drops and recreates the index.
func (i *OpenSearchIndex) Reset(ctx context.Context) error {
	res, err := i.client.Indices.Delete([]string{i.index},
		i.client.Indices.Delete.WithContext(ctx),
		i.client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return errors.Join(ErrIndexFailed, pkgopensearch.ResponseError(res))
	}
	return i.EnsureIndex(ctx)
}

// Index writes templates with a single bulk request and refreshes the index.
func (i *OpenSearchIndex) Index(ctx context.Context, templates []Template) error {
	if len(templates) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, t := range templates {
		meta := map[string]map[string]string{"index": {"_index": i.index, "_id": t.ID}}
		if err := enc.Encode(meta); err != nil {
			return errors.Join(ErrIndexFailed, err)
		}
		if err := enc.Encode(t); err != nil {
			return errors.Join(ErrIndexFailed, err)
		}
	}

	res, err := i.client.Bulk(&body,
		i.client.Bulk.WithContext(ctx),
		i.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.Join(ErrIndexFailed, pkgopensearch.ResponseError(res))
	}

	var out struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return errors.Join(ErrIndexFailed, err)
	}
	if out.Errors {
		return fmt.Errorf("%w: bulk response reported item failures", ErrIndexFailed)
	}
	return nil
}

// Search runs a multi_match over name and description, newest first.
func (i *OpenSearchIndex) Search(ctx context.Context, query string) ([]Template, error) {
	q := map[string]any{
		"size": i.size,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"name", "description"},
			},
		},
		"sort": []any{map[string]any{"createdAt": map[string]string{"order": "desc"}}},
	}
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, errors.Join(ErrSearchFailed, err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, errors.Join(ErrSearchFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Join(ErrSearchFailed, pkgopensearch.ResponseError(res))
	}

	var out struct {
		Hits struct {
			Hits []struct {
				Source Template `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, errors.Join(ErrSearchFailed, err)
	}

	templates := make([]Template, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		templates = append(templates, h.Source)
	}
	return templates, nil
}
