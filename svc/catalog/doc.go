// Package catalog serves the template catalogue and user favorites.
//
// Service sits on three ports: TemplateStore, FavoriteStore and SearchIndex.
// svc/mongostore implements all of them with Mongo $text search;
// OpenSearchIndex is the alternative search backend. Template lookups by id
// go through an LRU cache from pkg/cache.
//
// Search filters by category when one is given and falls back to full-text
// search otherwise. With neither it lists every template.
package catalog
