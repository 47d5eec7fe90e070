// Package catalog exposes svc/catalog over HTTP: listing, search and
// detail of templates plus the signed-in user's favorites.
package catalog
