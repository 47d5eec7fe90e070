package catalog

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/tmplstore/handler"
	"github.com/dmitrymomot/tmplstore/svc/catalog"
)

var (
	ErrTemplateNotFound = handler.NewHTTPError(http.StatusNotFound, "Template not found")
	ErrAlreadyFavorited = handler.NewHTTPError(http.StatusConflict, "Template already in favorites")
	ErrFavoriteNotFound = handler.NewHTTPError(http.StatusNotFound, "Favorite not found")
)

// MapError converts catalog errors to HTTP errors. Anything unknown is a 500
// with the cause kept for logs.
func MapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrTemplateNotFound):
		return ErrTemplateNotFound.Wrap(err)
	case errors.Is(err, catalog.ErrAlreadyFavorited):
		return ErrAlreadyFavorited.Wrap(err)
	case errors.Is(err, catalog.ErrFavoriteNotFound):
		return ErrFavoriteNotFound.Wrap(err)
	default:
		return handler.ErrInternalServerError.Wrap(err)
	}
}
