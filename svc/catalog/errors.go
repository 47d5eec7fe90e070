package catalog

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrAlreadyFavorited = errors.New("template already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrSearchFailed     = errors.New("search failed")
	ErrIndexFailed      = errors.New("indexing failed")
)
