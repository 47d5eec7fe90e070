package catalog

import (
	"github.com/dmitrymomot/tmplstore/svc/catalog"
)

type searchRequest struct {
	Query    string `query:"q"`
	Category string `query:"category"`
}

type templateRequest struct {
	ID string `path:"id"`
}

type favoriteRequest struct {
	TemplateID string `path:"templateId"`
}

type templateResponse struct {
	catalog.Template
	IsFavorite bool `json:"isFavorite"`
}
