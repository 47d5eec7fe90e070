package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mountable registers its routes on a router.
type Mountable interface {
	Mount(r chi.Router)
}

// RouterOptions configures the catalog module. RateLimit, when set, wraps
// the public template routes only.
type RouterOptions struct {
	Templates Mountable
	Favorites Mountable
	RateLimit func(http.Handler) http.Handler
}

// Router serves /templates and /favorites. Mount it under /api.
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	if opts.Templates != nil {
		r.Route("/templates", func(r chi.Router) {
			if opts.RateLimit != nil {
				r.Use(opts.RateLimit)
			}
			opts.Templates.Mount(r)
		})
	}
	if opts.Favorites != nil {
		r.Route("/favorites", opts.Favorites.Mount)
	}
	return r
}
