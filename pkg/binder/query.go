package binder

import (
	"net/http"
)

// Query binds URL query parameters to fields tagged `query:"name"`.
// Slices accept repeated keys and comma separated values.
//
//	type ListRequest struct {
//		Search   string   `query:"search"`
//		Category string   `query:"category"`
//		Tags     []string `query:"tags"`
//		Page     int      `query:"page"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}
