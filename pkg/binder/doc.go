// Package binder decodes HTTP request data into Go structs.
//
// Each binder has the signature func(r *http.Request, v any) error so that
// several can be applied in turn to the same target:
//
//	type UpdateTemplateRequest struct {
//		ID    string `path:"id" json:"-"`
//		Title string `json:"title"`
//	}
//
//	var req UpdateTemplateRequest
//	for _, bind := range []func(*http.Request, any) error{
//		binder.Path(chi.URLParam),
//		binder.JSON(),
//	} {
//		if err := bind(r, &req); err != nil {
//			return err
//		}
//	}
//
// JSON enforces the Content-Type header, a body size limit (10MB by default)
// and a single top-level value. Query and Path support strings, integers,
// floats, bools, pointers for optional values and slices.
//
// All failures wrap one of the sentinel errors in errors.go, so callers can
// map them to 400 or 415 responses with errors.Is.
package binder
