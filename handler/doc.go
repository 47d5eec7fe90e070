// Package handler provides typed HTTP handlers and the JSON envelope used by
// every endpoint.
//
// A HandlerFunc receives a Context and a request value populated by binders,
// and returns a Response:
//
//	type addFavoriteRequest struct {
//		TemplateID string `path:"templateId"`
//	}
//
//	r.Post("/{templateId}", handler.Wrap(addFavorite,
//		handler.WithBinders[handler.Context, addFavoriteRequest](binder.Path(chi.URLParam)),
//		handler.WithErrorHandler[handler.Context, addFavoriteRequest](errorHandler),
//	))
//
// Successful responses render {"success":true,"message":...,"data":...}.
// Failures render the same envelope with success=false and data {}. Return
// handler.Error(err) from a handler to delegate to the ErrorHandler, which
// maps HTTPError, validator.ValidationErrors and binder errors to status
// codes and treats anything else as 500.
//
// NotFound, MethodNotAllowed and Recoverer keep router-level failures in the
// same envelope.
package handler
