// Package validator implements rule based input validation.
//
// A Rule pairs a check with the error reported when the check fails. Apply
// evaluates every rule and returns ValidationErrors, which implements error,
// so handlers can validate a whole request in one call:
//
//	err := validator.Apply(
//	    validator.RequiredString("email", req.Email),
//	    validator.ValidEmail("email", req.Email),
//	    validator.MinLenString("password", req.Password, 6),
//	)
//	if err != nil {
//	    // validator.ExtractValidationErrors(err).First()
//	}
//
// Rules capture their values at construction time; Apply may be called
// repeatedly with the same rule set.
package validator
