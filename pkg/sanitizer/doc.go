// Package sanitizer provides small, composable string transformations applied
// to request input before validation and storage.
//
//	email := sanitizer.NormalizeEmail("  Alice@Example.COM ")
//	// "alice@example.com"
//
//	clean := sanitizer.Apply(raw, sanitizer.Trim, sanitizer.RemoveControlChars)
//
// Transformations never fail; invalid input is made harmless rather than
// rejected. Rejection is the job of package validator.
package sanitizer
