// Package auth implements identity sign-in for the API: password
// registration and login, Google OAuth, and a two-token scheme of short-lived
// access tokens and registry-backed refresh tokens.
//
// # Components
//
//   - Argon2Hasher hashes passwords as PHC-encoded Argon2id strings and bounds
//     concurrent hashing with a semaphore.
//   - TokenService signs HS256 JWTs through pkg/jwt and records refresh tokens
//     in a RevocationRegistry (pkg/redis.TokenRegistry in production,
//     MemoryRegistry in tests).
//   - Directory is the identity store. svc/mongostore implements it.
//   - Service runs the use cases: Register, Login, OAuthLogin, Refresh,
//     Logout, Authenticate and Identity.
//   - GoogleProvider runs the authorization code flow.
//   - Middleware and OptionalMiddleware attach the caller's identity to the
//     request context.
//
// # Errors
//
// Service only returns *Error values. Kind tells the HTTP layer which status
// to use and Message is safe to show to clients. Storage failures become
// KindInternal with the cause kept for logs:
//
//	out, err := svc.Login(ctx, email, password)
//	if err != nil {
//		switch auth.KindOf(err) {
//		case auth.KindUnauthenticated:
//			// 401
//		}
//	}
//
// Token verification never tells callers why a token was rejected. The
// reason is logged at debug level.
package auth
