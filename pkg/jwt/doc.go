// Package jwt signs and verifies HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5.
//
// A Service holds one secret, at least 32 bytes long, plus optional
// issuer and audience. Parse pins the algorithm to HS256 and requires "exp".
// Tokens signed with "none" or any other algorithm are rejected.
//
//	svc, err := jwt.NewFromString(secret, jwt.WithIssuer("tmplstore"), jwt.WithAudience("tmplstore-web"))
//	if err != nil {
//	    return err // fail fast at startup
//	}
//
//	type claims struct {
//	    jwt.RegisteredClaims
//	    Kind string `json:"kind"`
//	}
//
//	token, err := svc.Generate(claims{...})
//	var parsed claims
//	err = svc.Parse(token, &parsed)
//
// Errors returned by Parse always wrap ErrInvalidToken, and additionally
// ErrExpiredToken or ErrInvalidSignature when that is the cause. Callers
// facing clients should only report the former so tampering and expiry are
// indistinguishable.
//
// The extractor helpers pull raw tokens from requests. BearerTokenExtractor
// is what the auth middleware uses.
package jwt
