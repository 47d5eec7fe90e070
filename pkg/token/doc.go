// Package token produces short, URL-safe, HMAC signed values with a built-in
// expiry. They are not JWTs. The format is base64url(json) "." base64url(sig).
//
// The OAuth login flow uses it for the "state" parameter: the payload carries
// a random nonce that is also stored in a cookie, so the callback can prove it
// started the flow and the value cannot be replayed after it expires.
//
//	state, err := token.Generate(oauthState{Nonce: nonce}, secret, 10*time.Minute)
//	payload, err := token.Parse[oauthState](state, secret)
package token
