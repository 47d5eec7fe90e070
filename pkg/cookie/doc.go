// Package cookie writes and reads HMAC-SHA256 signed cookies.
//
// A Manager is built from one or more secrets of at least 32 bytes. The first
// secret signs; all of them verify, so secrets can be rotated without
// invalidating cookies in flight.
//
//	m, err := cookie.New([]string{secret}, cookie.WithSecure(true))
//	m.SetSigned(w, "oauth_state", nonce, cookie.WithMaxAge(600))
//	nonce, err := m.GetSigned(r, "oauth_state")
//
// The API uses it to bind the Google OAuth state parameter to the browser
// that started the flow.
package cookie
