// Package account exposes pkg/auth over HTTP: registration, password login,
// token refresh, logout, the current profile and Google OAuth sign-in.
//
// MapError is the single place auth error kinds become HTTP statuses.
package account
