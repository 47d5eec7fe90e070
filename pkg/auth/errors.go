package auth

import (
	"errors"
	"fmt"
)

// Kind classifies failures so the HTTP layer can map them exhaustively.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the only error type returned by Service. Message is safe to show
// to clients; Err holds the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind and message so wrapped copies of a sentinel compare
// equal to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// wrap returns a copy of sentinel carrying cause.
func wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: cause}
}

func internal(op string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: ErrInternal.Message, Err: fmt.Errorf("failed to %s: %w", op, cause)}
}

// KindOf returns the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrInvalidTokenConfig is returned by NewTokenService.
var ErrInvalidTokenConfig = errors.New("invalid token configuration")

var (
	ErrInvalidInput            = &Error{Kind: KindValidation, Message: "Email and password are required"}
	ErrInvalidCredentials      = &Error{Kind: KindUnauthenticated, Message: "Invalid email or password"}
	ErrExternalSignInRequired  = &Error{Kind: KindUnauthenticated, Message: "This account uses Google sign-in. Please log in with Google"}
	ErrMissingToken            = &Error{Kind: KindUnauthenticated, Message: "Access token is required"}
	ErrTokenInvalid            = &Error{Kind: KindUnauthenticated, Message: "Invalid or expired token"}
	ErrIdentityGone            = &Error{Kind: KindUnauthenticated, Message: "User not found"}
	ErrInvalidOAuthState       = &Error{Kind: KindUnauthenticated, Message: "Invalid or expired OAuth state"}
	ErrOAuthExchange           = &Error{Kind: KindUnauthenticated, Message: "Failed to authenticate with provider"}
	ErrUnverifiedEmail         = &Error{Kind: KindForbidden, Message: "Provider email is not verified"}
	ErrIdentityNotFound        = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrEmailAlreadyExists      = &Error{Kind: KindConflict, Message: "User already exists"}
	ErrExternalAccountConflict = &Error{Kind: KindConflict, Message: "Account is already linked to a different external account"}
	ErrInternal                = &Error{Kind: KindInternal, Message: "Internal Server Error"}
)
