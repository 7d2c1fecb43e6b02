package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrPolicyDenied       = errors.New("operation not permitted")
	ErrThrottled          = errors.New("too many attempts")
)

// AuthErrorKind tells token rejections apart for logs and metrics. Callers
// outside the auth path must treat every kind the same way.
type AuthErrorKind int

const (
	MalformedToken AuthErrorKind = iota + 1
	BadSignature
	Expired
	UnknownOrInactiveSubject
)

func (k AuthErrorKind) String() string {
	switch k {
	case MalformedToken:
		return "malformed_token"
	case BadSignature:
		return "bad_signature"
	case Expired:
		return "expired"
	case UnknownOrInactiveSubject:
		return "unknown_or_inactive_subject"
	default:
		return "unknown"
	}
}

// AuthError is returned when a bearer token is rejected.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func NewAuthError(kind AuthErrorKind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "token rejected: " + e.Kind.String()
	}
	return fmt.Sprintf("token rejected: %s: %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnauthenticated) hold for every AuthError.
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthenticated
}

// AuthErrorKindOf reports the kind of the first AuthError in err's chain.
func AuthErrorKindOf(err error) (AuthErrorKind, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
