package errs

import "errors"

// Kind is the stable, client-facing classification of an error.
type Kind string

const (
	KindValidation        Kind = "ValidationError"
	KindInvalidTransition Kind = "InvalidTransition"
	KindVersionConflict   Kind = "VersionConflict"
	KindInsufficientFunds Kind = "InsufficientFunds"
	KindNotFound          Kind = "NotFound"
	KindForbidden         Kind = "Forbidden"
	KindInternal          Kind = "Internal"
)

// KindOf classifies err by the sentinel it wraps. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrVersionConflict):
		return KindVersionConflict
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccessDenied):
		return KindForbidden
	case errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange),
		errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrVersionIsInvalid):
		return KindValidation
	default:
		return KindInternal
	}
}
