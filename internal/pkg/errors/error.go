package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrRateLimited    = errors.New("too many requests")
	ErrSessionExpired = errors.New("session expired or invalid")
	ErrInternal       = errors.New("internal server error")
)

// Auth and configuration failures surfaced to users as retryable notices.
var (
	ErrBackendNotConfigured = errors.New("backend not configured")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrBackendUnreachable   = errors.New("backend unreachable")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrProfileWriteFailed   = errors.New("profile write failed")
)

// Location acquisition failures, mapped 1:1 from the platform's reported
// failure reason. Each one carries a distinct user-facing message.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrAcquisitionTimeout  = errors.New("location request timed out")
	ErrUnsupportedPlatform = errors.New("geolocation not supported")
)

// Kind returns the stable wire name for a taxonomy error, or "internal"
// when the error does not map to one.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrBackendNotConfigured):
		return "backend_not_configured"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrBackendUnreachable):
		return "backend_unreachable"
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrProfileWriteFailed):
		return "profile_write_failed"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrPositionUnavailable):
		return "position_unavailable"
	case errors.Is(err, ErrAcquisitionTimeout):
		return "timeout"
	case errors.Is(err, ErrUnsupportedPlatform):
		return "unsupported_platform"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateEntry):
		return "duplicate_entry"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrSessionExpired):
		return "session_expired"
	default:
		return "internal"
	}
}

// FromKind is the inverse of Kind: it resolves a wire name back to its
// sentinel so clients can branch with errors.Is after a round trip.
func FromKind(kind string) error {
	switch kind {
	case "backend_not_configured":
		return ErrBackendNotConfigured
	case "invalid_credentials":
		return ErrInvalidCredentials
	case "backend_unreachable":
		return ErrBackendUnreachable
	case "not_authenticated":
		return ErrNotAuthenticated
	case "profile_write_failed":
		return ErrProfileWriteFailed
	case "permission_denied":
		return ErrPermissionDenied
	case "position_unavailable":
		return ErrPositionUnavailable
	case "timeout":
		return ErrAcquisitionTimeout
	case "unsupported_platform":
		return ErrUnsupportedPlatform
	case "not_found":
		return ErrNotFound
	case "duplicate_entry":
		return ErrDuplicateEntry
	case "rate_limited":
		return ErrRateLimited
	case "session_expired":
		return ErrSessionExpired
	default:
		return ErrInternal
	}
}

// UserMessage translates a taxonomy error into the message shown to the
// user. Location failures each get their own message; this mapping is a
// contract, not cosmetics.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "You denied the request for geolocation"
	case errors.Is(err, ErrPositionUnavailable):
		return "Location information is unavailable"
	case errors.Is(err, ErrAcquisitionTimeout):
		return "The request to get your location timed out"
	case errors.Is(err, ErrUnsupportedPlatform):
		return "Geolocation is not supported on this device"
	case errors.Is(err, ErrBackendNotConfigured):
		return "Service is not configured yet, please contact support"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrBackendUnreachable):
		return "Could not reach the server, please try again"
	case errors.Is(err, ErrNotAuthenticated):
		return "Please sign in first"
	case errors.Is(err, ErrProfileWriteFailed):
		return "Your account was created but saving the profile failed, please contact support"
	default:
		return "Something went wrong"
	}
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
