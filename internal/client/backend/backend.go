// internal/client/backend/backend.go
package backend

import (
	"context"

	"tracksafe-service/internal/domain/auth"
	"tracksafe-service/internal/domain/location"
)

// Backend is the remote auth and storage collaborator the client talks
// to. Implementations own transport concerns; callers only see domain
// types and taxonomy errors.
type Backend interface {
	// SignIn exchanges credentials for a session token.
	SignIn(ctx context.Context, email, password string) (*auth.LoginResponse, error)

	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error)

	// SignOut invalidates the current session token remotely.
	SignOut(ctx context.Context) error

	// GetSession probes whether the stored token still maps to a live
	// session.
	GetSession(ctx context.Context) (*auth.UserInfo, error)

	// GetProfile fetches the signed-in user's profile document.
	GetProfile(ctx context.Context) (*auth.Profile, error)

	// UpdateProfile applies a partial update and returns the merged
	// profile.
	UpdateProfile(ctx context.Context, patch auth.ProfilePatch) (*auth.Profile, error)

	// RecordLocation appends a sample to the user's location log.
	RecordLocation(ctx context.Context, req *location.RecordRequest) (*location.Sample, error)

	// NearbyServices resolves points of interest around a coordinate.
	NearbyServices(ctx context.Context, lat, lon float64, kind location.ServiceKind) ([]location.NearbyService, error)
}

// TokenStore caches the session token between launches so a session can
// be restored without re-entering credentials.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}
