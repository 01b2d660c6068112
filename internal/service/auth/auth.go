// internal/service/auth/auth.go
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tracksafe-service/internal/domain/auth"
	xerrors "tracksafe-service/internal/pkg/errors"
	"tracksafe-service/internal/pkg/jwt"
	"tracksafe-service/internal/pkg/session"
	"tracksafe-service/internal/repository/postgres"
	ws "tracksafe-service/internal/websocket"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	accountRepo    *postgres.AccountRepository
	profileRepo    *postgres.ProfileRepository
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	rateLimiter    *session.RateLimiter
	hub            *ws.Hub
	logger         *zap.Logger
}

func NewAuthService(
	accountRepo *postgres.AccountRepository,
	profileRepo *postgres.ProfileRepository,
	jwtManager *jwt.Manager,
	sessionManager *session.Manager,
	rateLimiter *session.RateLimiter,
	hub *ws.Hub,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		accountRepo:    accountRepo,
		profileRepo:    profileRepo,
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		hub:            hub,
		logger:         logger,
	}
}

// ========== Registration ==========

// Register creates a new account and seeds its profile. When the profile
// insert fails after the account row exists, the account is left in place
// and ErrProfileWriteFailed is returned: the inconsistency is reported to
// the caller, not rolled back silently.
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error) {
	exists, err := s.accountRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.ErrDuplicateEntry
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &auth.Account{
		ID:           ulid.Make().String(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.accountRepo.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Identity first, then profile: the profile must never reference an
	// account that does not exist yet.
	profile := &auth.Profile{
		AccountID: account.ID,
		Email:     account.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
	}

	if err := s.profileRepo.CreateProfile(ctx, profile); err != nil {
		s.logger.Error("profile creation failed after account creation",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
		return nil, xerrors.Wrap(xerrors.ErrProfileWriteFailed, err.Error())
	}

	// Auto-login after registration
	return s.loginWithAccount(ctx, account, req.IPAddress, req.UserAgent)
}

// ========== Login ==========

// Login authenticates a user with email/password
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	allowed, _, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, req.Email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	// Unknown email and wrong password are indistinguishable to the caller
	account, err := s.accountRepo.FindAccountByEmail(ctx, req.Email)
	if err != nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	if err := s.accountRepo.UpdateLastLogin(ctx, account.ID); err != nil {
		s.logger.Error("failed to update last login", zap.Error(err))
	}
	s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, req.Email)

	return s.loginWithAccount(ctx, account, req.IPAddress, req.UserAgent)
}

// loginWithAccount creates the session and generates the access token
func (s *AuthService) loginWithAccount(ctx context.Context, account *auth.Account, ipAddress, userAgent string) (*auth.LoginResponse, error) {
	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	expiresAt := time.Now().Add(s.jwtManager.Generator.Ttl)

	dbSession := &auth.Session{
		AccountID:    account.ID,
		SessionToken: jti,
		IPAddress:    nullString(ipAddress),
		UserAgent:    nullString(userAgent),
		ExpiresAt:    expiresAt,
	}

	if err := s.accountRepo.CreateSession(ctx, dbSession); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sessionData := &session.SessionData{
		JTI:            jti,
		AccountID:      account.ID,
		SessionID:      dbSession.ID,
		Email:          account.Email,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		LoginAt:        time.Now(),
		LastActivityAt: time.Now(),
		ExpiresAt:      expiresAt,
		IsActive:       true,
	}

	if err := s.sessionManager.CreateSession(ctx, sessionData); err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	// Push the state change to the account's other connections
	s.hub.EmitSignedIn(account.ID, account.Email, jti)

	profile, _ := s.profileRepo.GetProfile(ctx, account.ID)
	fullName := ""
	if profile != nil {
		fullName = profile.FullName
	}

	return &auth.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtManager.Generator.Ttl.Seconds()),
		ExpiresAt:   expiresAt,
		User: auth.UserInfo{
			AccountID: account.ID,
			Email:     account.Email,
			FullName:  fullName,
		},
	}, nil
}

// ========== Logout ==========

// Logout invalidates the current session. Calling it for an already-dead
// session is a no-op, never an error.
func (s *AuthService) Logout(ctx context.Context, accountID, jti string) error {
	if err := s.sessionManager.InvalidateSession(ctx, accountID, jti); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}

	if err := s.sessionManager.BlacklistToken(ctx, jti, s.jwtManager.Generator.Ttl); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	s.hub.EmitSignedOut(accountID, jti, "User logged out")

	return nil
}

// LogoutAllSessions invalidates all sessions for an account
func (s *AuthService) LogoutAllSessions(ctx context.Context, accountID string) error {
	if err := s.sessionManager.InvalidateAllAccountSessions(ctx, accountID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}

	s.hub.ForceLogout(accountID, "", "All sessions logged out")

	return nil
}

// ========== Session ==========

// GetSessionInfo answers a restore probe: the token was already verified
// by middleware, so this just reports who the session belongs to.
func (s *AuthService) GetSessionInfo(ctx context.Context, accountID, jti string) (*auth.UserInfo, error) {
	data, err := s.sessionManager.GetSession(ctx, accountID, jti)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrSessionExpired, err.Error())
	}

	info := &auth.UserInfo{AccountID: data.AccountID, Email: data.Email}
	if profile, err := s.profileRepo.GetProfile(ctx, accountID); err == nil {
		info.FullName = profile.FullName
	}

	return info, nil
}

// ValidateToken validates a JWT token and its session
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verifier.VerifyAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	blacklisted, err := s.sessionManager.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, fmt.Errorf("token has been revoked")
	}

	if _, err := s.sessionManager.GetSession(ctx, claims.AccountID, claims.ID); err != nil {
		return nil, fmt.Errorf("session not found or expired: %w", err)
	}

	return claims, nil
}

// ========== Profile ==========

// GetProfile retrieves the account's profile, creating a default one if
// the account predates profile rows.
func (s *AuthService) GetProfile(ctx context.Context, accountID string) (*auth.Profile, error) {
	profile, err := s.profileRepo.GetProfile(ctx, accountID)
	if err == nil {
		return profile, nil
	}
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	profile = &auth.Profile{AccountID: accountID, Email: account.Email}
	if err := s.profileRepo.CreateProfile(ctx, profile); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrProfileWriteFailed, err.Error())
	}

	return profile, nil
}

// UpdateProfile applies a partial update and returns the merged profile.
// Only the submitted fields are written; the remote document is never
// replaced wholesale.
func (s *AuthService) UpdateProfile(ctx context.Context, accountID string, patch auth.ProfilePatch) (*auth.Profile, error) {
	if patch.Health != nil && !patch.Health.BloodType.Valid() {
		return nil, xerrors.Wrap(xerrors.ErrProfileWriteFailed, "unknown blood type")
	}

	if err := s.profileRepo.UpdateProfile(ctx, accountID, patch); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrProfileWriteFailed, err.Error())
	}

	updated, err := s.profileRepo.GetProfile(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get updated profile: %w", err)
	}

	return updated, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
