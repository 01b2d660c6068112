// internal/repository/postgres/account_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tracksafe-service/internal/domain/auth"
	xerrors "tracksafe-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// ========== Account Methods ==========

// FindAccountByEmail retrieves an account by email
func (r *AccountRepository) FindAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	query := `
		SELECT id, email, password_hash, last_login, created_at, updated_at
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`

	var account auth.Account
	err := r.db.QueryRow(ctx, query, email).Scan(
		&account.ID, &account.Email, &account.PasswordHash,
		&account.LastLogin, &account.CreatedAt, &account.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return &account, nil
}

// FindAccountByID retrieves an account by ID
func (r *AccountRepository) FindAccountByID(ctx context.Context, id string) (*auth.Account, error) {
	query := `
		SELECT id, email, password_hash, last_login, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var account auth.Account
	err := r.db.QueryRow(ctx, query, id).Scan(
		&account.ID, &account.Email, &account.PasswordHash,
		&account.LastLogin, &account.CreatedAt, &account.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return &account, nil
}

// ExistsByEmail reports whether an account with this email exists
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1))`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return exists, nil
}

// CreateAccount creates a new account
func (r *AccountRepository) CreateAccount(ctx context.Context, account *auth.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, account.ID, account.Email, account.PasswordHash).
		Scan(&account.CreatedAt, &account.UpdatedAt)

	return err
}

// UpdateLastLogin updates the last login timestamp
func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE accounts SET last_login = $1, updated_at = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, time.Now(), id)
	return err
}

// ========== Session Methods ==========

// CreateSession creates a new session row
func (r *AccountRepository) CreateSession(ctx context.Context, session *auth.Session) error {
	query := `
		INSERT INTO auth_sessions (account_id, session_token, ip_address, user_agent, status, login_at, last_activity_at, expires_at)
		VALUES ($1, $2, $3, $4, 'active', $5, $5, $6)
		RETURNING id
	`

	now := time.Now()
	session.LoginAt = now
	session.LastActivityAt = now
	session.Status = "active"

	return r.db.QueryRow(ctx, query,
		session.AccountID, session.SessionToken, session.IPAddress, session.UserAgent,
		now, session.ExpiresAt,
	).Scan(&session.ID)
}

// FindSessionByToken retrieves a session by its token (JTI)
func (r *AccountRepository) FindSessionByToken(ctx context.Context, token string) (*auth.Session, error) {
	query := `
		SELECT id, account_id, session_token, ip_address, user_agent, status,
		       login_at, last_activity_at, expires_at, logout_at
		FROM auth_sessions
		WHERE session_token = $1
	`

	var session auth.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.ID, &session.AccountID, &session.SessionToken,
		&session.IPAddress, &session.UserAgent, &session.Status,
		&session.LoginAt, &session.LastActivityAt, &session.ExpiresAt, &session.LogoutAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}

// UpdateSessionActivity refreshes the session's last activity timestamp
func (r *AccountRepository) UpdateSessionActivity(ctx context.Context, sessionID int64) error {
	query := `UPDATE auth_sessions SET last_activity_at = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, time.Now(), sessionID)
	return err
}

// InvalidateSession marks one session revoked
func (r *AccountRepository) InvalidateSession(ctx context.Context, sessionID int64) error {
	query := `UPDATE auth_sessions SET status = 'revoked', logout_at = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, time.Now(), sessionID)
	return err
}

// InvalidateAllAccountSessions marks all of an account's sessions revoked
func (r *AccountRepository) InvalidateAllAccountSessions(ctx context.Context, accountID string) error {
	query := `UPDATE auth_sessions SET status = 'revoked', logout_at = $1 WHERE account_id = $2 AND status = 'active'`
	_, err := r.db.Exec(ctx, query, time.Now(), accountID)
	return err
}
