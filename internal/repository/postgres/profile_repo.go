// internal/repository/postgres/profile_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"tracksafe-service/internal/domain/auth"
	xerrors "tracksafe-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetProfile retrieves a profile by account ID
func (r *ProfileRepository) GetProfile(ctx context.Context, accountID string) (*auth.Profile, error) {
	query := `
		SELECT p.account_id, a.email, p.full_name, p.phone, p.emergency_contact,
		       p.heart_condition, p.diabetes, p.allergies, p.allergy_list,
		       p.blood_type, p.medications, p.created_at, p.updated_at
		FROM profiles p
		JOIN accounts a ON a.id = p.account_id
		WHERE p.account_id = $1
	`

	var profile auth.Profile
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&profile.AccountID, &profile.Email, &profile.FullName, &profile.Phone,
		&profile.EmergencyContact,
		&profile.Health.HeartCondition, &profile.Health.Diabetes,
		&profile.Health.Allergies, &profile.Health.AllergyList,
		&profile.Health.BloodType, &profile.Health.Medications,
		&profile.CreatedAt, &profile.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// CreateProfile inserts a new profile row for an account
func (r *ProfileRepository) CreateProfile(ctx context.Context, profile *auth.Profile) error {
	query := `
		INSERT INTO profiles (account_id, full_name, phone, emergency_contact,
		                      heart_condition, diabetes, allergies, allergy_list,
		                      blood_type, medications)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRow(ctx, query,
		profile.AccountID, profile.FullName, profile.Phone, profile.EmergencyContact,
		profile.Health.HeartCondition, profile.Health.Diabetes,
		profile.Health.Allergies, pq.Array([]string(profile.Health.AllergyList)),
		string(profile.Health.BloodType), pq.Array([]string(profile.Health.Medications)),
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

// UpdateProfile applies a partial update. Only the submitted fields become
// SET clauses; untouched columns keep their values so concurrent writers to
// other fields are never clobbered.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, accountID string, patch auth.ProfilePatch) error {
	if patch.Empty() {
		return nil
	}

	query, args := buildProfileUpdate(accountID, patch)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// buildProfileUpdate renders the UPDATE statement for a patch. Split out so
// the column selection logic is testable without a database.
func buildProfileUpdate(accountID string, patch auth.ProfilePatch) (string, []interface{}) {
	set := make([]string, 0, 10)
	args := make([]interface{}, 0, 11)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.FullName != nil {
		set = append(set, "full_name = "+arg(*patch.FullName))
	}
	if patch.Phone != nil {
		set = append(set, "phone = "+arg(*patch.Phone))
	}
	if patch.EmergencyContact != nil {
		set = append(set, "emergency_contact = "+arg(*patch.EmergencyContact))
	}
	if patch.Health != nil {
		h := patch.Health
		set = append(set, "heart_condition = "+arg(h.HeartCondition))
		set = append(set, "diabetes = "+arg(h.Diabetes))
		set = append(set, "allergies = "+arg(h.Allergies))
		set = append(set, "allergy_list = "+arg(pq.Array([]string(h.AllergyList))))
		set = append(set, "blood_type = "+arg(string(h.BloodType)))
		set = append(set, "medications = "+arg(pq.Array([]string(h.Medications))))
	}

	query := "UPDATE profiles SET "
	for i, clause := range set {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += ", updated_at = NOW() WHERE account_id = " + arg(accountID)

	return query, args
}
