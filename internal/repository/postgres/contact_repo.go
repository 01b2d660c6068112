// internal/repository/postgres/contact_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"tracksafe-service/internal/domain/contact"
	xerrors "tracksafe-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// ListContacts returns an account's emergency contacts, oldest first
func (r *ContactRepository) ListContacts(ctx context.Context, accountID string) ([]*contact.Contact, error) {
	query := `
		SELECT id, account_id, name, relation, phone, created_at, updated_at
		FROM emergency_contacts
		WHERE account_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*contact.Contact
	for rows.Next() {
		var c contact.Contact
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Name, &c.Relation, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, &c)
	}

	return contacts, rows.Err()
}

// GetContact retrieves one contact scoped to the account
func (r *ContactRepository) GetContact(ctx context.Context, accountID, id string) (*contact.Contact, error) {
	query := `
		SELECT id, account_id, name, relation, phone, created_at, updated_at
		FROM emergency_contacts
		WHERE id = $1 AND account_id = $2
	`

	var c contact.Contact
	err := r.db.QueryRow(ctx, query, id, accountID).Scan(
		&c.ID, &c.AccountID, &c.Name, &c.Relation, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &c, nil
}

// CreateContact inserts a new contact
func (r *ContactRepository) CreateContact(ctx context.Context, c *contact.Contact) error {
	query := `
		INSERT INTO emergency_contacts (id, account_id, name, relation, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRow(ctx, query, c.ID, c.AccountID, c.Name, c.Relation, c.Phone).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

// UpdateContact saves edits to a contact
func (r *ContactRepository) UpdateContact(ctx context.Context, c *contact.Contact) error {
	query := `
		UPDATE emergency_contacts
		SET name = $1, relation = $2, phone = $3, updated_at = NOW()
		WHERE id = $4 AND account_id = $5
	`

	tag, err := r.db.Exec(ctx, query, c.Name, c.Relation, c.Phone, c.ID, c.AccountID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// DeleteContact removes a contact
func (r *ContactRepository) DeleteContact(ctx context.Context, accountID, id string) error {
	query := `DELETE FROM emergency_contacts WHERE id = $1 AND account_id = $2`

	tag, err := r.db.Exec(ctx, query, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
