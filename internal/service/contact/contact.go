// internal/service/contact/contact.go
package contact

import (
	"context"
	"fmt"

	"tracksafe-service/internal/domain/contact"
	"tracksafe-service/internal/repository/postgres"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type ContactService struct {
	contactRepo *postgres.ContactRepository
	logger      *zap.Logger
}

func NewContactService(contactRepo *postgres.ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{contactRepo: contactRepo, logger: logger}
}

// ListContacts returns the account's emergency contacts
func (s *ContactService) ListContacts(ctx context.Context, accountID string) ([]*contact.Contact, error) {
	contacts, err := s.contactRepo.ListContacts(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// GetContact returns one contact owned by the account
func (s *ContactService) GetContact(ctx context.Context, accountID, id string) (*contact.Contact, error) {
	return s.contactRepo.GetContact(ctx, accountID, id)
}

// CreateContact adds a new emergency contact
func (s *ContactService) CreateContact(ctx context.Context, accountID string, req *contact.CreateRequest) (*contact.Contact, error) {
	c := &contact.Contact{
		ID:        ulid.Make().String(),
		AccountID: accountID,
		Name:      req.Name,
		Relation:  req.Relation,
		Phone:     req.Phone,
	}

	if err := s.contactRepo.CreateContact(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return c, nil
}

// UpdateContact applies a partial edit to an existing contact
func (s *ContactService) UpdateContact(ctx context.Context, accountID, id string, req *contact.UpdateRequest) (*contact.Contact, error) {
	c, err := s.contactRepo.GetContact(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Relation != nil {
		c.Relation = *req.Relation
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}

	if err := s.contactRepo.UpdateContact(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return c, nil
}

// DeleteContact removes a contact
func (s *ContactService) DeleteContact(ctx context.Context, accountID, id string) error {
	return s.contactRepo.DeleteContact(ctx, accountID, id)
}
