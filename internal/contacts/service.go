package contacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/courseflow/courseflow/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a contact owned by ownerID.
func (s *Service) Create(ctx context.Context, req CreateContactRequest, ownerID string) (*Contact, error) {
	contact := Contact{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		OrganizationID: req.OrganizationID,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          req.Email,
		Phone:          req.Phone,
		Notes:          req.Notes,
	}

	var created *Contact
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		created, err = repo.Create(ctx, contact)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateContactRequest) (*Contact, error) {
	updates := make(map[string]any)
	if req.OrganizationID != nil {
		updates["organization_id"] = *req.OrganizationID
	}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	var updated *Contact
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, id, updates); err != nil {
			return err
		}
		var err error
		updated, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Contact, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListContactsRequest) ([]Contact, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// ResolveOwner reports the owner of the contact named by the "id" path
// parameter. It backs the gate's ownership check.
func (s *Service) ResolveOwner(ctx context.Context, params map[string]string) (string, error) {
	return s.repo.OwnerOf(ctx, params["id"])
}

// Page is one page of contacts.
type Page struct {
	Data       []Contact         `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}
