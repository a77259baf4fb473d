package organizations

import (
	"context"
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

// Page is one page of organizations.
type Page struct {
	Data       []Organization    `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func (s *Service) List(ctx context.Context, search string, page, limit int) (Page, error) {
	page, limit = shared.NormalizePage(page, limit)
	orgs, total, err := s.repo.List(ctx, strings.TrimSpace(search), limit, shared.Offset(page, limit))
	if err != nil {
		return Page{}, err
	}
	return Page{Data: orgs, Pagination: shared.NewPagination(page, limit, total)}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Organization, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateOrganizationRequest, createdBy string) (*Organization, error) {
	return s.repo.Create(ctx, Organization{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Website:   req.Website,
		Industry:  req.Industry,
		Notes:     req.Notes,
		CreatedBy: createdBy,
	})
}

func (s *Service) Update(ctx context.Context, id string, req UpdateOrganizationRequest) (*Organization, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Industry != nil {
		updates["industry"] = *req.Industry
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	return s.repo.Update(ctx, id, updates)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
