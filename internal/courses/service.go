package courses

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/courseflow/courseflow/internal/platform/httpx"
	"github.com/courseflow/courseflow/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Page is one page of courses.
type Page struct {
	Data       []Course          `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func (s *Service) List(ctx context.Context, search string, page, limit int) (Page, error) {
	page, limit = shared.NormalizePage(page, limit)
	courses, total, err := s.repo.List(ctx, strings.TrimSpace(search), limit, shared.Offset(page, limit))
	if err != nil {
		return Page{}, err
	}
	return Page{Data: courses, Pagination: shared.NewPagination(page, limit, total)}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Course, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateCourseRequest, createdBy string) (*Course, error) {
	return s.repo.Create(ctx, Course{
		ID:          uuid.NewString(),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Capacity:    req.Capacity,
		StartsOn:    req.StartsOn,
		EndsOn:      req.EndsOn,
		CreatedBy:   createdBy,
	})
}

func (s *Service) Update(ctx context.Context, id string, req UpdateCourseRequest) (*Course, error) {
	updates := make(map[string]any)
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.StartsOn != nil {
		updates["starts_on"] = *req.StartsOn
	}
	if req.EndsOn != nil {
		updates["ends_on"] = *req.EndsOn
	}
	if req.StartsOn != nil && req.EndsOn != nil && !req.EndsOn.After(*req.StartsOn) {
		return nil, fmt.Errorf("%w: ends_on must be after starts_on", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, updates)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
