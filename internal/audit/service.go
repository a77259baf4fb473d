package audit

import (
	"context"

	"github.com/courseflow/courseflow/internal/shared"
)

// Service exposes the trail with per-viewer visibility.
type Service struct {
	store Store
}

// NewService builds a query service over store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns one page of records visible to viewer, newest first.
func (s *Service) List(ctx context.Context, viewer Viewer, page, limit int, filters Filters) (Page, error) {
	if s.store == nil {
		return Page{}, ErrStoreNotConfigured
	}
	if !viewer.valid() {
		return Page{}, ErrAccessDenied
	}
	page, limit = shared.NormalizePage(page, limit)
	records, total, err := s.store.Query(ctx, scope(viewer, filters), shared.Offset(page, limit), limit)
	if err != nil {
		return Page{}, err
	}
	if records == nil {
		records = []Record{}
	}
	return Page{Data: records, Pagination: shared.NewPagination(page, limit, total)}, nil
}

// Get returns one record. Viewers without All only see their own records.
func (s *Service) Get(ctx context.Context, id string, viewer Viewer) (*Record, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	if !viewer.valid() {
		return nil, ErrAccessDenied
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.All && rec.ActorID != viewer.ID {
		return nil, ErrAccessDenied
	}
	return rec, nil
}

// Stats aggregates the records visible to viewer.
func (s *Service) Stats(ctx context.Context, viewer Viewer) (Stats, error) {
	if s.store == nil {
		return Stats{}, ErrStoreNotConfigured
	}
	if !viewer.valid() {
		return Stats{}, ErrAccessDenied
	}
	return s.store.Stats(ctx, scope(viewer, Filters{}))
}

// scope pins the actor filter for restricted viewers. Callers cannot widen it.
func scope(viewer Viewer, filters Filters) Filter {
	f := Filter{Filters: filters}
	if !viewer.All {
		f.ActorID = viewer.ID
	}
	return f
}

func (v Viewer) valid() bool {
	return v.All || v.ID != ""
}
