package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/courseflow/courseflow/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context, offset, limit int) ([]User, int, error)
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	UpdateRole(ctx context.Context, id, role string) (User, error)
}

// Page is one page of users.
type Page struct {
	Data       []User            `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
	cost int
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// ListUsers returns one page of users.
func (s *Service) ListUsers(ctx context.Context, page, limit int) (Page, error) {
	page, limit = shared.NormalizePage(page, limit)
	users, total, err := s.repo.ListUsers(ctx, shared.Offset(page, limit), limit)
	if err != nil {
		return Page{}, err
	}
	return Page{Data: users, Pagination: shared.NewPagination(page, limit, total)}, nil
}

// CreateUser hashes the password and stores a new active account.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return User{}, err
	}
	return s.repo.CreateUser(ctx, User{
		ID:    uuid.NewString(),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Name:  strings.TrimSpace(req.Name),
		Role:  req.Role,
	}, string(hash))
}

// UpdateRole changes the role of an account. It takes effect at the user's
// next sign-in.
func (s *Service) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (User, error) {
	return s.repo.UpdateRole(ctx, id, req.Role)
}
