package users

import "time"

// User represents a user account for management.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserRequest is the payload for provisioning an account.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER CLIENT CANDIDATE"`
}

// UpdateRoleRequest changes the role of an account.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN MANAGER CLIENT CANDIDATE"`
}
