package contacts

type CreateContactRequest struct {
	OwnerID        string  `json:"owner_id,omitempty" validate:"omitempty,max=64"`
	OrganizationID *string `json:"organization_id,omitempty" validate:"omitempty,max=64"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateContactRequest struct {
	OrganizationID *string `json:"organization_id,omitempty" validate:"omitempty,max=64"`
	FirstName      *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName       *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListContactsRequest narrows a listing. An empty OwnerID lists every owner.
type ListContactsRequest struct {
	OwnerID string
	Search  *string
	Limit   int
	Offset  int
}
