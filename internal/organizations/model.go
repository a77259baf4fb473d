package organizations

import "time"

// Organization is a company or school that contacts belong to.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   *string   `json:"website,omitempty"`
	Industry  *string   `json:"industry,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateOrganizationRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Website  *string `json:"website,omitempty" validate:"omitempty,url,max=500"`
	Industry *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type UpdateOrganizationRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Website  *string `json:"website,omitempty" validate:"omitempty,url,max=500"`
	Industry *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}
