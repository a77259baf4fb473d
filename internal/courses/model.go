package courses

import "time"

type Course struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Capacity    int        `json:"capacity"`
	StartsOn    *time.Time `json:"starts_on,omitempty"`
	EndsOn      *time.Time `json:"ends_on,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateCourseRequest struct {
	Code        string     `json:"code" validate:"required,max=50"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Capacity    int        `json:"capacity" validate:"gte=0,lte=10000"`
	StartsOn    *time.Time `json:"starts_on,omitempty"`
	EndsOn      *time.Time `json:"ends_on,omitempty" validate:"omitempty,gtfield=StartsOn"`
}

type UpdateCourseRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,gte=0,lte=10000"`
	StartsOn    *time.Time `json:"starts_on,omitempty"`
	EndsOn      *time.Time `json:"ends_on,omitempty"`
}
