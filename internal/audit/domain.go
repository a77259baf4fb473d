package audit

import (
	"errors"
	"fmt"
	"time"

	"github.com/courseflow/courseflow/internal/platform/httpx"
	"github.com/courseflow/courseflow/internal/shared"
)

// Action classifies what an audited operation did.
type Action string

// Audit actions.
const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

var (
	// ErrNotFound indicates the record does not exist.
	ErrNotFound = fmt.Errorf("audit: %w", httpx.ErrNotFound)
	// ErrAccessDenied indicates the record exists but belongs to another actor.
	ErrAccessDenied = fmt.Errorf("audit: %w: record belongs to another actor", httpx.ErrForbidden)
	// ErrStoreNotConfigured is returned when no Store was wired.
	ErrStoreNotConfigured = errors.New("audit: store not configured")
)

// Record is one immutable entry of the audit trail.
type Record struct {
	ID        string         `json:"id"`
	ActorID   string         `json:"actor_id"`
	Action    Action         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id,omitempty"`
	Details   map[string]any `json:"details"`
	Timestamp time.Time      `json:"timestamp"`
	Success   bool           `json:"success"`
}

// Call describes one guarded operation as seen by the capture pipeline.
type Call struct {
	ActorID   string
	Resource  string
	Kind      string
	Path      string
	EntityID  string
	Params    map[string]string
	Query     map[string]any
	Body      map[string]any
	UserAgent string
	ClientIP  string
}

// Filters are the caller-controlled narrowing options on a query.
type Filters struct {
	Entity string
	Action Action
	From   time.Time
	To     time.Time
}

// Filter is what the Store receives: caller filters plus visibility scope.
type Filter struct {
	Filters
	ActorID string
}

// Viewer is the identity a query runs on behalf of.
type Viewer struct {
	ID string
	// All is set for viewers that see every actor's records.
	All bool
}

// Page is one page of records.
type Page struct {
	Data       []Record          `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

// Stats aggregates a visible slice of the trail.
type Stats struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	ByAction  map[string]int `json:"by_action"`
	ByEntity  map[string]int `json:"by_entity"`
}
