package contacts

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/courseflow/courseflow/internal/platform/httpx"
)

func TestClassifyWriteErrorMapsUnknownOrganization(t *testing.T) {
	err := classifyWriteError(&pgconn.PgError{Code: "23503", ConstraintName: "contacts_organization_id_fkey"})
	assert.ErrorIs(t, err, ErrUnknownOrganization)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	owner := &pgconn.PgError{Code: "23503", ConstraintName: "contacts_owner_id_fkey"}
	assert.Same(t, owner, classifyWriteError(owner))

	other := errors.New("connection reset")
	assert.Equal(t, other, classifyWriteError(other))
}
