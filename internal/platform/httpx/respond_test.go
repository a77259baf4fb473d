package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseflow/courseflow/internal/shared"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("contact: %w", ErrNotFound): http.StatusNotFound,
		ErrDuplicate:                           http.StatusConflict,
		fmt.Errorf("%w: email", ErrValidation): http.StatusBadRequest,
		ErrForbidden:                           http.StatusForbidden,
		ErrUnauthorized:                        http.StatusUnauthorized,
		errors.New("boom"):                     http.StatusInternalServerError,
	}
	for err, want := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), err)
		assert.Equal(t, want, rec.Code, err.Error())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestRespondErrorReportsFailure(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx, slot := shared.ContextWithFailureSlot(req.Context())
	boom := errors.New("boom")

	RespondError(httptest.NewRecorder(), req.WithContext(ctx), boom)

	require.Error(t, slot.Err())
	assert.Same(t, boom, slot.Err())
}

type decodeTarget struct {
	Email string `json:"email" validate:"required,email"`
}

func TestDecodeValid(t *testing.T) {
	v := validator.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.com"}`))
	var ok decodeTarget
	require.NoError(t, DecodeValid(req, v, &ok))
	assert.Equal(t, "a@b.com", ok.Email)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
	var bad decodeTarget
	assert.ErrorIs(t, DecodeValid(req, v, &bad), ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.ErrorIs(t, DecodeValid(req, v, &bad), ErrValidation)
}
