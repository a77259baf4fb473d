package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestURLParams(t *testing.T) {
	r := chi.NewRouter()
	var got map[string]string
	r.Get("/orgs/{org}/contacts/{id}", func(w http.ResponseWriter, req *http.Request) {
		got = URLParams(req)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orgs/o1/contacts/c9", nil))
	assert.Equal(t, map[string]string{"org": "o1", "id": "c9"}, got)
}

func TestURLParamsWithoutRouter(t *testing.T) {
	assert.Empty(t, URLParams(httptest.NewRequest(http.MethodGet, "/", nil)))
}
