package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/courseflow/courseflow/internal/auth"
	"github.com/courseflow/courseflow/internal/shared"
	_ "github.com/courseflow/courseflow/testing"
)

type stubRepo struct {
	user     *auth.User
	sessions map[string]string
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || !strings.EqualFold(s.user.Email, email) {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, ua string) error {
	if s.sessions == nil {
		s.sessions = map[string]string{}
	}
	s.sessions[id] = userID
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func activeUser(t *testing.T) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.User{ID: "U1", Email: "user@test.local", Name: "Test User", Role: "CLIENT", PasswordHash: string(hashed), IsActive: true}
}

func newAuthHandler(t *testing.T, repo auth.Repository) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	handler := auth.NewHandler(nil, auth.NewService(repo), sessionManager)
	r := chi.NewRouter()
	r.Use(sessionManager.Middleware(nil))
	r.Route("/auth", handler.MountRoutes)
	return r
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func login(email, password string) *http.Request {
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLoginSuccessStartsSession(t *testing.T) {
	repo := &stubRepo{user: activeUser(t)}
	h := newAuthHandler(t, repo)

	rr := serve(t, h, login("user@test.local", "correctpass"))
	require.Equal(t, http.StatusOK, rr.Code)

	var profile auth.Profile
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&profile))
	assert.Equal(t, "U1", profile.ID)
	assert.Equal(t, "CLIENT", profile.Role)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Len(t, repo.sessions, 1)

	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.AddCookie(cookies[0])
	rr = serve(t, h, me)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"user@test.local"`)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newAuthHandler(t, &stubRepo{user: activeUser(t)})

	rr := serve(t, h, login("user@test.local", "wrongpass"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Result().Cookies())

	rr = serve(t, h, login("nobody@test.local", "correctpass"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser(t)
	user.IsActive = false
	h := newAuthHandler(t, &stubRepo{user: user})

	rr := serve(t, h, login("user@test.local", "correctpass"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginValidation(t *testing.T) {
	h := newAuthHandler(t, &stubRepo{})
	rr := serve(t, h, login("not-an-email", "short"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogoutDestroysSession(t *testing.T) {
	repo := &stubRepo{user: activeUser(t)}
	h := newAuthHandler(t, repo)

	rr := serve(t, h, login("user@test.local", "correctpass"))
	cookie := rr.Result().Cookies()[0]

	logout := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	logout.AddCookie(cookie)
	rr = serve(t, h, logout)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, repo.sessions)

	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.AddCookie(cookie)
	rr = serve(t, h, me)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
