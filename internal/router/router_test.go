package router

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-blog-api/config"
	"github.com/FACorreiaa/go-blog-api/internal/api/auth"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

type stubAuthHandler struct{}

func (stubAuthHandler) Login(w http.ResponseWriter, r *http.Request)   { w.WriteHeader(http.StatusOK) }
func (stubAuthHandler) Refresh(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

type stubUserHandler struct{}

func (stubUserHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusCreated)
}
func (stubUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type stubPostHandler struct{}

func (stubPostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
func (stubPostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
func (stubPostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusCreated)
}
func (stubPostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
func (stubPostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func setupTestRouter(t *testing.T) (http.Handler, *auth.TokenCodec) {
	t.Helper()
	codec, err := auth.NewTokenCodec(config.JWTConfig{
		SecretKey: "test-secret-key",
		Issuer:    "go-blog-api",
		Expiry:    time.Hour,
	})
	require.NoError(t, err)

	r := SetupRouter(&Config{
		AuthHandler:            stubAuthHandler{},
		UserHandler:            stubUserHandler{},
		PostHandler:            stubPostHandler{},
		AuthenticateMiddleware: auth.Authenticate(slog.Default(), codec),
	})
	return r, codec
}

func TestPublicRoutes(t *testing.T) {
	r, _ := setupTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/ping", http.StatusOK},
		{http.MethodGet, "/blog-posts", http.StatusOK},
		{http.MethodGet, "/blog-posts/0b26c16e-26e2-4a1a-8a4b-6b9a4d9c0001", http.StatusOK},
		{http.MethodGet, "/users", http.StatusOK},
		{http.MethodPost, "/users", http.StatusCreated},
		{http.MethodPost, "/login", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, codec := setupTestRouter(t)

	protected := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodPost, "/blog-posts", http.StatusCreated},
		{http.MethodPut, "/blog-posts/0b26c16e-26e2-4a1a-8a4b-6b9a4d9c0001", http.StatusNoContent},
		{http.MethodDelete, "/blog-posts/0b26c16e-26e2-4a1a-8a4b-6b9a4d9c0001", http.StatusNoContent},
		{http.MethodPost, "/refresh", http.StatusOK},
	}

	t.Run("WithoutToken", func(t *testing.T) {
		for _, tc := range protected {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
		}
	})

	t.Run("WithToken", func(t *testing.T) {
		token, err := codec.Issue(types.Principal{Username: "al", FirstName: "Al", LastName: "B"})
		require.NoError(t, err)

		for _, tc := range protected {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code, "%s %s", tc.method, tc.path)
		}
	})
}

func TestUnknownRoute(t *testing.T) {
	r, _ := setupTestRouter(t)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
