package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/FACorreiaa/go-blog-api/app/observability/metrics"
	"github.com/FACorreiaa/go-blog-api/config"
	"github.com/FACorreiaa/go-blog-api/internal/api/auth"
	"github.com/FACorreiaa/go-blog-api/internal/api/blogpost"
	"github.com/FACorreiaa/go-blog-api/internal/api/user"
	"github.com/FACorreiaa/go-blog-api/internal/router"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

// memStore is an in-memory stand-in for the Postgres repositories so the
// whole HTTP stack can be exercised without a database.
type memStore struct {
	mu    sync.Mutex
	users map[string]types.User
	posts map[uuid.UUID]types.BlogPost
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]types.User),
		posts: make(map[uuid.UUID]types.BlogPost),
	}
}

func (s *memStore) GetUserByUsername(_ context.Context, username string) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) CreateUser(_ context.Context, username, passwordHash, firstName, lastName string) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return nil, types.ErrConflict
	}
	u := types.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[username] = u
	return &u, nil
}

func (s *memStore) ListUsers(_ context.Context) ([]types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]types.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *memStore) ListPosts(_ context.Context) ([]types.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]types.BlogPost, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.Before(posts[j].CreatedAt) })
	return posts, nil
}

func (s *memStore) GetPost(_ context.Context, id uuid.UUID) (*types.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) CreatePost(_ context.Context, title, content string, author types.Author) (*types.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := types.BlogPost{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}
	s.posts[p.ID] = p
	return &p, nil
}

func (s *memStore) UpdatePost(_ context.Context, id uuid.UUID, params blogpost.UpdatePostParams) (*types.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	if params.Title != nil {
		p.Title = *params.Title
	}
	if params.Content != nil {
		p.Content = *params.Content
	}
	if params.Author != nil {
		p.Author = *params.Author
	}
	s.posts[id] = p
	return &p, nil
}

func (s *memStore) DeletePost(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	return nil
}

// E2ETestSuite runs complete user workflows against the fully wired HTTP
// stack: real handlers, services, middleware and token codec, with only the
// repositories swapped for an in-memory store.
type E2ETestSuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	store     *memStore
	authToken string
	postID    uuid.UUID
}

func (s *E2ETestSuite) SetupSuite() {
	metrics.InitAppMetrics()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	codec, err := auth.NewTokenCodec(config.JWTConfig{
		SecretKey: "e2e-test-secret",
		Issuer:    "go-blog-api",
		Expiry:    time.Hour,
	})
	s.Require().NoError(err)

	s.store = newMemStore()
	authService := auth.NewAuthService(s.store, codec, logger)
	userService := user.NewService(s.store, logger)
	postService := blogpost.NewService(s.store, logger)

	mux := chi.NewMux()
	mux.Mount("/", router.SetupRouter(&router.Config{
		AuthHandler:            auth.NewHandlerImpl(authService, logger),
		UserHandler:            user.NewHandlerImpl(userService, logger),
		PostHandler:            blogpost.NewHandlerImpl(postService, logger),
		AuthenticateMiddleware: auth.Authenticate(logger, codec),
	}))

	s.server = httptest.NewServer(mux)
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *E2ETestSuite) postJSON(path, body string, configure func(*http.Request)) *http.Response {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, bytes.NewBufferString(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if configure != nil {
		configure(req)
	}
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *E2ETestSuite) decodeBody(resp *http.Response, out any) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(data, out))
}

func (s *E2ETestSuite) Test01_RegisterUser() {
	resp := s.postJSON("/users",
		`{"username":"e2euser","password":"s3cret-pass","firstName":"End","lastName":"ToEnd"}`, nil)
	s.Equal(http.StatusCreated, resp.StatusCode)

	var summary types.UserSummary
	s.decodeBody(resp, &summary)
	s.Equal("e2euser", summary.Username)
}

func (s *E2ETestSuite) Test02_DuplicateRegistrationRejected() {
	resp := s.postJSON("/users",
		`{"username":"e2euser","password":"other-pass","firstName":"E","lastName":"T"}`, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *E2ETestSuite) Test03_LoginWithBasicCredentials() {
	resp := s.postJSON("/login", "", func(req *http.Request) {
		req.SetBasicAuth("e2euser", "s3cret-pass")
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	var token struct {
		AuthToken string `json:"authToken"`
	}
	s.decodeBody(resp, &token)
	s.NotEmpty(token.AuthToken)
	s.authToken = token.AuthToken
}

func (s *E2ETestSuite) Test04_LoginWithWrongPassword() {
	resp := s.postJSON("/login", "", func(req *http.Request) {
		req.SetBasicAuth("e2euser", "wrong-pass")
	})
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) Test05_CreatePostRequiresToken() {
	resp := s.postJSON("/blog-posts", `{"title":"T","content":"C"}`, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) Test06_CreatePost() {
	s.Require().NotEmpty(s.authToken)

	resp := s.postJSON("/blog-posts",
		`{"title":"Hello from e2e","content":"Full workflow content"}`,
		func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+s.authToken)
		})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var summary types.BlogPostSummary
	s.decodeBody(resp, &summary)
	s.Equal("Hello from e2e", summary.Title)
	// Author comes from the authenticated principal
	s.Equal("End ToEnd", summary.Author)
	s.postID = summary.ID
}

func (s *E2ETestSuite) Test07_ListAndGetPost() {
	resp, err := s.client.Get(s.server.URL + "/blog-posts")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	var summaries []types.BlogPostSummary
	s.decodeBody(resp, &summaries)
	s.Require().Len(summaries, 1)

	resp, err = s.client.Get(fmt.Sprintf("%s/blog-posts/%s", s.server.URL, s.postID))
	s.Require().NoError(err)
	var summary types.BlogPostSummary
	s.decodeBody(resp, &summary)
	s.Equal(s.postID, summary.ID)
}

func (s *E2ETestSuite) Test08_UpdatePost() {
	body := fmt.Sprintf(`{"id":%q,"title":"Updated title"}`, s.postID)
	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/blog-posts/%s", s.server.URL, s.postID), bytes.NewBufferString(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.authToken)

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	getResp, err := s.client.Get(fmt.Sprintf("%s/blog-posts/%s", s.server.URL, s.postID))
	s.Require().NoError(err)
	var summary types.BlogPostSummary
	s.decodeBody(getResp, &summary)
	s.Equal("Updated title", summary.Title)
}

func (s *E2ETestSuite) Test09_UpdateWithMismatchedBodyID() {
	body := fmt.Sprintf(`{"id":%q,"title":"Should not apply"}`, uuid.New())
	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/blog-posts/%s", s.server.URL, s.postID), bytes.NewBufferString(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.authToken)

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	getResp, err := s.client.Get(fmt.Sprintf("%s/blog-posts/%s", s.server.URL, s.postID))
	s.Require().NoError(err)
	var summary types.BlogPostSummary
	s.decodeBody(getResp, &summary)
	s.Equal("Updated title", summary.Title)
}

func (s *E2ETestSuite) Test10_RefreshToken() {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/refresh", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+s.authToken)

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	var token struct {
		AuthToken string `json:"authToken"`
	}
	s.decodeBody(resp, &token)
	s.NotEmpty(token.AuthToken)
}

func (s *E2ETestSuite) Test11_DeletePostIsIdempotent() {
	del := func() int {
		req, err := http.NewRequest(http.MethodDelete,
			fmt.Sprintf("%s/blog-posts/%s", s.server.URL, s.postID), nil)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+s.authToken)
		resp, err := s.client.Do(req)
		s.Require().NoError(err)
		resp.Body.Close()
		return resp.StatusCode
	}

	s.Equal(http.StatusNoContent, del())
	// The second delete of the same id still reports success
	s.Equal(http.StatusNoContent, del())

	resp, err := s.client.Get(fmt.Sprintf("%s/blog-posts/%s", s.server.URL, s.postID))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestE2ETestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}
