package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FACorreiaa/go-blog-api/app/observability/metrics"
	"github.com/FACorreiaa/go-blog-api/internal/api/auth"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// Register creates a new user account. The password arrives as
	// plaintext and is hashed here; the store never sees it.
	Register(ctx context.Context, username, password, firstName, lastName string) (*types.User, error)

	// ListUsers returns the public summaries of all users.
	ListUsers(ctx context.Context) ([]types.UserSummary, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repo
}

func NewService(repo Repo, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// Register validates the new account fields, hashes the password and
// inserts the user. A duplicate username surfaces as types.ErrConflict from
// the store's unique constraint.
func (s *ServiceImpl) Register(ctx context.Context, username, password, firstName, lastName string) (*types.User, error) {
	start := time.Now()
	defer func() {
		metrics.Get().RegisterRequestsTotal.Add(ctx, 1)
		metrics.Get().RegisterDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: incorrect field length: username", types.ErrValidation)
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return nil, fmt.Errorf("%w: incorrect field length: password", types.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, username, hash, firstName, lastName)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User registered", slog.String("username", user.Username))
	return user, nil
}

func (s *ServiceImpl) ListUsers(ctx context.Context) ([]types.UserSummary, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]types.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}
