package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-blog-api/app/observability/metrics"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService resolves credentials into a signed bearer token.
type AuthService interface {
	// Login verifies username+password against the credential store and
	// issues a token for the matching user.
	Login(ctx context.Context, username, password string) (string, error)

	// Refresh issues a fresh token, with a new expiry, for an already
	// verified principal. The password is not re-checked.
	Refresh(ctx context.Context, principal types.Principal) (string, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	codec  *TokenCodec
}

func NewAuthService(repo AuthRepo, codec *TokenCodec, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		codec:  codec,
	}
}

// Login authenticates a user by username and password. The failure message
// is identical for "no such user" and "wrong password" so callers cannot
// enumerate usernames.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	metrics.Get().LoginRequestsTotal.Add(ctx, 1)

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", types.ErrUnauthenticated
		}
		return "", fmt.Errorf("login: %w", err)
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		// Stored hash is malformed, not a credential failure
		s.logger.ErrorContext(ctx, "Stored password hash is malformed", slog.String("username", username), slog.Any("error", err))
		return "", fmt.Errorf("login: %w", err)
	}
	if !ok {
		return "", types.ErrUnauthenticated
	}

	token, err := s.codec.Issue(user.Principal())
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	metrics.Get().TokensIssuedTotal.Add(ctx, 1)
	return token, nil
}

// Refresh re-issues a token from the principal snapshot embedded in a still
// valid token. Name changes since the original issuance are not picked up
// until the next password login.
func (s *AuthServiceImpl) Refresh(ctx context.Context, principal types.Principal) (string, error) {
	token, err := s.codec.Issue(principal)
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	metrics.Get().TokensIssuedTotal.Add(ctx, 1)
	return token, nil
}
