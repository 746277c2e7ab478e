package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/go-blog-api/app/observability/metrics"
	"github.com/FACorreiaa/go-blog-api/internal/api"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo exposes the credential-store reads the authenticator needs.
type AuthRepo interface {
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool api.PGXDB
}

func NewPostgresAuthRepo(pgpool api.PGXDB, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// GetUserByUsername looks up a user by exact username match.
// Returns types.ErrNotFound when no such user exists.
func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	start := time.Now()
	var user types.User
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, username, password_hash, first_name, last_name, created_at
         FROM users WHERE username = $1`,
		username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("get user by username: query failed: %w", err)
	}
	return &user, nil
}
