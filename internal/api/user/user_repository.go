package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-blog-api/app/observability/metrics"
	"github.com/FACorreiaa/go-blog-api/internal/api"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

// Postgres unique_violation
const uniqueViolationCode = "23505"

var _ Repo = (*PostgresRepo)(nil)

type Repo interface {
	CreateUser(ctx context.Context, username, passwordHash, firstName, lastName string) (*types.User, error)
	ListUsers(ctx context.Context) ([]types.User, error)
}

type PostgresRepo struct {
	logger *slog.Logger
	pgpool api.PGXDB
}

func NewPostgresRepo(pgpool api.PGXDB, logger *slog.Logger) *PostgresRepo {
	return &PostgresRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// CreateUser inserts a new user. Username uniqueness is enforced by the
// store's unique index; a violation surfaces as types.ErrConflict in a
// single atomic step, so concurrent registrations cannot both succeed.
func (r *PostgresRepo) CreateUser(ctx context.Context, username, passwordHash, firstName, lastName string) (*types.User, error) {
	start := time.Now()
	user := types.User{
		Username:     username,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
	}
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, first_name, last_name)
         VALUES ($1, $2, $3, $4)
         RETURNING id, created_at`,
		username, passwordHash, firstName, lastName).Scan(&user.ID, &user.CreatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, types.ErrConflict
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("create user: db insert failed: %w", err)
	}
	return &user, nil
}

// ListUsers returns all users.
func (r *PostgresRepo) ListUsers(ctx context.Context) ([]types.User, error) {
	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, username, password_hash, first_name, last_name, created_at
         FROM users ORDER BY created_at`)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("list users: query failed: %w", err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("list users: scan failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("list users: rows error: %w", err)
	}
	return users, nil
}
