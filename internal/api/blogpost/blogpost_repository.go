package blogpost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/go-blog-api/app/observability/metrics"
	"github.com/FACorreiaa/go-blog-api/internal/api"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

var _ Repo = (*PostgresRepo)(nil)

// UpdatePostParams carries the optional fields of a partial update. A nil
// field leaves the stored value untouched.
type UpdatePostParams struct {
	Title   *string
	Content *string
	Author  *types.Author
}

type Repo interface {
	ListPosts(ctx context.Context) ([]types.BlogPost, error)
	GetPost(ctx context.Context, id uuid.UUID) (*types.BlogPost, error)
	CreatePost(ctx context.Context, title, content string, author types.Author) (*types.BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, params UpdatePostParams) (*types.BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
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

func (r *PostgresRepo) ListPosts(ctx context.Context) ([]types.BlogPost, error) {
	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, title, content, author_first_name, author_last_name, created_at
         FROM blog_posts ORDER BY created_at`)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("list posts: query failed: %w", err)
	}
	defer rows.Close()

	var posts []types.BlogPost
	for rows.Next() {
		var p types.BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Author.FirstName, &p.Author.LastName, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("list posts: scan failed: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("list posts: rows error: %w", err)
	}
	return posts, nil
}

// GetPost returns a single post, or types.ErrNotFound when the id does not
// exist. A missing row is never conflated with a query failure.
func (r *PostgresRepo) GetPost(ctx context.Context, id uuid.UUID) (*types.BlogPost, error) {
	start := time.Now()
	var p types.BlogPost
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, title, content, author_first_name, author_last_name, created_at
         FROM blog_posts WHERE id = $1`,
		id).Scan(&p.ID, &p.Title, &p.Content, &p.Author.FirstName, &p.Author.LastName, &p.CreatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("get post: query failed: %w", err)
	}
	return &p, nil
}

// CreatePost inserts a new post. id and created_at are assigned by the
// store and never change afterwards.
func (r *PostgresRepo) CreatePost(ctx context.Context, title, content string, author types.Author) (*types.BlogPost, error) {
	start := time.Now()
	p := types.BlogPost{
		Title:   title,
		Content: content,
		Author:  author,
	}
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO blog_posts (title, content, author_first_name, author_last_name)
         VALUES ($1, $2, $3, $4)
         RETURNING id, created_at`,
		title, content, author.FirstName, author.LastName).Scan(&p.ID, &p.CreatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("create post: db insert failed: %w", err)
	}
	return &p, nil
}

// UpdatePost applies only the fields present in params; title, content and
// author are the only mutable fields. Returns types.ErrNotFound for an
// unknown id.
func (r *PostgresRepo) UpdatePost(ctx context.Context, id uuid.UUID, params UpdatePostParams) (*types.BlogPost, error) {
	var authorFirst, authorLast *string
	if params.Author != nil {
		authorFirst = &params.Author.FirstName
		authorLast = &params.Author.LastName
	}

	start := time.Now()
	var p types.BlogPost
	err := r.pgpool.QueryRow(ctx,
		`UPDATE blog_posts
         SET title             = COALESCE($2, title),
             content           = COALESCE($3, content),
             author_first_name = COALESCE($4, author_first_name),
             author_last_name  = COALESCE($5, author_last_name)
         WHERE id = $1
         RETURNING id, title, content, author_first_name, author_last_name, created_at`,
		id, params.Title, params.Content, authorFirst, authorLast).
		Scan(&p.ID, &p.Title, &p.Content, &p.Author.FirstName, &p.Author.LastName, &p.CreatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("update post: db update failed: %w", err)
	}
	return &p, nil
}

// DeletePost removes a post by id. Deleting an id that is already gone is
// not an error; the operation is idempotent in effect.
func (r *PostgresRepo) DeletePost(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("delete post: db delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.DebugContext(ctx, "Delete on already-absent post", slog.String("id", id.String()))
	}
	return nil
}
