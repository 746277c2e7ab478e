package blogpost

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-blog-api/internal/types"
)

const (
	listCacheKey = "blog_posts:list"
	listCacheTTL = 30 * time.Second
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	ListPosts(ctx context.Context) ([]types.BlogPostSummary, error)
	GetPost(ctx context.Context, id uuid.UUID) (*types.BlogPostSummary, error)
	CreatePost(ctx context.Context, title, content string, principal types.Principal) (*types.BlogPostSummary, error)
	UpdatePost(ctx context.Context, id uuid.UUID, params UpdatePostParams) (*types.BlogPostSummary, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repo
	cache  *cache.Cache
}

func NewService(repo Repo, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(listCacheTTL, 2*listCacheTTL),
	}
}

// ListPosts returns the summaries of all posts. The read-mostly listing is
// served from a short-TTL in-process cache that every write invalidates.
func (s *ServiceImpl) ListPosts(ctx context.Context) ([]types.BlogPostSummary, error) {
	if cached, found := s.cache.Get(listCacheKey); found {
		if summaries, ok := cached.([]types.BlogPostSummary); ok {
			s.logger.DebugContext(ctx, "Post listing served from cache")
			return summaries, nil
		}
	}

	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]types.BlogPostSummary, 0, len(posts))
	for i := range posts {
		summaries = append(summaries, posts[i].Summary())
	}
	s.cache.Set(listCacheKey, summaries, cache.DefaultExpiration)
	return summaries, nil
}

func (s *ServiceImpl) GetPost(ctx context.Context, id uuid.UUID) (*types.BlogPostSummary, error) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := post.Summary()
	return &summary, nil
}

// CreatePost stores a new post. The author is derived from the
// authenticated principal, never from request input.
func (s *ServiceImpl) CreatePost(ctx context.Context, title, content string, principal types.Principal) (*types.BlogPostSummary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", types.ErrValidation)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content must not be empty", types.ErrValidation)
	}

	author := types.Author{
		FirstName: principal.FirstName,
		LastName:  principal.LastName,
	}
	post, err := s.repo.CreatePost(ctx, title, content, author)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(listCacheKey)
	s.logger.InfoContext(ctx, "Post created",
		slog.String("id", post.ID.String()),
		slog.String("author", post.Author.FullName()),
	)
	summary := post.Summary()
	return &summary, nil
}

func (s *ServiceImpl) UpdatePost(ctx context.Context, id uuid.UUID, params UpdatePostParams) (*types.BlogPostSummary, error) {
	post, err := s.repo.UpdatePost(ctx, id, params)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(listCacheKey)
	summary := post.Summary()
	return &summary, nil
}

func (s *ServiceImpl) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(listCacheKey)
	return nil
}
