package blogpost

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-blog-api/internal/api"
	"github.com/FACorreiaa/go-blog-api/internal/api/auth"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ListPosts(w http.ResponseWriter, r *http.Request)
	GetPost(w http.ResponseWriter, r *http.Request)
	CreatePost(w http.ResponseWriter, r *http.Request)
	UpdatePost(w http.ResponseWriter, r *http.Request)
	DeletePost(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	postService Service
	logger      *slog.Logger
}

func NewHandlerImpl(postService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		postService: postService,
		logger:      logger,
	}
}

// CreatePostRequest accepts an author field but ignores it: the stored
// author always comes from the authenticated principal.
type CreatePostRequest struct {
	Title   *string       `json:"title"`
	Content *string       `json:"content"`
	Author  *types.Author `json:"author,omitempty"`
}

// UpdatePostRequest carries the path id again in the body plus the optional
// subset of mutable fields.
type UpdatePostRequest struct {
	ID      *string       `json:"id"`
	Title   *string       `json:"title,omitempty"`
	Content *string       `json:"content,omitempty"`
	Author  *types.Author `json:"author,omitempty"`
}

// ListPosts returns summaries of all posts. Public.
func (h *HandlerImpl) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListPosts"))

	summaries, err := h.postService.ListPosts(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list posts", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, summaries)
}

// GetPost returns one post summary by id. Public.
func (h *HandlerImpl) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPost"))

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	summary, err := h.postService.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, summary)
}

// CreatePost stores a new post for the authenticated principal.
func (h *HandlerImpl) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreatePost"))

	principal, ok := auth.GetPrincipalFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "Principal not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Title == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "You are missing required field: title")
		return
	}
	if req.Content == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "You are missing required field: content")
		return
	}

	summary, err := h.postService.CreatePost(ctx, *req.Title, *req.Content, principal)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to create post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/blog-posts/%s", summary.ID))
	api.WriteJSONResponse(w, r, http.StatusCreated, summary)
}

// UpdatePost applies a partial update. The path id and body id must match;
// a mismatch is rejected before any store call.
func (h *HandlerImpl) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdatePost"))

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	var req UpdatePostRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.ID == nil || *req.ID != id.String() {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Request path id and request body id values must match")
		return
	}

	params := UpdatePostParams{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	}
	if _, err := h.postService.UpdatePost(ctx, id, params); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// DeletePost removes a post by id. Responds 204 whether or not the post
// still existed.
func (h *HandlerImpl) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeletePost"))

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	if err := h.postService.DeletePost(ctx, id); err != nil {
		l.ErrorContext(ctx, "Failed to delete post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
