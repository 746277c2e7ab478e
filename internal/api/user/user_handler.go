package user

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-blog-api/internal/api"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService Service
	logger      *slog.Logger
}

func NewHandlerImpl(userService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// RegisterUserRequest uses pointers so an absent field (400) is
// distinguishable from an empty one (422).
type RegisterUserRequest struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// Register creates a new user account. No authentication required.
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterUserRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	required := []struct {
		name  string
		value *string
	}{
		{"username", req.Username},
		{"password", req.Password},
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
	}
	for _, field := range required {
		if field.value == nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("You are missing required field: %s", field.name))
			return
		}
	}

	if strings.TrimSpace(*req.Username) == "" {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "Incorrect field length: username")
		return
	}
	if strings.TrimSpace(*req.Password) == "" {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "Incorrect field length: password")
		return
	}

	user, err := h.userService.Register(ctx, *req.Username, *req.Password, *req.FirstName, *req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrConflict):
			l.WarnContext(ctx, "Username already taken", slog.String("username", *req.Username))
			api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "Username already taken")
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, user.Summary())
}

// ListUsers returns the public summaries of all users.
func (h *HandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListUsers"))

	summaries, err := h.userService.ListUsers(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, summaries)
}
