package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-blog-api/internal/api"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Login exchanges HTTP Basic credentials for a signed auth token.
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	username, password, ok := r.BasicAuth()
	if !ok {
		l.WarnContext(ctx, "Missing or malformed Basic credentials")
		w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Basic credentials required")
		return
	}

	token, err := h.authService.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			l.WarnContext(ctx, "Login rejected", slog.String("username", username))
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, TokenResponse{AuthToken: token})
}

// Refresh issues a new token with a fresh expiry from the principal of the
// presented (still valid) bearer token. Runs behind the Authenticate
// middleware.
func (h *HandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Refresh"))

	principal, ok := GetPrincipalFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "Principal not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	token, err := h.authService.Refresh(ctx, principal)
	if err != nil {
		l.ErrorContext(ctx, "Token refresh failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, TokenResponse{AuthToken: token})
}
