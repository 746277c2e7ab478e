package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-blog-api/internal/api/auth"
	"github.com/FACorreiaa/go-blog-api/internal/api/blogpost"
	"github.com/FACorreiaa/go-blog-api/internal/api/user"
)

// Config contains the dependencies needed for the router setup.
type Config struct {
	AuthHandler            auth.Handler
	UserHandler            user.Handler
	PostHandler            blogpost.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	MetricsHandler         http.Handler
}

// SetupRouter wires all routes. Server-wide middleware (request ID, logger,
// recoverer) is applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// --- Public routes ---
	r.Group(func(r chi.Router) {
		r.Get("/blog-posts", cfg.PostHandler.ListPosts)
		r.Get("/blog-posts/{id}", cfg.PostHandler.GetPost)

		r.Post("/users", cfg.UserHandler.Register)
		r.Get("/users", cfg.UserHandler.ListUsers)

		// Login authenticates inline via Basic credentials
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// --- Protected routes (bearer token required) ---
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)

		r.Post("/blog-posts", cfg.PostHandler.CreatePost)
		r.Put("/blog-posts/{id}", cfg.PostHandler.UpdatePost)
		r.Delete("/blog-posts/{id}", cfg.PostHandler.DeletePost)

		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	return r
}
