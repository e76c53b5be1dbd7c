// Package server wires the JSON API, the public webapp and the admin
// dashboard behind one chi router.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/vaughan-dsouza/alramy/internal/auth"
	"github.com/vaughan-dsouza/alramy/internal/config"
	"github.com/vaughan-dsouza/alramy/internal/handlers"
	"github.com/vaughan-dsouza/alramy/internal/middleware"
	"github.com/vaughan-dsouza/alramy/internal/models"
	"github.com/vaughan-dsouza/alramy/internal/store"
	"github.com/vaughan-dsouza/alramy/internal/theme"
	"github.com/vaughan-dsouza/alramy/internal/utils"
	"github.com/vaughan-dsouza/alramy/internal/web"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Store   *store.Store
	Tokens  *auth.Tokens
	Logger  *zap.Logger
	Options handlers.Options
}

// New builds the HTTP server for cfg on top of an open database.
func New(cfg config.Config, database *sqlx.DB, logger *zap.Logger) (*http.Server, error) {
	tokens, err := auth.NewTokens(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	router, err := NewRouter(Deps{
		Store:  store.New(database),
		Tokens: tokens,
		Logger: logger,
		Options: handlers.Options{
			CookieName:   cfg.CookieName,
			CookieSecure: cfg.CookieSecure,
		},
	})
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logger),
	}, nil
}

// NewRouter mounts the API under /api, the admin dashboard under /admin and
// the webapp at the root.
func NewRouter(d Deps) (chi.Router, error) {
	webapp, err := web.NewWebapp(d.Store, d.Logger)
	if err != nil {
		return nil, err
	}
	admin, err := web.NewAdmin(d.Store, d.Logger)
	if err != nil {
		return nil, err
	}

	cookie := d.Options.CookieName
	if cookie == "" {
		cookie = "session"
	}
	h := handlers.NewHandler(d.Store, d.Tokens, d.Logger, d.Options)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Sessions(d.Tokens, cookie, d.Logger))

	r.Route("/api", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			utils.JSONError(w, http.StatusNotFound, utils.CodeNotFound, "route not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			utils.JSONError(w, http.StatusMethodNotAllowed, utils.CodeBadRequest, "method not allowed")
		})

		// Public
		r.Post("/auth/signup", h.Auth.SignUp)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		r.Get("/posts", h.Posts.GetPosts)
		r.Get("/posts/{id}", h.Posts.GetPostByID)
		r.Get("/posts/slug/{slug}", h.Posts.GetPostBySlug)
		r.Get("/posts/{id}/comments", h.Comments.ListComments)
		r.Get("/categories", h.Categories.ListCategories)
		r.Get("/categories/{slug}", h.Categories.GetCategory)
		r.Get("/theme", serveTheme)

		// Signed in
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.Get("/me", h.Auth.Me)
			r.Patch("/me", h.Auth.UpdateMe)
			r.Get("/me/posts", h.Posts.MyPosts)

			r.Post("/posts", h.Posts.CreatePost)
			r.Patch("/posts/{id}", h.Posts.UpdatePost)
			r.Put("/posts/{id}", h.Posts.UpdatePost)
			r.Delete("/posts/{id}", h.Posts.DeletePost)
			r.Post("/posts/{id}/comments", h.Comments.CreateComment)
			r.Delete("/comments/{id}", h.Comments.DeleteComment)
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/categories", h.Categories.CreateCategory)
			r.Get("/admin/users", h.Users.ListUsers)
			r.Patch("/admin/users/{id}", h.Users.UpdateUser)
		})
	})

	r.Mount("/admin", admin.Routes())
	r.Mount("/", webapp.Routes())
	return r, nil
}

func serveTheme(w http.ResponseWriter, r *http.Request) {
	utils.OK(w, http.StatusOK, theme.Base(), "")
}
