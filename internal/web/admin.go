package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vaughan-dsouza/alramy/internal/auth"
	"github.com/vaughan-dsouza/alramy/internal/models"
	"github.com/vaughan-dsouza/alramy/internal/store"
	"github.com/vaughan-dsouza/alramy/internal/theme"
)

// Admin is the administrative dashboard shell.
type Admin struct {
	*App
}

func NewAdmin(st *store.Store, logger *zap.Logger) (*Admin, error) {
	th := theme.Base().Extend(theme.Overrides{
		Colors: []theme.Color{{Name: "sidebar", Light: "240 4.8% 95.9%", Dark: "240 5.9% 10%"}},
	})
	app, err := newApp("/admin", "Al-Ramy Blog - Admin Dashboard", "Admin dashboard for Al-Ramy Blog", th, st, logger)
	if err != nil {
		return nil, err
	}
	return &Admin{App: app}, nil
}

func (a *Admin) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", a.Dashboard)
	r.Get("/theme.css", a.ThemeCSS)
	return r
}

type dashboardData struct {
	Email     string
	Users     int
	Posts     int
	Published int
}

// Dashboard is only shown to admins; everyone else gets the sign-in notice.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	s, ok := auth.FromContext(r.Context())
	if !ok {
		a.render(w, http.StatusUnauthorized, "denied", "Sign in required", "Sign in with an admin account to continue.")
		return
	}
	if s.Role != models.RoleAdmin {
		a.render(w, http.StatusForbidden, "denied", "Forbidden", "Your account does not have access to the admin panel.")
		return
	}

	ctx := r.Context()
	data := dashboardData{Email: s.Email}
	var err error
	if data.Users, err = a.store.CountUsers(ctx); err == nil {
		if data.Posts, err = a.store.CountPosts(ctx, false); err == nil {
			data.Published, err = a.store.CountPosts(ctx, true)
		}
	}
	if err != nil {
		a.logger.Error("dashboard counts", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	a.render(w, http.StatusOK, "admin", "", data)
}
