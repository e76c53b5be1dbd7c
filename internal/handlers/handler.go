package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vaughan-dsouza/alramy/internal/auth"
	"github.com/vaughan-dsouza/alramy/internal/models"
	"github.com/vaughan-dsouza/alramy/internal/store"
	"github.com/vaughan-dsouza/alramy/internal/utils"
	"github.com/vaughan-dsouza/alramy/internal/validation"
)

// Options configures the session cookie and clock shared by all handlers.
type Options struct {
	CookieName   string
	CookieSecure bool
	Now          func() time.Time
}

type Handler struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Posts      *PostHandler
	Comments   *CommentHandler
	Categories *CategoryHandler
}

func NewHandler(st *store.Store, tokens *auth.Tokens, logger *zap.Logger, opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	b := base{store: st, logger: logger}
	return &Handler{
		Auth:       &AuthHandler{base: b, tokens: tokens, opts: opts},
		Users:      &UserHandler{base: b},
		Posts:      &PostHandler{base: b},
		Comments:   &CommentHandler{base: b},
		Categories: &CategoryHandler{base: b},
	}
}

type base struct {
	store  *store.Store
	logger *zap.Logger
}

// fail maps store errors onto the failure envelope.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, utils.CodeNotFound, what+" not found")
	case errors.Is(err, store.ErrConflict):
		utils.JSONError(w, http.StatusConflict, utils.CodeConflict, what+" already exists")
	default:
		b.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, utils.CodeInternal, "internal error")
	}
}

// conform checks an outgoing entity against its canonical schema. A mismatch
// is a server fault and is answered with 500.
func (b base) conform(w http.ResponseWriter, r *http.Request, canonical any) bool {
	err := validation.Validate(canonical)
	if err == nil {
		return true
	}
	b.logger.Error("entity does not match its schema",
		zap.String("path", r.URL.Path),
		zap.Error(err))
	utils.JSONError(w, http.StatusInternalServerError, utils.CodeInternal, "internal error")
	return false
}

func forbidden(w http.ResponseWriter) {
	utils.JSONError(w, http.StatusForbidden, utils.CodeForbidden, "not allowed")
}

// session returns the caller's session; RequireSession guarantees one on protected routes.
func session(r *http.Request) (auth.Session, bool) {
	return auth.FromContext(r.Context())
}

// canEdit reports whether the caller may modify content owned by ownerID.
func canEdit(r *http.Request, ownerID string) bool {
	s, ok := session(r)
	if !ok {
		return false
	}
	return s.UserID == ownerID || s.Role.CanModerate()
}

func pageOf(number, size int) store.Page {
	return store.Page{Number: number, Size: size}
}

// publicUser clears the password hash before a user is written out.
func publicUser(u models.User) models.User {
	u.Password = ""
	return u
}
