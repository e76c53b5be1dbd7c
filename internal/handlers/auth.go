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

type AuthHandler struct {
	base
	tokens *auth.Tokens
	opts   Options
}

type loginResp struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// -------------- SIGN UP ----------------------

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var in validation.CreateUser
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		return
	}

	hash, err := auth.HashPassword(in.Password.Value)
	if err != nil {
		h.fail(w, r, err, "user")
		return
	}

	u, err := h.store.CreateUser(r.Context(), store.NewUser{
		Email:        in.Email.Value,
		Name:         in.Name.Ptr(),
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if errors.Is(err, store.ErrConflict) {
		utils.JSONError(w, http.StatusConflict, utils.CodeConflict, "email already exists")
		return
	}
	if err != nil {
		h.fail(w, r, err, "user")
		return
	}

	canonical := validation.UserOf(u)
	if !h.conform(w, r, &canonical) {
		return
	}

	h.logger.Info("user signed up", zap.String("user_id", u.ID))
	utils.OK(w, http.StatusCreated, publicUser(u), "user created")
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in validation.Login
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		return
	}

	u, err := h.store.UserByEmail(r.Context(), in.Email.Value)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.fail(w, r, err, "user")
		return
	}

	err = auth.CheckPassword(u.Password, in.Password.Value)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		utils.JSONError(w, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.fail(w, r, err, "user")
		return
	}

	s := auth.NewSession(h.opts.Now(), u.ID, u.Email, u.Role)
	token, err := h.tokens.Sign(s)
	if err != nil {
		h.fail(w, r, err, "session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	utils.OK(w, http.StatusOK, loginResp{Token: token, ExpiresAt: s.ExpiresAt, User: publicUser(u)}, "")
}

// -------------- LOGOUT -----------------------

// Logout clears the cookie. Tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// -------------- ME (protected) ----------------

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, _ := session(r)
	u, err := h.store.UserByID(r.Context(), s.UserID)
	if err != nil {
		h.fail(w, r, err, "user")
		return
	}
	utils.OK(w, http.StatusOK, publicUser(u), "")
}

// UpdateMe applies a partial update to the caller. Only admins may change their role.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var in validation.UpdateUser
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		return
	}

	s, _ := session(r)
	if in.Role.Set && s.Role != models.RoleAdmin {
		forbidden(w)
		return
	}

	u, err := h.store.UpdateUser(r.Context(), s.UserID, store.UserChanges{
		Email: in.Email.Ptr(),
		Name:  in.Name.Ptr(),
		Role:  in.Role.Ptr(),
	})
	if err != nil {
		h.fail(w, r, err, "user")
		return
	}
	utils.OK(w, http.StatusOK, publicUser(u), "")
}
