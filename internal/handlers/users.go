package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vaughan-dsouza/alramy/internal/models"
	"github.com/vaughan-dsouza/alramy/internal/store"
	"github.com/vaughan-dsouza/alramy/internal/utils"
	"github.com/vaughan-dsouza/alramy/internal/validation"
)

// UserHandler serves the admin user-management endpoints.
type UserHandler struct {
	base
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var q validation.Pagination
	if err := utils.DecodeQuery(w, r, &q); err != nil {
		return
	}

	users, total, err := h.store.ListUsers(r.Context(), pageOf(q.Page.Value, q.PageSize.Value))
	if err != nil {
		h.fail(w, r, err, "user")
		return
	}
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = publicUser(u)
	}
	utils.Page(w, out, total, q.Page.Value, q.PageSize.Value)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in validation.UpdateUser
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		return
	}

	u, err := h.store.UpdateUser(r.Context(), id, store.UserChanges{
		Email: in.Email.Ptr(),
		Name:  in.Name.Ptr(),
		Role:  in.Role.Ptr(),
	})
	if err != nil {
		h.fail(w, r, err, "user")
		return
	}

	if role, ok := in.Role.Get(); ok {
		actor, _ := session(r)
		h.logger.Info("role changed",
			zap.String("user_id", u.ID),
			zap.String("role", role.String()),
			zap.String("by", actor.UserID))
	}
	utils.OK(w, http.StatusOK, publicUser(u), "")
}
