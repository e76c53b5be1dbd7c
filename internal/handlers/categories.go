package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaughan-dsouza/alramy/internal/utils"
	"github.com/vaughan-dsouza/alramy/internal/validation"
)

type CategoryHandler struct {
	base
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err, "category")
		return
	}
	utils.OK(w, http.StatusOK, categories, "")
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.CategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err, "category")
		return
	}
	utils.OK(w, http.StatusOK, c, "")
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in validation.CreateCategory
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		return
	}

	c, err := h.store.CreateCategory(r.Context(), in.Name.Value, in.Description.Ptr())
	if err != nil {
		h.fail(w, r, err, "category")
		return
	}
	utils.OK(w, http.StatusCreated, c, "")
}
