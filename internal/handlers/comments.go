package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaughan-dsouza/alramy/internal/models"
	"github.com/vaughan-dsouza/alramy/internal/utils"
	"github.com/vaughan-dsouza/alramy/internal/validation"
)

type CommentHandler struct {
	base
}

// commentable loads the post and hides drafts the caller cannot see.
func (h *CommentHandler) commentable(w http.ResponseWriter, r *http.Request) (models.Post, bool) {
	post, err := h.store.PostByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "post")
		return models.Post{}, false
	}
	if !post.Published && !canEdit(r, post.AuthorID) {
		utils.JSONError(w, http.StatusNotFound, utils.CodeNotFound, "post not found")
		return models.Post{}, false
	}
	return post, true
}

func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	var q validation.Pagination
	if err := utils.DecodeQuery(w, r, &q); err != nil {
		return
	}
	post, ok := h.commentable(w, r)
	if !ok {
		return
	}

	comments, total, err := h.store.ListComments(r.Context(), post.ID, pageOf(q.Page.Value, q.PageSize.Value))
	if err != nil {
		h.fail(w, r, err, "comment")
		return
	}
	utils.Page(w, comments, total, q.Page.Value, q.PageSize.Value)
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in validation.CreateComment
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		return
	}
	post, ok := h.commentable(w, r)
	if !ok {
		return
	}

	s, _ := session(r)
	c, err := h.store.CreateComment(r.Context(), post.ID, s.UserID, in.Content.Value)
	if err != nil {
		h.fail(w, r, err, "comment")
		return
	}
	utils.OK(w, http.StatusCreated, c, "")
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.store.CommentByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "comment")
		return
	}
	if !canEdit(r, c.AuthorID) {
		forbidden(w)
		return
	}

	if err := h.store.DeleteComment(r.Context(), id); err != nil {
		h.fail(w, r, err, "comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
