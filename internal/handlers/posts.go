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

type PostHandler struct {
	base
}

// ---------------------- CREATE ----------------------

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in validation.CreatePost
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		return
	}

	s, _ := session(r)
	post, err := h.store.CreatePost(r.Context(), store.NewPost{
		Title:     in.Title.Value,
		Content:   in.Content.Value,
		Excerpt:   in.Excerpt.Ptr(),
		Published: in.Published.Value,
		AuthorID:  s.UserID,
	})
	if err != nil {
		h.fail(w, r, err, "post")
		return
	}

	canonical := in.ToPost(post.ID, post.Slug, post.AuthorID)
	if !h.conform(w, r, &canonical) {
		return
	}

	h.logger.Info("post created", zap.String("post_id", post.ID), zap.String("author_id", s.UserID))
	utils.OK(w, http.StatusCreated, post, "")
}

// ---------------------- GET ONE ----------------------

func (h *PostHandler) GetPostByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.PostByID(r.Context(), chi.URLParam(r, "id"))
	h.writeVisible(w, r, post, err)
}

func (h *PostHandler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.PostBySlug(r.Context(), chi.URLParam(r, "slug"))
	h.writeVisible(w, r, post, err)
}

// writeVisible hides drafts from everyone but their author and moderators.
func (h *PostHandler) writeVisible(w http.ResponseWriter, r *http.Request, post models.Post, err error) {
	if err != nil {
		h.fail(w, r, err, "post")
		return
	}
	if !post.Published && !canEdit(r, post.AuthorID) {
		utils.JSONError(w, http.StatusNotFound, utils.CodeNotFound, "post not found")
		return
	}
	utils.OK(w, http.StatusOK, post, "")
}

// ---------------------- LIST ----------------------

// GetPosts lists published posts.
func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(f *store.PostFilter) { f.PublishedOnly = true })
}

// MyPosts lists the caller's posts, drafts included.
func (h *PostHandler) MyPosts(w http.ResponseWriter, r *http.Request) {
	s, _ := session(r)
	h.list(w, r, func(f *store.PostFilter) { f.AuthorID = s.UserID })
}

func (h *PostHandler) list(w http.ResponseWriter, r *http.Request, scope func(*store.PostFilter)) {
	var q validation.PostQuery
	if err := utils.DecodeQuery(w, r, &q); err != nil {
		return
	}

	f := store.PostFilter{
		Page:      pageOf(q.Page.Value, q.PageSize.Value),
		Search:    q.Search.Value,
		SortBy:    q.SortBy.Value,
		SortOrder: q.SortOrder.Value,
	}
	scope(&f)

	posts, total, err := h.store.ListPosts(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "post")
		return
	}
	utils.Page(w, posts, total, q.Page.Value, q.PageSize.Value)
}

// ---------------------- UPDATE ----------------------

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in validation.UpdatePost
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		return
	}

	post, err := h.store.PostByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "post")
		return
	}
	if !canEdit(r, post.AuthorID) {
		forbidden(w)
		return
	}

	post, err = h.store.UpdatePost(r.Context(), id, store.PostChanges{
		Title:     in.Title.Ptr(),
		Content:   in.Content.Ptr(),
		Excerpt:   in.Excerpt.Ptr(),
		Published: in.Published.Ptr(),
	})
	if err != nil {
		h.fail(w, r, err, "post")
		return
	}
	canonical := validation.PostOf(post)
	if !h.conform(w, r, &canonical) {
		return
	}

	utils.OK(w, http.StatusOK, post, "")
}

// ---------------------- DELETE ----------------------

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.store.PostByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "post")
		return
	}
	if !canEdit(r, post.AuthorID) {
		forbidden(w)
		return
	}

	if err := h.store.DeletePost(r.Context(), id); err != nil {
		h.fail(w, r, err, "post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
