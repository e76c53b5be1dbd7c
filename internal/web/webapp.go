package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vaughan-dsouza/alramy/internal/models"
	"github.com/vaughan-dsouza/alramy/internal/store"
	"github.com/vaughan-dsouza/alramy/internal/theme"
	"github.com/vaughan-dsouza/alramy/internal/validation"
)

const homePageSize = 10

// Webapp is the public blog.
type Webapp struct {
	*App
}

func NewWebapp(st *store.Store, logger *zap.Logger) (*Webapp, error) {
	app, err := newApp("/", "Al-Ramy Blog", "A modern blog platform", theme.Base(), st, logger)
	if err != nil {
		return nil, err
	}
	return &Webapp{App: app}, nil
}

func (a *Webapp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", a.Home)
	r.Get("/p/{slug}", a.Post)
	r.Get("/theme.css", a.ThemeCSS)
	r.NotFound(a.notFound)
	return r
}

type homeData struct {
	Posts      []models.Post
	Query      string
	Pagination models.Pagination
	PrevURL    string
	NextURL    string
}

// Home lists published posts, newest first, with optional ?q= search.
func (a *Webapp) Home(w http.ResponseWriter, r *http.Request) {
	q := validation.PostQuery{}
	values := url.Values{"page": {r.URL.Query().Get("page")}, "search": {r.URL.Query().Get("q")}}
	if err := validation.DecodeQuery(values, &q); err != nil {
		// Bad input falls back to the first page with no search.
		q = validation.PostQuery{}
		q.Page = validation.Some(1)
	}

	page := q.Page.Value
	posts, total, err := a.store.ListPosts(r.Context(), store.PostFilter{
		Page:          store.Page{Number: page, Size: homePageSize},
		Search:        q.Search.Value,
		PublishedOnly: true,
	})
	if err != nil {
		a.logger.Error("list posts", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := homeData{
		Posts:      posts,
		Query:      q.Search.Value,
		Pagination: models.NewPaginated(posts, total, page, homePageSize).Pagination,
	}
	if page > 1 {
		data.PrevURL = pageURL(page-1, data.Query)
	}
	if page < data.Pagination.TotalPages {
		data.NextURL = pageURL(page+1, data.Query)
	}
	a.render(w, http.StatusOK, "home", "", data)
}

func pageURL(page int, query string) string {
	v := url.Values{"page": {strconv.Itoa(page)}}
	if query != "" {
		v.Set("q", query)
	}
	return "/?" + v.Encode()
}

// Post renders one published post.
func (a *Webapp) Post(w http.ResponseWriter, r *http.Request) {
	post, err := a.store.PostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, store.ErrNotFound) || (err == nil && !post.Published) {
		a.notFound(w, r)
		return
	}
	if err != nil {
		a.logger.Error("load post", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	a.render(w, http.StatusOK, "post", post.Title, post)
}

func (a *Webapp) notFound(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusNotFound, "notfound", "Not found", nil)
}
