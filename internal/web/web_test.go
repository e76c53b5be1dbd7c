package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaughan-dsouza/alramy/internal/auth"
	"github.com/vaughan-dsouza/alramy/internal/db"
	"github.com/vaughan-dsouza/alramy/internal/models"
	"github.com/vaughan-dsouza/alramy/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(context.Background(), database))
	return store.New(database)
}

func TestMarkdownSanitizes(t *testing.T) {
	out := string(Markdown("# Title\n\nSome *emphasis*.\n\n<script>alert(1)</script>\n\n[x](javascript:alert(1))"))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<em>emphasis</em>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestWebappPages(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u, err := st.CreateUser(ctx, store.NewUser{Email: "ann@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	_, err = st.CreatePost(ctx, store.NewPost{Title: "Hello Go", Content: "**bold** move", Published: true, AuthorID: u.ID})
	require.NoError(t, err)
	_, err = st.CreatePost(ctx, store.NewPost{Title: "Secret draft", Content: "wip", AuthorID: u.ID})
	require.NoError(t, err)

	app, err := NewWebapp(st, zap.NewNop())
	require.NoError(t, err)
	h := app.Routes()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Al-Ramy Blog</title>")
	assert.Contains(t, body, "Hello Go")
	assert.Contains(t, body, `href="/p/hello-go"`)
	assert.NotContains(t, body, "Secret draft")

	for _, target := range []string{"/?page=abc", "/?page=0", "/?page=1.5"} {
		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, w.Code, target)
		assert.Contains(t, w.Body.String(), "Hello Go", target)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?q=nothing-matches", nil))
	assert.Contains(t, w.Body.String(), "No posts yet.")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p/hello-go", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<strong>bold</strong>")
	assert.Contains(t, w.Body.String(), "<title>Hello Go | Al-Ramy Blog</title>")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p/secret-draft", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/theme.css", nil))
	assert.Equal(t, "text/css; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), ":root {")
}

func TestAdminDashboard(t *testing.T) {
	st := newTestStore(t)
	_, err := st.CreateUser(context.Background(), store.NewUser{Email: "ann@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	app, err := NewAdmin(st, zap.NewNop())
	require.NoError(t, err)
	h := app.Routes()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(auth.WithSession(r.Context(), auth.CreateSession("u1", "user@example.com", models.RoleUser)))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(auth.WithSession(r.Context(), auth.CreateSession("u2", "admin@example.com", models.RoleAdmin)))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Welcome to Al-Ramy Blog Admin Panel")
	assert.Contains(t, body, "<title>Al-Ramy Blog - Admin Dashboard</title>")
	assert.Contains(t, body, `<p data-stat="users">1</p>`)
	assert.Contains(t, body, `href="/admin/theme.css"`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/theme.css", nil))
	assert.Contains(t, w.Body.String(), "--sidebar:")
}
