package store

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/alramy/internal/db"
	"github.com/vaughan-dsouza/alramy/internal/models"
)

// tickingClock advances one second per call so ordering by timestamps is stable.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(context.Background(), database))
	return New(database).WithClock(tickingClock())
}

func mustUser(t *testing.T, s *Store, email string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), NewUser{Email: email, PasswordHash: "hash"})
	require.NoError(t, err)
	return u
}

func strptr(s string) *string { return &s }

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, NewUser{Email: " Ann@Example.com ", Name: strptr("Ann"), PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)

	_, err = s.CreateUser(ctx, NewUser{Email: "ann@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := s.UserByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.Password)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Ann", *got.Name)

	_, err = s.UserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	role := models.RoleModerator
	updated, err := s.UpdateUser(ctx, u.ID, UserChanges{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)
	assert.Equal(t, "Ann", *updated.Name)
	assert.True(t, updated.UpdatedAt.After(u.UpdatedAt))

	promoted, err := s.SetRole(ctx, "ann@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	mustUser(t, s, "bob@example.com")
	users, total, err := s.ListUsers(ctx, Page{Number: 1, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 1)
	assert.Equal(t, u.ID, users[0].ID)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPostsCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "author@example.com")

	p, err := s.CreatePost(ctx, NewPost{Title: "Hello, World!", Content: "body", AuthorID: author.ID})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", p.Slug)
	assert.False(t, p.Published)
	assert.Nil(t, p.Excerpt)

	dup, err := s.CreatePost(ctx, NewPost{Title: "Hello world", Content: "again", AuthorID: author.ID})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", dup.Slug)

	got, err := s.PostBySlug(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	published := true
	updated, err := s.UpdatePost(ctx, p.ID, PostChanges{Published: &published, Excerpt: strptr("short")})
	require.NoError(t, err)
	assert.True(t, updated.Published)
	assert.Equal(t, "Hello, World!", updated.Title)
	assert.Equal(t, "hello-world", updated.Slug)

	reread, err := s.PostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, reread.Published)
	require.NotNil(t, reread.Excerpt)
	assert.Equal(t, "short", *reread.Excerpt)

	_, err = s.UpdatePost(ctx, "missing", PostChanges{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeletePost(ctx, p.ID))
	assert.ErrorIs(t, s.DeletePost(ctx, p.ID), ErrNotFound)
	_, err = s.PostByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPosts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann@example.com")
	bob := mustUser(t, s, "bob@example.com")

	titles := []string{"Go concurrency", "Baking bread", "Go generics", "Draft notes"}
	for i, title := range titles {
		author := ann
		if i%2 == 1 {
			author = bob
		}
		_, err := s.CreatePost(ctx, NewPost{
			Title:     title,
			Content:   "content of " + title,
			AuthorID:  author.ID,
			Published: title != "Draft notes",
		})
		require.NoError(t, err)
	}

	posts, total, err := s.ListPosts(ctx, PostFilter{Page: Page{Number: 1, Size: 10}, PublishedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, posts, 3)
	assert.Equal(t, "Go generics", posts[0].Title, "newest first by default")

	posts, total, err = s.ListPosts(ctx, PostFilter{Page: Page{Number: 1, Size: 10}, Search: "GO", PublishedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, p := range posts {
		assert.True(t, strings.HasPrefix(p.Title, "Go"))
	}

	posts, _, err = s.ListPosts(ctx, PostFilter{Page: Page{Number: 1, Size: 10}, SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, posts, 4)
	assert.Equal(t, "Baking bread", posts[0].Title)

	posts, total, err = s.ListPosts(ctx, PostFilter{Page: Page{Number: 2, Size: 1}, AuthorID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "Baking bread", posts[0].Title)

	posts, _, err = s.ListPosts(ctx, PostFilter{Page: Page{Number: 1, Size: 10}, SortBy: "title; DROP TABLE posts"})
	require.NoError(t, err)
	assert.Len(t, posts, 4)

	n, err := s.CountPosts(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ann@example.com")
	p, err := s.CreatePost(ctx, NewPost{Title: "Post", Content: "c", AuthorID: u.ID})
	require.NoError(t, err)

	first, err := s.CreateComment(ctx, p.ID, u.ID, "first")
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, p.ID, u.ID, "second")
	require.NoError(t, err)

	comments, total, err := s.ListComments(ctx, p.ID, Page{Number: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)

	got, err := s.CommentByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.PostID)

	require.NoError(t, s.DeleteComment(ctx, first.ID))
	assert.ErrorIs(t, s.DeleteComment(ctx, first.ID), ErrNotFound)

	_, err = s.CreateComment(ctx, "missing-post", u.ID, "orphan")
	assert.Error(t, err, "foreign keys are enforced")
}

func TestCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, "Go Tips", strptr("Notes about Go"))
	require.NoError(t, err)
	assert.Equal(t, "go-tips", c.Slug)

	_, err = s.CreateCategory(ctx, "go tips", nil)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.CreateCategory(ctx, "Architecture", nil)
	require.NoError(t, err)

	all, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Architecture", all[0].Name)
	assert.Nil(t, all[0].Description)

	got, err := s.CategoryBySlug(ctx, "go-tips")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestHugePageIsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ann@example.com")
	_, err := s.CreatePost(ctx, NewPost{Title: "Only", Content: "c", Published: true, AuthorID: u.ID})
	require.NoError(t, err)

	page := Page{Number: 500000000000000001, Size: 20}
	assert.Equal(t, math.MaxInt, page.offset())

	posts, total, err := s.ListPosts(ctx, PostFilter{Page: page, PublishedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, 1, total)

	users, total, err := s.ListUsers(ctx, Page{Number: math.MaxInt, Size: 100})
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 1, total)
}

func TestSearchMatchesWildcardsLiterally(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ann@example.com")
	for _, title := range []string{"Plain title", "100% coverage", "snake_case names"} {
		_, err := s.CreatePost(ctx, NewPost{Title: title, Content: "c", Published: true, AuthorID: u.ID})
		require.NoError(t, err)
	}

	cases := map[string]string{
		"%":  "100% coverage",
		"_":  "snake_case names",
		"0%": "100% coverage",
	}
	for term, want := range cases {
		posts, total, err := s.ListPosts(ctx, PostFilter{Page: Page{Number: 1, Size: 20}, Search: term})
		require.NoError(t, err, term)
		require.Equal(t, 1, total, term)
		assert.Equal(t, want, posts[0].Title, term)
	}

	_, total, err := s.ListPosts(ctx, PostFilter{Page: Page{Number: 1, Size: 20}, Search: `\`})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestCreatePostRetriesSlugRace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ann@example.com")
	first, err := s.CreatePost(ctx, NewPost{Title: "Same title", Content: "c", AuthorID: u.ID})
	require.NoError(t, err)

	// The first lookup misses the existing row, as if it was inserted
	// concurrently after the check.
	calls := 0
	s.slugTaken = func(ctx context.Context, slug string) (bool, error) {
		calls++
		if calls == 1 {
			return false, nil
		}
		return s.postSlugTaken(ctx, slug)
	}

	second, err := s.CreatePost(ctx, NewPost{Title: "Same title", Content: "c", AuthorID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, "same-title", first.Slug)
	assert.Equal(t, "same-title-2", second.Slug)

	s.slugTaken = func(context.Context, string) (bool, error) { return false, nil }
	_, err = s.CreatePost(ctx, NewPost{Title: "Same title", Content: "c", AuthorID: u.ID})
	assert.ErrorIs(t, err, ErrConflict)
}
