package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vaughan-dsouza/alramy/internal/models"
)

const postColumns = `id, title, slug, content, excerpt, published, author_id, created_at, updated_at`

type NewPost struct {
	Title     string
	Content   string
	Excerpt   *string
	Published bool
	AuthorID  string
}

// PostChanges lists the fields to update; nil means unchanged.
type PostChanges struct {
	Title     *string
	Content   *string
	Excerpt   *string
	Published *bool
}

// PostFilter narrows a post listing. Zero values mean no restriction.
type PostFilter struct {
	Page          Page
	Search        string
	SortBy        string
	SortOrder     string
	PublishedOnly bool
	AuthorID      string
}

// sortColumns whitelists API sort keys.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

func (f PostFilter) orderBy() string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir + ", id " + dir
}

// likeEscaper makes search terms match literally inside LIKE patterns.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f PostFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.PublishedOnly {
		conds = append(conds, "published = ?")
		args = append(args, true)
	}
	if f.AuthorID != "" {
		conds = append(conds, "author_id = ?")
		args = append(args, f.AuthorID)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		conds = append(conds, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`)
		args = append(args, like, like)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// slugAttempts bounds how often CreatePost re-picks a slug after losing an
// insert race to a concurrent post with the same title.
const slugAttempts = 5

func (s *Store) CreatePost(ctx context.Context, in NewPost) (models.Post, error) {
	id := uuid.NewString()
	taken := s.slugTaken
	if taken == nil {
		taken = s.postSlugTaken
	}

	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		var slug string
		slug, err = uniqueSlug(ctx, Slugify(in.Title), id, taken)
		if err != nil {
			return models.Post{}, wrap("store: create post", err)
		}

		now := s.timestamp()
		p := models.Post{
			ID:        id,
			Title:     in.Title,
			Slug:      slug,
			Content:   in.Content,
			Excerpt:   in.Excerpt,
			Published: in.Published,
			AuthorID:  in.AuthorID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = s.db.ExecContext(ctx, s.q(`
			INSERT INTO posts (`+postColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`), p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.Published, p.AuthorID, p.CreatedAt, p.UpdatedAt)
		if err == nil {
			return p, nil
		}
		if !isUniqueViolation(err) {
			break
		}
	}
	return models.Post{}, wrap("store: create post", err)
}

func (s *Store) postSlugTaken(ctx context.Context, slug string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM posts WHERE slug = ?`), slug)
	return n > 0, err
}

func (s *Store) PostByID(ctx context.Context, id string) (models.Post, error) {
	var p models.Post
	err := s.db.GetContext(ctx, &p, s.q(`SELECT `+postColumns+` FROM posts WHERE id = ?`), id)
	return p, wrap("store: post by id", err)
}

func (s *Store) PostBySlug(ctx context.Context, slug string) (models.Post, error) {
	var p models.Post
	err := s.db.GetContext(ctx, &p, s.q(`SELECT `+postColumns+` FROM posts WHERE slug = ?`), slug)
	return p, wrap("store: post by slug", err)
}

// ListPosts returns one page of matching posts and the total match count.
func (s *Store) ListPosts(ctx context.Context, f PostFilter) ([]models.Post, int, error) {
	where, args := f.where()

	var total int
	if err := s.db.GetContext(ctx, &total, s.q(`SELECT COUNT(*) FROM posts`+where), args...); err != nil {
		return nil, 0, wrap("store: count posts", err)
	}

	var posts []models.Post
	query := `SELECT ` + postColumns + ` FROM posts` + where + ` ORDER BY ` + f.orderBy() + ` LIMIT ? OFFSET ?`
	if err := s.db.SelectContext(ctx, &posts, s.q(query), append(args, f.Page.limit(), f.Page.offset())...); err != nil {
		return nil, 0, wrap("store: list posts", err)
	}
	return posts, total, nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, ch PostChanges) (models.Post, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Post{}, wrap("store: update post", err)
	}
	defer tx.Rollback()

	var p models.Post
	if err := tx.GetContext(ctx, &p, tx.Rebind(`SELECT `+postColumns+` FROM posts WHERE id = ?`), id); err != nil {
		return models.Post{}, wrap("store: update post", err)
	}

	if ch.Title != nil {
		p.Title = *ch.Title
	}
	if ch.Content != nil {
		p.Content = *ch.Content
	}
	if ch.Excerpt != nil {
		p.Excerpt = ch.Excerpt
	}
	if ch.Published != nil {
		p.Published = *ch.Published
	}
	p.UpdatedAt = s.timestamp()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE posts
		SET title = ?, content = ?, excerpt = ?, published = ?, updated_at = ?
		WHERE id = ?
	`), p.Title, p.Content, p.Excerpt, p.Published, p.UpdatedAt, id)
	if err != nil {
		return models.Post{}, wrap("store: update post", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Post{}, wrap("store: update post", err)
	}
	return p, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return wrap("store: delete post", err)
	}
	return affected("store: delete post", res)
}

func (s *Store) CountPosts(ctx context.Context, publishedOnly bool) (int, error) {
	where, args := PostFilter{PublishedOnly: publishedOnly}.where()
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM posts`+where), args...)
	return n, wrap("store: count posts", err)
}
