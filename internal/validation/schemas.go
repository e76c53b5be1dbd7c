package validation

import "github.com/vaughan-dsouza/alramy/internal/models"

// User is the canonical read-side user shape.
type User struct {
	ID    Field[string]      `json:"id" schema:"required" validate:"uuid"`
	Email Field[string]      `json:"email" schema:"required" validate:"email"`
	Name  Field[string]      `json:"name" schema:"required,nullable" validate:"min=1,max=100"`
	Role  Field[models.Role] `json:"role" schema:"required" validate:"role"`
}

// UserOf loads a stored user into the canonical shape.
func UserOf(u models.User) User {
	return User{
		ID:    Some(u.ID),
		Email: Some(u.Email),
		Name:  nullable(u.Name),
		Role:  Some(u.Role),
	}
}

func nullable[T any](p *T) Field[T] {
	if p == nil {
		return Null[T]()
	}
	return Some(*p)
}

type CreateUser struct {
	Email    Field[string] `json:"email" schema:"required" validate:"email"`
	Password Field[string] `json:"password" schema:"required,secret" validate:"min=8,max=100"`
	Name     Field[string] `json:"name" validate:"min=1,max=100"`
}

type UpdateUser struct {
	Email Field[string]      `json:"email" validate:"email"`
	Name  Field[string]      `json:"name" validate:"min=1,max=100"`
	Role  Field[models.Role] `json:"role" validate:"role"`
}

// Login is not length-bounded so that old passwords keep working if the
// create rules change.
type Login struct {
	Email    Field[string] `json:"email" schema:"required" validate:"email"`
	Password Field[string] `json:"password" schema:"required,secret" validate:"min=1"`
}

// Post is the canonical read-side post shape.
type Post struct {
	ID        Field[string] `json:"id" schema:"required" validate:"uuid"`
	Title     Field[string] `json:"title" schema:"required" validate:"min=1,max=200"`
	Slug      Field[string] `json:"slug" schema:"required" validate:"min=1,max=200"`
	Content   Field[string] `json:"content" schema:"required"`
	Excerpt   Field[string] `json:"excerpt" schema:"required,nullable" validate:"max=500"`
	Published Field[bool]   `json:"published" schema:"required"`
	AuthorID  Field[string] `json:"authorId" schema:"required" validate:"uuid"`
}

// PostOf loads a stored post into the canonical shape.
func PostOf(p models.Post) Post {
	return Post{
		ID:        Some(p.ID),
		Title:     Some(p.Title),
		Slug:      Some(p.Slug),
		Content:   Some(p.Content),
		Excerpt:   nullable(p.Excerpt),
		Published: Some(p.Published),
		AuthorID:  Some(p.AuthorID),
	}
}

type CreatePost struct {
	Title     Field[string] `json:"title" schema:"required" validate:"min=1,max=200"`
	Content   Field[string] `json:"content" schema:"required" validate:"min=1"`
	Excerpt   Field[string] `json:"excerpt" validate:"max=500"`
	Published Field[bool]   `json:"published" schema:"default=false"`
}

// ToPost builds the canonical shape for an accepted CreatePost. An omitted
// excerpt is stored as null.
func (c CreatePost) ToPost(id, slug, authorID string) Post {
	excerpt := c.Excerpt
	if !excerpt.Set {
		excerpt = Null[string]()
	}
	return Post{
		ID:        Some(id),
		Title:     c.Title,
		Slug:      Some(slug),
		Content:   c.Content,
		Excerpt:   excerpt,
		Published: Some(c.Published.Or(false)),
		AuthorID:  Some(authorID),
	}
}

type UpdatePost struct {
	Title     Field[string] `json:"title" validate:"min=1,max=200"`
	Content   Field[string] `json:"content" validate:"min=1"`
	Excerpt   Field[string] `json:"excerpt" validate:"max=500"`
	Published Field[bool]   `json:"published"`
}

type Pagination struct {
	Page     Field[int] `json:"page" schema:"default=1" validate:"gt=0"`
	PageSize Field[int] `json:"pageSize" schema:"default=20" validate:"gt=0,lte=100"`
}

type Sort struct {
	SortBy    Field[string] `json:"sortBy" validate:"oneof=createdAt updatedAt title"`
	SortOrder Field[string] `json:"sortOrder" schema:"default=desc" validate:"oneof=asc desc"`
}

// PostQuery is the list/search request for posts.
type PostQuery struct {
	Pagination
	Sort
	Search Field[string] `json:"search" validate:"max=200"`
}

type CreateComment struct {
	Content Field[string] `json:"content" schema:"required" validate:"min=1,max=5000"`
}

type CreateCategory struct {
	Name        Field[string] `json:"name" schema:"required" validate:"min=1,max=100"`
	Description Field[string] `json:"description" schema:"nullable" validate:"max=500"`
}
