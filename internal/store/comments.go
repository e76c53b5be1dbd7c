package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vaughan-dsouza/alramy/internal/models"
)

const commentColumns = `id, content, post_id, author_id, created_at, updated_at`

func (s *Store) CreateComment(ctx context.Context, postID, authorID, content string) (models.Comment, error) {
	now := s.timestamp()
	c := models.Comment{
		ID:        uuid.NewString(),
		Content:   content,
		PostID:    postID,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO comments (`+commentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`), c.ID, c.Content, c.PostID, c.AuthorID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return models.Comment{}, wrap("store: create comment", err)
	}
	return c, nil
}

func (s *Store) CommentByID(ctx context.Context, id string) (models.Comment, error) {
	var c models.Comment
	err := s.db.GetContext(ctx, &c, s.q(`SELECT `+commentColumns+` FROM comments WHERE id = ?`), id)
	return c, wrap("store: comment by id", err)
}

// ListComments returns a post's comments oldest first.
func (s *Store) ListComments(ctx context.Context, postID string, page Page) ([]models.Comment, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, s.q(`SELECT COUNT(*) FROM comments WHERE post_id = ?`), postID); err != nil {
		return nil, 0, wrap("store: count comments", err)
	}
	var comments []models.Comment
	err := s.db.SelectContext(ctx, &comments, s.q(`
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`), postID, page.limit(), page.offset())
	if err != nil {
		return nil, 0, wrap("store: list comments", err)
	}
	return comments, total, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM comments WHERE id = ?`), id)
	if err != nil {
		return wrap("store: delete comment", err)
	}
	return affected("store: delete comment", res)
}

func affected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
