package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vaughan-dsouza/alramy/internal/models"
)

const userColumns = `id, email, name, password_hash, role, created_at, updated_at`

type NewUser struct {
	Email        string
	Name         *string
	PasswordHash string
	Role         models.Role
}

// UserChanges lists the fields to update; nil means unchanged.
type UserChanges struct {
	Email *string
	Name  *string
	Role  *models.Role
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) CreateUser(ctx context.Context, in NewUser) (models.User, error) {
	now := s.timestamp()
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	u := models.User{
		ID:        uuid.NewString(),
		Email:     normalizeEmail(in.Email),
		Name:      in.Name,
		Password:  in.PasswordHash,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), u.ID, u.Email, u.Name, u.Password, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return models.User{}, wrap("store: create user", err)
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	return u, wrap("store: user by id", err)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT `+userColumns+` FROM users WHERE email = ?`), normalizeEmail(email))
	return u, wrap("store: user by email", err)
}

func (s *Store) ListUsers(ctx context.Context, page Page) ([]models.User, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, wrap("store: count users", err)
	}
	var users []models.User
	err := s.db.SelectContext(ctx, &users, s.q(`
		SELECT `+userColumns+` FROM users
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`), page.limit(), page.offset())
	if err != nil {
		return nil, 0, wrap("store: list users", err)
	}
	return users, total, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, ch UserChanges) (models.User, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.User{}, wrap("store: update user", err)
	}
	defer tx.Rollback()

	var u models.User
	if err := tx.GetContext(ctx, &u, tx.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id); err != nil {
		return models.User{}, wrap("store: update user", err)
	}

	if ch.Email != nil {
		u.Email = normalizeEmail(*ch.Email)
	}
	if ch.Name != nil {
		u.Name = ch.Name
	}
	if ch.Role != nil {
		u.Role = *ch.Role
	}
	u.UpdatedAt = s.timestamp()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE users
		SET email = ?, name = ?, role = ?, updated_at = ?
		WHERE id = ?
	`), u.Email, u.Name, u.Role, u.UpdatedAt, id)
	if err != nil {
		return models.User{}, wrap("store: update user", err)
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, wrap("store: update user", err)
	}
	return u, nil
}

// SetRole changes the role of the user with the given email.
func (s *Store) SetRole(ctx context.Context, email string, role models.Role) (models.User, error) {
	u, err := s.UserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	return s.UpdateUser(ctx, u.ID, UserChanges{Role: &role})
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, wrap("store: count users", err)
}
