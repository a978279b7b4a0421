// internal/repository/user_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/taskboard/internal/database"
	"github.com/gurkanbulca/taskboard/internal/models"
)

type UserRepository struct {
	base
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{base: base{db: db}}
}

func (r *UserRepository) Create(ctx context.Context, email, displayName, avatarURL string) (*models.User, error) {
	return r.insert(ctx, uuid.New().String(), email, displayName, avatarURL)
}

// Ensure returns the user with the given id, creating it from the token
// identity on first sight
func (r *UserRepository) Ensure(ctx context.Context, id, email, displayName string) (*models.User, error) {
	u, err := r.GetByID(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if displayName == "" {
		displayName = email
	}
	return r.insert(ctx, id, email, displayName, "")
}

func (r *UserRepository) insert(ctx context.Context, id, email, displayName, avatarURL string) (*models.User, error) {
	u := &models.User{
		ID:          id,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	if avatarURL != "" {
		u.AvatarURL = sql.NullString{String: avatarURL, Valid: true}
	}

	query, args := r.sql().Insert(database.UsersTable).
		Columns(models.UserColumns...).
		Values(u.ID, u.Email, u.DisplayName, u.AvatarURL, u.CreatedAt).
		Query()
	if _, err := exec(ctx, r.db, query, args); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	query, args := r.sql().Select(models.UserColumns...).
		From(entsql.Table(database.UsersTable)).
		Where(entsql.EQ(column, value)).
		Query()

	var u models.User
	if err := sqlx.GetContext(ctx, r.db, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", value, ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ListByIDs returns the users with the given ids. Unknown ids are skipped.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	query, args := r.sql().Select(models.UserColumns...).
		From(entsql.Table(database.UsersTable)).
		Where(entsql.In("id", values...)).
		Query()

	var users []*models.User
	if err := sqlx.SelectContext(ctx, r.db, &users, query, args...); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return users, nil
}
