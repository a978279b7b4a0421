// internal/repository/project_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/taskboard/internal/database"
	"github.com/gurkanbulca/taskboard/internal/models"
)

type ProjectRepository struct {
	base
}

func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{base: base{db: db}}
}

func (r *ProjectRepository) Create(ctx context.Context, name, ownerID string) (*models.Project, error) {
	now := time.Now().UTC()
	p := &models.Project{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query, args := r.sql().Insert(database.ProjectsTable).
		Columns(models.ProjectColumns...).
		Values(p.ID, p.Name, p.OwnerID, p.CreatedAt, p.UpdatedAt).
		Query()
	if _, err := exec(ctx, r.db, query, args); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query, args := r.sql().Select(models.ProjectColumns...).
		From(entsql.Table(database.ProjectsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var p models.Project
	if err := sqlx.GetContext(ctx, r.db, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}
