// internal/repository/task_repository.go
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

type TaskRepository struct {
	base
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{base: base{db: db}}
}

// Types for repository input
type TaskInput struct {
	ProjectID   string
	Title       string
	Description string
	Status      string
	AssignedTo  *string
	DueDate     *time.Time
}

type TaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	// AssignedTo set to "" clears the assignee
	AssignedTo *string
	DueDate    *time.Time
}

// OrderInput is one row of a batch reorder
type OrderInput struct {
	ID     string
	Order  int
	Status string
}

// Create inserts a task at the end of its column
func (r *TaskRepository) Create(ctx context.Context, in *TaskInput) (*models.Task, error) {
	now := time.Now().UTC()
	t := &models.Task{
		ID:        uuid.New().String(),
		ProjectID: in.ProjectID,
		Title:     in.Title,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != "" {
		t.Description = sql.NullString{String: in.Description, Valid: true}
	}
	if in.AssignedTo != nil && *in.AssignedTo != "" {
		t.AssignedTo = sql.NullString{String: *in.AssignedTo, Valid: true}
	}
	if in.DueDate != nil {
		t.DueDate = sql.NullTime{Time: in.DueDate.UTC(), Valid: true}
	}

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		n, err := r.countColumn(ctx, tx, t.ProjectID, t.Status)
		if err != nil {
			return err
		}
		t.SortOrder = n

		query, args := r.sql().Insert(database.TasksTable).
			Columns(models.TaskColumns...).
			Values(t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.SortOrder,
				t.AssignedTo, t.DueDate, t.CreatedAt, t.UpdatedAt).
			Query()
		if _, err := exec(ctx, tx, query, args); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	return r.get(ctx, r.db, id)
}

func (r *TaskRepository) get(ctx context.Context, q queryer, id string) (*models.Task, error) {
	query, args := r.sql().Select(models.TaskColumns...).
		From(entsql.Table(database.TasksTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var t models.Task
	if err := sqlx.GetContext(ctx, q, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// ListByProject returns every task of a project, column by column in
// display order
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	query, args := r.sql().Select(models.TaskColumns...).
		From(entsql.Table(database.TasksTable)).
		Where(entsql.EQ("project_id", projectID)).
		OrderBy("status", "sort_order", "created_at").
		Query()

	var tasks []*models.Task
	if err := sqlx.SelectContext(ctx, r.db, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a partial update. A status change moves the task to the
// end of its new column and compacts the old one.
func (r *TaskRepository) Update(ctx context.Context, id string, in *TaskUpdateInput) (*models.Task, error) {
	var updated *models.Task
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		current, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}

		update := r.sql().Update(database.TasksTable).
			Set("updated_at", time.Now().UTC())
		if in.Title != nil {
			update = update.Set("title", *in.Title)
		}
		if in.Description != nil {
			update = update.Set("description", *in.Description)
		}
		if in.AssignedTo != nil {
			if *in.AssignedTo == "" {
				update = update.SetNull("assigned_to")
			} else {
				update = update.Set("assigned_to", *in.AssignedTo)
			}
		}
		if in.DueDate != nil {
			update = update.Set("due_date", in.DueDate.UTC())
		}

		moved := in.Status != nil && *in.Status != current.Status
		if moved {
			n, err := r.countColumn(ctx, tx, current.ProjectID, *in.Status)
			if err != nil {
				return err
			}
			update = update.Set("status", *in.Status).Set("sort_order", n)
		}

		query, args := update.Where(entsql.EQ("id", id)).Query()
		if _, err := exec(ctx, tx, query, args); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if moved {
			if err := r.compact(ctx, tx, current.ProjectID, current.Status); err != nil {
				return err
			}
		}

		updated, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a task and compacts its column
func (r *TaskRepository) Delete(ctx context.Context, id string) (*models.Task, error) {
	var deleted *models.Task
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		current, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		query, args := r.sql().Delete(database.TasksTable).
			Where(entsql.EQ("id", id)).
			Query()
		if _, err := exec(ctx, tx, query, args); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		deleted = current
		return r.compact(ctx, tx, current.ProjectID, current.Status)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// Reorder writes order and status for every entry in one transaction.
// Entries must belong to projectID; an unknown id fails the whole batch.
// There is no version check: the last writer wins.
func (r *TaskRepository) Reorder(ctx context.Context, projectID string, entries []OrderInput) error {
	now := time.Now().UTC()
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, e := range entries {
			query, args := r.sql().Update(database.TasksTable).
				Set("sort_order", e.Order).
				Set("status", e.Status).
				Set("updated_at", now).
				Where(entsql.And(
					entsql.EQ("id", e.ID),
					entsql.EQ("project_id", projectID),
				)).
				Query()
			n, err := exec(ctx, tx, query, args)
			if err != nil {
				return fmt.Errorf("update task %s: %w", e.ID, err)
			}
			if n == 0 {
				return fmt.Errorf("task %s: %w", e.ID, ErrNotFound)
			}
		}
		return nil
	})
}

func (r *TaskRepository) countColumn(ctx context.Context, q queryer, projectID, status string) (int, error) {
	query, args := r.sql().Select(entsql.Count("*")).
		From(entsql.Table(database.TasksTable)).
		Where(entsql.And(
			entsql.EQ("project_id", projectID),
			entsql.EQ("status", status),
		)).
		Query()

	var n int
	if err := sqlx.GetContext(ctx, q, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// compact renumbers a column to 0..n-1 keeping its current order
func (r *TaskRepository) compact(ctx context.Context, q queryer, projectID, status string) error {
	query, args := r.sql().Select("id").
		From(entsql.Table(database.TasksTable)).
		Where(entsql.And(
			entsql.EQ("project_id", projectID),
			entsql.EQ("status", status),
		)).
		OrderBy("sort_order", "created_at").
		Query()

	var ids []string
	if err := sqlx.SelectContext(ctx, q, &ids, query, args...); err != nil {
		return fmt.Errorf("query column: %w", err)
	}
	for i, id := range ids {
		query, args := r.sql().Update(database.TasksTable).
			Set("sort_order", i).
			Where(entsql.EQ("id", id)).
			Query()
		if _, err := exec(ctx, q, query, args); err != nil {
			return fmt.Errorf("compact column: %w", err)
		}
	}
	return nil
}
