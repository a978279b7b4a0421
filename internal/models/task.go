package models

import (
	"database/sql"
	"time"

	"github.com/gurkanbulca/taskboard/internal/board"
)

// Task status constants
const (
	TaskStatusTodo       = string(board.StatusTodo)
	TaskStatusInProgress = string(board.StatusInProgress)
	TaskStatusDone       = string(board.StatusDone)
)

type Task struct {
	ID          string         `db:"id"`
	ProjectID   string         `db:"project_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	SortOrder   int            `db:"sort_order"`
	AssignedTo  sql.NullString `db:"assigned_to"`
	DueDate     sql.NullTime   `db:"due_date"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// TaskColumns lists the columns scanned into Task
var TaskColumns = []string{
	"id", "project_id", "title", "description", "status", "sort_order",
	"assigned_to", "due_date", "created_at", "updated_at",
}

// ToBoard converts the row into a board card
func (t *Task) ToBoard() board.Task {
	out := board.Task{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description.String,
		Status:      board.Status(t.Status),
		Order:       t.SortOrder,
		AssignedTo:  t.AssignedTo.String,
		CreatedAt:   t.CreatedAt,
	}
	if t.DueDate.Valid {
		due := t.DueDate.Time
		out.DueDate = &due
	}
	return out
}
