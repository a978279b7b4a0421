// api/board/v1/board.go
//
// Package boardv1 holds the messages of the board.v1 API. Messages travel as
// JSON over gRPC (content-subtype "json") and over the HTTP gateway.
package boardv1

import "time"

// Task statuses on the wire
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Board event types
const (
	EventTaskCreated    = "task_created"
	EventTaskUpdated    = "task_updated"
	EventTaskDeleted    = "task_deleted"
	EventTasksReordered = "tasks_reordered"
)

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Order       int        `json:"order"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// User is the minimal display info of an assignee.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// TaskOrder is one entry of a batch reorder.
type TaskOrder struct {
	ID     string `json:"id"`
	Order  int    `json:"order"`
	Status string `json:"status"`
}

type CreateProjectRequest struct {
	Name string `json:"name"`
}

type CreateProjectResponse struct {
	Project *Project `json:"project"`
}

type GetBoardRequest struct {
	ProjectID string `json:"project_id"`
}

type GetBoardResponse struct {
	Project *Project          `json:"project"`
	Columns map[string][]Task `json:"columns"`
	Users   map[string]User   `json:"users"`
}

type CreateTaskRequest struct {
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type CreateTaskResponse struct {
	Task *Task `json:"task"`
}

// UpdateTaskRequest is a partial update; nil fields are left unchanged and
// an empty AssignedTo clears the assignee.
type UpdateTaskRequest struct {
	ID          string     `json:"id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type UpdateTaskResponse struct {
	Task *Task `json:"task"`
}

type DeleteTaskRequest struct {
	ID string `json:"id"`
}

type ReorderTasksRequest struct {
	ProjectID string      `json:"project_id"`
	Tasks     []TaskOrder `json:"tasks"`
}

type ReorderTasksResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type WatchBoardRequest struct {
	ProjectID string `json:"project_id"`
}

// BoardEvent tells watchers that a project's board changed.
type BoardEvent struct {
	Type      string    `json:"type"`
	ProjectID string    `json:"project_id"`
	TaskIDs   []string  `json:"task_ids,omitempty"`
	At        time.Time `json:"at"`
}
