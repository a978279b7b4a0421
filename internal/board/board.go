// internal/board/board.go
package board

import (
	"fmt"
	"sort"
	"time"
)

// Status is the column a task belongs to.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// ParseStatus converts a string into a Status
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown task status: %q", s)
	}
}

// Valid reports whether s is one of the board columns
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

func (s Status) String() string {
	return string(s)
}

// Task is a single card on the board.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Order       int        `json:"order"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// User is the minimal display info the board needs for assignees.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Board partitions a project's tasks into ordered status columns.
// Slice order is display order.
type Board map[Status][]Task

// NewBoard groups tasks by status and sorts every column by Order.
// Tasks with an unknown status are dropped.
func NewBoard(tasks []Task) Board {
	b := Empty()
	for _, t := range tasks {
		if !t.Status.Valid() {
			continue
		}
		b[t.Status] = append(b[t.Status], t)
	}
	for _, s := range Statuses {
		col := b[s]
		sort.SliceStable(col, func(i, j int) bool {
			if col[i].Order != col[j].Order {
				return col[i].Order < col[j].Order
			}
			return col[i].CreatedAt.Before(col[j].CreatedAt)
		})
	}
	return b
}

// Empty returns a board with all three columns present and empty.
func Empty() Board {
	b := make(Board, len(Statuses))
	for _, s := range Statuses {
		b[s] = []Task{}
	}
	return b
}

// Clone returns a deep copy of the column slices.
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for s, col := range b {
		cp := make([]Task, len(col))
		copy(cp, col)
		out[s] = cp
	}
	for _, s := range Statuses {
		if _, ok := out[s]; !ok {
			out[s] = []Task{}
		}
	}
	return out
}

// Column returns the tasks of one column.
func (b Board) Column(s Status) []Task {
	return b[s]
}

// Locate finds the column and index holding the task with the given id.
func (b Board) Locate(id string) (Status, int, bool) {
	for _, s := range Statuses {
		for i, t := range b[s] {
			if t.ID == id {
				return s, i, true
			}
		}
	}
	return "", -1, false
}

// Len returns the number of tasks across all columns.
func (b Board) Len() int {
	n := 0
	for _, col := range b {
		n += len(col)
	}
	return n
}

// IDs returns the task ids of one column in display order.
func (b Board) IDs(s Status) []string {
	ids := make([]string, len(b[s]))
	for i, t := range b[s] {
		ids[i] = t.ID
	}
	return ids
}

// Tasks flattens the board, column by column.
func (b Board) Tasks() []Task {
	out := make([]Task, 0, b.Len())
	for _, s := range Statuses {
		out = append(out, b[s]...)
	}
	return out
}
