// internal/board/reducer.go
package board

import "errors"

var (
	ErrTaskNotOnBoard = errors.New("task is not on the board")
	ErrInvalidTarget  = errors.New("invalid drop target")
)

// TaskOrder is one entry of a batch reorder request.
type TaskOrder struct {
	ID     string `json:"id"`
	Order  int    `json:"order"`
	Status Status `json:"status"`
}

// MoveToColumn removes the task from whichever column holds it and appends
// it to dest with its status updated. Orders are left untouched; they are
// only renumbered on drop. Moving into the column that already holds the
// task, or moving a task that is not on the board, returns the board
// unchanged.
func MoveToColumn(b Board, active Task, dest Status) Board {
	if !dest.Valid() {
		return b
	}
	src, idx, ok := b.Locate(active.ID)
	if !ok || src == dest {
		return b
	}

	next := b.Clone()
	moved := next[src][idx]
	next[src] = append(next[src][:idx:idx], next[src][idx+1:]...)
	moved.Status = dest
	next[dest] = append(next[dest], moved)
	return next
}

// Reorder computes the final board for a drop of active onto target.
// The destination column is the target column, or the column holding the
// target task. The active task is moved next to the task it was dropped on
// (or to the end when dropped on the column itself), then every task in the
// destination column gets Order set to its index and Status set to dest.
//
// The returned batch carries one entry per task in the destination column.
func Reorder(b Board, active Task, target DragTarget) (Board, Status, []TaskOrder, error) {
	if _, _, found := b.Locate(active.ID); !found {
		return b, "", nil, ErrTaskNotOnBoard
	}
	dest, ok := targetColumn(b, target)
	if !ok {
		return b, "", nil, ErrInvalidTarget
	}

	next := MoveToColumn(b, active, dest).Clone()
	col := next[dest]

	from := indexOf(col, active.ID)
	to := len(col) - 1
	if tt, isTask := target.(TaskTarget); isTask {
		to = indexOf(col, tt.ID)
	}
	col = arrayMove(col, from, to)

	batch := make([]TaskOrder, len(col))
	for i := range col {
		col[i].Order = i
		col[i].Status = dest
		batch[i] = TaskOrder{ID: col[i].ID, Order: i, Status: dest}
	}
	next[dest] = col
	return next, dest, batch, nil
}

func indexOf(col []Task, id string) int {
	for i, t := range col {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// arrayMove removes the element at from and reinserts it at to.
func arrayMove(col []Task, from, to int) []Task {
	if from == to || from < 0 || to < 0 || from >= len(col) || to >= len(col) {
		return col
	}
	out := make([]Task, 0, len(col))
	item := col[from]
	out = append(out, col[:from]...)
	out = append(out, col[from+1:]...)
	out = append(out[:to], append([]Task{item}, out[to:]...)...)
	return out
}
