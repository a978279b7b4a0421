// internal/client/move.go
package client

import (
	"fmt"

	"github.com/gurkanbulca/taskboard/internal/board"
)

// Move replays a pointer drag of one card on ctl: pick it up, hover the
// destination, drop it. With over set the card is dropped onto that task
// and takes its place; otherwise it lands at the end of column to.
func Move(ctl *board.Controller, taskID string, to board.Status, over string) (board.DropResult, error) {
	b := ctl.Board()
	s, idx, ok := b.Locate(taskID)
	if !ok {
		return board.DropIgnored, fmt.Errorf("task %s is not on the board", taskID)
	}

	var target board.DragTarget = board.ColumnTarget{Status: to}
	if over != "" {
		if _, _, ok := b.Locate(over); !ok {
			return board.DropIgnored, fmt.Errorf("task %s is not on the board", over)
		}
		target = board.TaskTarget{ID: over}
	} else if !to.Valid() {
		return board.DropIgnored, fmt.Errorf("unknown column %q", to)
	}

	if !ctl.DragStart(board.TaskCard{Task: b[s][idx]}) {
		return board.DropIgnored, fmt.Errorf("task %s cannot be dragged", taskID)
	}
	ctl.DragOver(target)
	return ctl.DragEnd(target), nil
}
