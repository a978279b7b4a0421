// internal/board/controller.go
package board

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Controller owns the local copy of one project's board together with the
// drag session and the synchronizer that persists drops.
//
// Drag handlers never block: drag-over and drag-end update the local board
// synchronously and the only I/O happens in the synchronizer goroutine.
type Controller struct {
	mu         sync.Mutex
	projectID  string
	board      Board
	users      map[string]User
	session    Session
	snapshot   Board
	generation uint64

	sync     *Synchronizer
	rollback bool
	logger   *log.Entry
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithRollbackOnFailure restores the board as it was at drag-start when
// persisting the drop fails, unless the board was re-hydrated meanwhile.
func WithRollbackOnFailure() ControllerOption {
	return func(c *Controller) {
		c.rollback = true
	}
}

// NewController creates a controller hydrated with the given board.
func NewController(projectID string, b Board, users map[string]User, s *Synchronizer, opts ...ControllerOption) *Controller {
	c := &Controller{
		projectID: projectID,
		board:     b.Clone(),
		users:     copyUsers(users),
		sync:      s,
		logger:    log.WithFields(log.Fields{"component": "board", "project_id": projectID}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hydrate replaces the local board with server state.
func (c *Controller) Hydrate(b Board, users map[string]User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.board = b.Clone()
	if users != nil {
		c.users = copyUsers(users)
	}
	c.generation++
}

// Board returns a copy of the local board.
func (c *Controller) Board() Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Clone()
}

// Users returns the assignee display map.
func (c *Controller) Users() map[string]User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyUsers(c.users)
}

// Session returns the current drag session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Pending reports whether a drop is still being persisted.
func (c *Controller) Pending() bool {
	return c.sync.Pending()
}

// DragStart begins a session for a task card. It returns false when the item
// is not a task card, the task is not on the board, or another task is
// already being dragged.
func (c *Controller) DragStart(item DragItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, ok := item.(TaskCard)
	if !ok {
		return false
	}
	if active, dragging := c.session.Active(); dragging {
		return active.ID == card.Task.ID
	}
	s, idx, found := c.board.Locate(card.Task.ID)
	if !found {
		return false
	}

	t := c.board[s][idx]
	c.session = Session{active: &t}
	c.snapshot = c.board.Clone()
	return true
}

// DragOver previews a cross-column move. It returns true when the board
// changed.
func (c *Controller) DragOver(target DragTarget) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	active, dragging := c.session.Active()
	if !dragging || target == nil {
		return false
	}
	dest, ok := targetColumn(c.board, target)
	if !ok {
		return false
	}
	src, _, found := c.board.Locate(active.ID)
	if !found || src == dest {
		return false
	}

	c.board = MoveToColumn(c.board, active, dest)
	c.session.active.Status = dest
	return true
}

// DragEnd finishes the session. The session always returns to idle. With no
// target, or while a previous drop is still being persisted, the board is
// left as the last drag-over made it and nothing is sent.
func (c *Controller) DragEnd(target DragTarget) DropResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	active, dragging := c.session.Active()
	if !dragging {
		return DropIgnored
	}
	c.session = Session{}

	if target == nil {
		return DropNoTarget
	}
	if !c.sync.tryAcquire() {
		c.logger.WithField("task_id", active.ID).Debug("reorder in flight, dropping drag-end")
		return DropPending
	}

	next, dest, batch, err := Reorder(c.board, active, target)
	if err != nil {
		c.sync.release()
		c.logger.WithError(err).WithField("task_id", active.ID).Debug("drop ignored")
		return DropInvalid
	}
	c.board = next

	c.logger.WithFields(log.Fields{
		"task_id": active.ID,
		"status":  dest,
		"tasks":   len(batch),
	}).Debug("column reindexed")

	var onFailure func()
	if c.rollback {
		gen, snapshot := c.generation, c.snapshot
		onFailure = func() { c.restore(gen, snapshot) }
	}
	c.snapshot = nil
	c.sync.dispatch(c.projectID, batch, onFailure)
	return DropReordered
}

// DragCancel abandons the session without persisting anything.
func (c *Controller) DragCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Session{}
	c.snapshot = nil
}

// Wait blocks until the in-flight drop, if any, has been persisted.
func (c *Controller) Wait() {
	c.sync.Wait()
}

// Close detaches the controller; pending notifications are dropped.
func (c *Controller) Close() {
	c.sync.Close()
}

func (c *Controller) restore(gen uint64, snapshot Board) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if snapshot == nil || gen != c.generation {
		return
	}
	c.board = snapshot
	c.logger.Info("reorder failed, board restored")
}

func copyUsers(users map[string]User) map[string]User {
	out := make(map[string]User, len(users))
	for id, u := range users {
		out[id] = u
	}
	return out
}
