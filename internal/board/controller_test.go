package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reorderCall struct {
	projectID string
	tasks     []TaskOrder
}

type fakeReorderer struct {
	mu     sync.Mutex
	calls  []reorderCall
	result Result
	err    error
	block  chan struct{}
}

func (f *fakeReorderer) ReorderTasks(ctx context.Context, projectID string, tasks []TaskOrder) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, reorderCall{projectID: projectID, tasks: tasks})
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.result, f.err
}

func (f *fakeReorderer) Calls() []reorderCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]reorderCall(nil), f.calls...)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) Snapshot() ([]string, []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...), append([]string(nil), n.errors...)
}

func newTestController(t *testing.T, b Board, store *fakeReorderer, opts ...ControllerOption) (*Controller, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	c := NewController("p1", b, nil, NewSynchronizer(store, n), opts...)
	t.Cleanup(c.Close)
	return c, n
}

func TestController_DragAcrossColumns(t *testing.T) {
	store := &fakeReorderer{result: Result{Success: true, Message: "ok"}}
	b := NewBoard([]Task{task("A", StatusTodo, 0), task("B", StatusTodo, 1)})
	c, n := newTestController(t, b, store)

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][0]}))
	assert.Equal(t, PhaseDragging, c.Session().Phase())

	assert.True(t, c.DragOver(ColumnTarget{Status: StatusInProgress}))
	// same column hover is a no-op
	assert.False(t, c.DragOver(ColumnTarget{Status: StatusInProgress}))
	preview := c.Board()
	assert.Equal(t, []string{"A"}, preview.IDs(StatusInProgress))

	assert.Equal(t, DropReordered, c.DragEnd(ColumnTarget{Status: StatusInProgress}))
	assert.Equal(t, PhaseIdle, c.Session().Phase())
	c.Wait()

	got := c.Board()
	assert.Equal(t, []string{"B"}, got.IDs(StatusTodo))
	require.Len(t, got[StatusInProgress], 1)
	assert.Equal(t, Task{ID: "A", ProjectID: "p1", Title: "Task A", Status: StatusInProgress, Order: 0}, got[StatusInProgress][0])
	assert.Empty(t, got[StatusDone])

	calls := store.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "p1", calls[0].projectID)
	assert.Equal(t, []TaskOrder{{ID: "A", Order: 0, Status: StatusInProgress}}, calls[0].tasks)

	successes, errs := n.Snapshot()
	assert.Equal(t, []string{"ok"}, successes)
	assert.Empty(t, errs)
	assert.False(t, c.Pending())
}

func TestController_ReorderWithinColumn(t *testing.T) {
	store := &fakeReorderer{result: Result{Success: true}}
	b := NewBoard([]Task{task("A", StatusTodo, 0), task("B", StatusTodo, 1), task("C", StatusTodo, 2)})
	c, n := newTestController(t, b, store)

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][2]}))
	assert.False(t, c.DragOver(TaskTarget{ID: "B"}))
	assert.Equal(t, DropReordered, c.DragEnd(TaskTarget{ID: "A"}))
	c.Wait()

	got := c.Board()
	assert.Equal(t, []string{"C", "A", "B"}, got.IDs(StatusTodo))
	assertContiguous(t, got[StatusTodo])

	calls := store.Calls()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].tasks, 3)

	successes, _ := n.Snapshot()
	assert.Equal(t, []string{defaultSuccessMessage}, successes)
}

func TestController_FailureKeepsOptimisticBoard(t *testing.T) {
	store := &fakeReorderer{result: Result{Success: false, Message: "Erreur serveur"}}
	b := NewBoard([]Task{task("A", StatusTodo, 0), task("B", StatusTodo, 1), task("C", StatusTodo, 2)})
	c, n := newTestController(t, b, store)

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][2]}))
	require.Equal(t, DropReordered, c.DragEnd(TaskTarget{ID: "A"}))
	c.Wait()

	successes, errs := n.Snapshot()
	assert.Empty(t, successes)
	assert.Equal(t, []string{"Erreur serveur"}, errs)
	assert.Equal(t, []string{"C", "A", "B"}, c.Board().IDs(StatusTodo))
}

func TestController_ErrorFromServiceIsNotified(t *testing.T) {
	store := &fakeReorderer{err: errors.New("connection refused")}
	b := sampleBoard()
	c, n := newTestController(t, b, store)

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][0]}))
	require.Equal(t, DropReordered, c.DragEnd(ColumnTarget{Status: StatusDone}))
	c.Wait()

	_, errs := n.Snapshot()
	assert.Equal(t, []string{"connection refused"}, errs)
	assert.Equal(t, []string{"E", "A"}, c.Board().IDs(StatusDone))
}

func TestController_RollbackOnFailure(t *testing.T) {
	store := &fakeReorderer{result: Result{Success: false}}
	b := NewBoard([]Task{task("A", StatusTodo, 0), task("B", StatusTodo, 1), task("C", StatusTodo, 2)})
	c, n := newTestController(t, b, store, WithRollbackOnFailure())

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][2]}))
	require.Equal(t, DropReordered, c.DragEnd(TaskTarget{ID: "A"}))
	c.Wait()

	_, errs := n.Snapshot()
	assert.Equal(t, []string{defaultFailureMessage}, errs)
	assert.Equal(t, []string{"A", "B", "C"}, c.Board().IDs(StatusTodo))
}

func TestController_RollbackSkippedAfterHydrate(t *testing.T) {
	store := &fakeReorderer{result: Result{Success: false}, block: make(chan struct{})}
	b := NewBoard([]Task{task("A", StatusTodo, 0), task("B", StatusTodo, 1)})
	c, _ := newTestController(t, b, store, WithRollbackOnFailure())

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][1]}))
	require.Equal(t, DropReordered, c.DragEnd(TaskTarget{ID: "A"}))

	fresh := NewBoard([]Task{task("A", StatusDone, 0)})
	c.Hydrate(fresh, nil)
	close(store.block)
	c.Wait()

	assert.Equal(t, []string{"A"}, c.Board().IDs(StatusDone))
}

func TestController_DragEndWhilePendingIsDropped(t *testing.T) {
	store := &fakeReorderer{result: Result{Success: true}, block: make(chan struct{})}
	b := NewBoard([]Task{task("A", StatusTodo, 0), task("B", StatusTodo, 1), task("C", StatusTodo, 2)})
	c, n := newTestController(t, b, store)

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][2]}))
	require.Equal(t, DropReordered, c.DragEnd(TaskTarget{ID: "A"}))
	require.True(t, c.Pending())
	before := c.Board()

	require.True(t, c.DragStart(TaskCard{Task: before[StatusTodo][1]}))
	assert.Equal(t, DropPending, c.DragEnd(TaskTarget{ID: "B"}))
	assert.Equal(t, PhaseIdle, c.Session().Phase())
	assert.Equal(t, before, c.Board())

	close(store.block)
	c.Wait()

	assert.Len(t, store.Calls(), 1)
	successes, errs := n.Snapshot()
	assert.Len(t, successes, 1)
	assert.Empty(t, errs)
	assert.False(t, c.Pending())
}

func TestController_DragEndWithoutTarget(t *testing.T) {
	store := &fakeReorderer{result: Result{Success: true}}
	b := sampleBoard()
	c, n := newTestController(t, b, store)

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][0]}))
	require.True(t, c.DragOver(TaskTarget{ID: "E"}))
	before := c.Board()

	assert.Equal(t, DropNoTarget, c.DragEnd(nil))
	c.Wait()

	// preview from the last drag-over is kept, nothing persisted
	assert.Equal(t, before, c.Board())
	assert.Equal(t, []string{"E", "A"}, c.Board().IDs(StatusDone))
	assert.Empty(t, store.Calls())
	successes, errs := n.Snapshot()
	assert.Empty(t, successes)
	assert.Empty(t, errs)
}

func TestController_DragStartRules(t *testing.T) {
	store := &fakeReorderer{result: Result{Success: true}}
	b := sampleBoard()
	c, _ := newTestController(t, b, store)

	assert.False(t, c.DragStart(ColumnHeader{Status: StatusTodo}))
	assert.False(t, c.DragStart(TaskCard{Task: task("Z", StatusTodo, 0)}))
	assert.Equal(t, PhaseIdle, c.Session().Phase())

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][0]}))
	assert.False(t, c.DragStart(TaskCard{Task: b[StatusTodo][1]}))
	active, ok := c.Session().Active()
	require.True(t, ok)
	assert.Equal(t, "A", active.ID)

	c.DragCancel()
	assert.Equal(t, PhaseIdle, c.Session().Phase())
	assert.Equal(t, DropIgnored, c.DragEnd(ColumnTarget{Status: StatusDone}))
	assert.False(t, c.DragOver(ColumnTarget{Status: StatusDone}))
}

func TestController_InvalidTargetReleasesSlot(t *testing.T) {
	store := &fakeReorderer{result: Result{Success: true}}
	b := sampleBoard()
	c, _ := newTestController(t, b, store)

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][0]}))
	assert.Equal(t, DropInvalid, c.DragEnd(TaskTarget{ID: "ghost"}))
	assert.False(t, c.Pending())
	assert.Equal(t, b, c.Board())
	assert.Empty(t, store.Calls())
}

func TestController_CloseDropsNotification(t *testing.T) {
	store := &fakeReorderer{result: Result{Success: true}, block: make(chan struct{})}
	b := sampleBoard()
	c, n := newTestController(t, b, store)

	require.True(t, c.DragStart(TaskCard{Task: b[StatusTodo][0]}))
	require.Equal(t, DropReordered, c.DragEnd(ColumnTarget{Status: StatusDone}))
	c.Close()
	close(store.block)
	c.Wait()

	assert.Len(t, store.Calls(), 1)
	successes, errs := n.Snapshot()
	assert.Empty(t, successes)
	assert.Empty(t, errs)
}

func TestSynchronizer_RecoversFromPanickingStore(t *testing.T) {
	n := &recordingNotifier{}
	s := NewSynchronizer(panicReorderer{}, n)
	defer s.Close()

	require.True(t, s.tryAcquire())
	s.dispatch("p1", []TaskOrder{{ID: "A"}}, nil)
	s.Wait()

	_, errs := n.Snapshot()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "boom")
	assert.False(t, s.Pending())
}

type panicReorderer struct{}

func (panicReorderer) ReorderTasks(context.Context, string, []TaskOrder) (Result, error) {
	panic("boom")
}

type slowReorderer struct{}

func (slowReorderer) ReorderTasks(ctx context.Context, _ string, _ []TaskOrder) (Result, error) {
	<-ctx.Done()
	return Result{}, ctx.Err()
}

func TestSynchronizer_TimeoutIsReported(t *testing.T) {
	n := &recordingNotifier{}
	s := NewSynchronizer(slowReorderer{}, n, WithTimeout(20*time.Millisecond))
	defer s.Close()

	require.True(t, s.tryAcquire())
	s.dispatch("p1", []TaskOrder{{ID: "A"}}, nil)
	s.Wait()

	_, errs := n.Snapshot()
	require.Len(t, errs, 1)
	assert.Equal(t, context.DeadlineExceeded.Error(), errs[0])
	assert.False(t, s.Pending())
}
