package client

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
	"github.com/gurkanbulca/taskboard/internal/board"
)

type fakeAPI struct {
	mu       sync.Mutex
	board    *boardv1.GetBoardResponse
	requests []*boardv1.ReorderTasksRequest
	resp     *boardv1.ReorderTasksResponse
	err      error
}

func (f *fakeAPI) GetBoard(ctx context.Context, in *boardv1.GetBoardRequest, opts ...grpc.CallOption) (*boardv1.GetBoardResponse, error) {
	return f.board, nil
}

func (f *fakeAPI) ReorderTasks(ctx context.Context, in *boardv1.ReorderTasksRequest, opts ...grpc.CallOption) (*boardv1.ReorderTasksResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func sampleResponse() *boardv1.GetBoardResponse {
	return &boardv1.GetBoardResponse{
		Project: &boardv1.Project{ID: "p1", Name: "Launch"},
		Columns: map[string][]boardv1.Task{
			boardv1.StatusTodo: {
				{ID: "A", ProjectID: "p1", Title: "Alpha", Status: boardv1.StatusTodo, Order: 0, AssignedTo: "u1"},
				{ID: "B", ProjectID: "p1", Title: "Beta", Status: boardv1.StatusTodo, Order: 1},
				{ID: "C", ProjectID: "p1", Title: "Gamma", Status: boardv1.StatusTodo, Order: 2},
			},
			boardv1.StatusInProgress: {},
			boardv1.StatusDone:       {},
		},
		Users: map[string]boardv1.User{"u1": {ID: "u1", DisplayName: "Ada"}},
	}
}

func newController(t *testing.T, api *fakeAPI, out *bytes.Buffer) *board.Controller {
	remote := NewRemote(api)
	project, b, users, err := remote.LoadBoard(context.Background(), "p1")
	require.NoError(t, err)

	syncer := board.NewSynchronizer(remote, NewConsoleNotifier(out), board.WithTimeout(time.Second))
	ctl := board.NewController(project.ID, b, users, syncer)
	t.Cleanup(ctl.Close)
	return ctl
}

func TestFromResponse(t *testing.T) {
	b, users := FromResponse(sampleResponse())
	assert.Equal(t, []string{"A", "B", "C"}, b.IDs(board.StatusTodo))
	assert.Empty(t, b.IDs(board.StatusDone))
	assert.Equal(t, "Ada", users["u1"].DisplayName)
}

func TestMove_ToOtherColumn(t *testing.T) {
	api := &fakeAPI{board: sampleResponse(), resp: &boardv1.ReorderTasksResponse{Success: true, Message: "Tasks reordered"}}
	var out bytes.Buffer
	ctl := newController(t, api, &out)

	res, err := Move(ctl, "A", board.StatusInProgress, "")
	require.NoError(t, err)
	assert.Equal(t, board.DropReordered, res)
	ctl.Wait()

	assert.Equal(t, []string{"B", "C"}, ctl.Board().IDs(board.StatusTodo))
	assert.Equal(t, []string{"A"}, ctl.Board().IDs(board.StatusInProgress))

	require.Len(t, api.requests, 1)
	assert.Equal(t, "p1", api.requests[0].ProjectID)
	assert.Equal(t, []boardv1.TaskOrder{{ID: "A", Order: 0, Status: boardv1.StatusInProgress}}, api.requests[0].Tasks)
	assert.Contains(t, out.String(), "Tasks reordered")
}

func TestMove_OverTaskInSameColumn(t *testing.T) {
	api := &fakeAPI{board: sampleResponse(), resp: &boardv1.ReorderTasksResponse{Success: true}}
	var out bytes.Buffer
	ctl := newController(t, api, &out)

	res, err := Move(ctl, "C", board.StatusTodo, "A")
	require.NoError(t, err)
	assert.Equal(t, board.DropReordered, res)
	ctl.Wait()

	assert.Equal(t, []string{"C", "A", "B"}, ctl.Board().IDs(board.StatusTodo))
	require.Len(t, api.requests, 1)
	assert.Equal(t, []boardv1.TaskOrder{
		{ID: "C", Order: 0, Status: boardv1.StatusTodo},
		{ID: "A", Order: 1, Status: boardv1.StatusTodo},
		{ID: "B", Order: 2, Status: boardv1.StatusTodo},
	}, api.requests[0].Tasks)
}

func TestMove_ServerErrorIsShown(t *testing.T) {
	api := &fakeAPI{board: sampleResponse(), err: status.Error(codes.Internal, "Erreur serveur")}
	var out bytes.Buffer
	ctl := newController(t, api, &out)

	_, err := Move(ctl, "A", board.StatusDone, "")
	require.NoError(t, err)
	ctl.Wait()

	assert.Contains(t, out.String(), "Erreur serveur")
	// no rollback
	assert.Equal(t, []string{"A"}, ctl.Board().IDs(board.StatusDone))
}

func TestMove_Errors(t *testing.T) {
	api := &fakeAPI{board: sampleResponse(), resp: &boardv1.ReorderTasksResponse{Success: true}}
	ctl := newController(t, api, &bytes.Buffer{})

	_, err := Move(ctl, "missing", board.StatusDone, "")
	assert.Error(t, err)

	_, err = Move(ctl, "A", board.Status("blocked"), "")
	assert.Error(t, err)

	_, err = Move(ctl, "A", board.StatusDone, "missing")
	assert.Error(t, err)

	assert.Empty(t, api.requests)
}

func TestRemote_FailedBatch(t *testing.T) {
	api := &fakeAPI{resp: &boardv1.ReorderTasksResponse{Success: false, Message: "Reorder failed"}}
	res, err := NewRemote(api).ReorderTasks(context.Background(), "p1", []board.TaskOrder{{ID: "A", Status: board.StatusTodo}})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Reorder failed", res.Message)
}

func TestRenderBoard(t *testing.T) {
	b, users := FromResponse(sampleResponse())
	out := RenderBoard(&boardv1.Project{Name: "Launch"}, b, users, DefaultStyles())

	for _, want := range []string{"Launch", "To do (3)", "In progress (0)", "Done (0)", "Alpha", "@Ada", "no tasks"} {
		assert.True(t, strings.Contains(out, want), "missing %q in\n%s", want, out)
	}
}
