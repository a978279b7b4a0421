// internal/client/remote.go
package client

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
	"github.com/gurkanbulca/taskboard/internal/board"
)

// BoardAPI is the part of the board service the client uses
type BoardAPI interface {
	GetBoard(ctx context.Context, in *boardv1.GetBoardRequest, opts ...grpc.CallOption) (*boardv1.GetBoardResponse, error)
	ReorderTasks(ctx context.Context, in *boardv1.ReorderTasksRequest, opts ...grpc.CallOption) (*boardv1.ReorderTasksResponse, error)
}

// Remote persists reorders through the board service. It satisfies
// board.Reorderer.
type Remote struct {
	api BoardAPI
}

func NewRemote(api BoardAPI) *Remote {
	return &Remote{api: api}
}

// ReorderTasks sends one batch. RPC errors come back with the server's
// message so it can be shown as is.
func (r *Remote) ReorderTasks(ctx context.Context, projectID string, tasks []board.TaskOrder) (board.Result, error) {
	req := &boardv1.ReorderTasksRequest{
		ProjectID: projectID,
		Tasks:     make([]boardv1.TaskOrder, len(tasks)),
	}
	for i, t := range tasks {
		req.Tasks[i] = boardv1.TaskOrder{ID: t.ID, Order: t.Order, Status: t.Status.String()}
	}

	resp, err := r.api.ReorderTasks(ctx, req)
	if err != nil {
		return board.Result{}, errors.New(status.Convert(err).Message())
	}
	return board.Result{Success: resp.Success, Message: resp.Message}, nil
}

// LoadBoard fetches a project's board and converts it for a Controller
func (r *Remote) LoadBoard(ctx context.Context, projectID string) (*boardv1.Project, board.Board, map[string]board.User, error) {
	resp, err := r.api.GetBoard(ctx, &boardv1.GetBoardRequest{ProjectID: projectID})
	if err != nil {
		return nil, nil, nil, err
	}
	b, users := FromResponse(resp)
	return resp.Project, b, users, nil
}

// FromResponse converts a GetBoard response into board types
func FromResponse(resp *boardv1.GetBoardResponse) (board.Board, map[string]board.User) {
	var tasks []board.Task
	for _, column := range resp.Columns {
		for _, t := range column {
			tasks = append(tasks, board.Task{
				ID:          t.ID,
				ProjectID:   t.ProjectID,
				Title:       t.Title,
				Description: t.Description,
				Status:      board.Status(t.Status),
				Order:       t.Order,
				AssignedTo:  t.AssignedTo,
				DueDate:     t.DueDate,
				CreatedAt:   t.CreatedAt,
			})
		}
	}

	users := make(map[string]board.User, len(resp.Users))
	for id, u := range resp.Users {
		users[id] = board.User{ID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
	}
	return board.NewBoard(tasks), users
}
