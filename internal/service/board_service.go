// internal/service/board_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
	"github.com/gurkanbulca/taskboard/internal/board"
	"github.com/gurkanbulca/taskboard/internal/cache"
	"github.com/gurkanbulca/taskboard/internal/events"
	"github.com/gurkanbulca/taskboard/internal/middleware"
	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
)

const reorderedMessage = "Tasks reordered"

var errProjectDenied = status.Error(codes.PermissionDenied, "access to project denied")

type BoardService struct {
	boardv1.UnimplementedBoardServiceServer
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
	users    *repository.UserRepository
	cache    *cache.BoardCache
	broker   *events.Broker
	logger   *log.Entry

	reorderTimeout time.Duration
}

// Option configures a BoardService
type Option func(*BoardService)

// WithReorderTimeout bounds the reorder transaction. Zero means no bound
// beyond the caller's deadline.
func WithReorderTimeout(d time.Duration) Option {
	return func(s *BoardService) {
		s.reorderTimeout = d
	}
}

func NewBoardService(
	projects *repository.ProjectRepository,
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	boardCache *cache.BoardCache,
	broker *events.Broker,
	opts ...Option,
) *BoardService {
	if broker == nil {
		broker = events.NewBroker(nil)
	}
	s := &BoardService{
		projects: projects,
		tasks:    tasks,
		users:    users,
		cache:    boardCache,
		broker:   broker,
		logger:   log.WithField("component", "board_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProject creates a project owned by the caller
func (s *BoardService) CreateProject(ctx context.Context, req *boardv1.CreateProjectRequest) (*boardv1.CreateProjectResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}
	email, _ := middleware.GetUserEmailFromContext(ctx)
	displayName, _ := middleware.GetDisplayNameFromContext(ctx)

	if _, err := s.users.Ensure(ctx, userID, email, displayName); err != nil {
		return nil, toStatus(err, "failed to register user")
	}

	project, err := s.projects.Create(ctx, req.Name, userID)
	if err != nil {
		return nil, toStatus(err, "failed to create project")
	}

	s.logger.WithFields(log.Fields{"project_id": project.ID, "owner_id": userID}).Info("project created")
	return &boardv1.CreateProjectResponse{Project: convertProject(project)}, nil
}

// GetBoard returns the project's tasks grouped by column, with the display
// info of every assignee
func (s *BoardService) GetBoard(ctx context.Context, req *boardv1.GetBoardRequest) (*boardv1.GetBoardResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}
	if cached, ok := s.cache.Load(ctx, req.ProjectID); ok && cached.Project != nil {
		if cached.Project.OwnerID != userID {
			return nil, errProjectDenied
		}
		return cached, nil
	}

	// taken before reading so a write that lands meanwhile voids the Store
	gen := s.cache.Generation(ctx, req.ProjectID)

	project, err := s.authorize(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, req.ProjectID)
	if err != nil {
		return nil, toStatus(err, "failed to list tasks")
	}

	resp := &boardv1.GetBoardResponse{
		Project: convertProject(project),
		Columns: make(map[string][]boardv1.Task, len(board.Statuses)),
		Users:   make(map[string]boardv1.User),
	}
	for _, st := range board.Statuses {
		resp.Columns[st.String()] = []boardv1.Task{}
	}

	var assignees []string
	seen := make(map[string]bool)
	for _, t := range tasks {
		resp.Columns[t.Status] = append(resp.Columns[t.Status], *convertTask(t))
		if t.AssignedTo.Valid && !seen[t.AssignedTo.String] {
			seen[t.AssignedTo.String] = true
			assignees = append(assignees, t.AssignedTo.String)
		}
	}

	users, err := s.users.ListByIDs(ctx, assignees)
	if err != nil {
		return nil, toStatus(err, "failed to load assignees")
	}
	for _, u := range users {
		resp.Users[u.ID] = convertUser(u)
	}

	s.cache.Store(ctx, req.ProjectID, gen, resp)
	return resp, nil
}

// CreateTask appends a task to the end of its column
func (s *BoardService) CreateTask(ctx context.Context, req *boardv1.CreateTaskRequest) (*boardv1.CreateTaskResponse, error) {
	if _, err := s.authorize(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	input := &repository.TaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusTodo,
		DueDate:     req.DueDate,
	}
	if req.Status != "" {
		input.Status = req.Status
	}
	if err := checkStatus(input.Status); err != nil {
		return nil, err
	}
	if req.AssignedTo != "" {
		if err := s.checkAssignee(ctx, req.AssignedTo); err != nil {
			return nil, err
		}
		input.AssignedTo = &req.AssignedTo
	}

	task, err := s.tasks.Create(ctx, input)
	if err != nil {
		return nil, toStatus(err, "failed to create task")
	}

	s.changed(ctx, boardv1.EventTaskCreated, task.ProjectID, task.ID)
	return &boardv1.CreateTaskResponse{Task: convertTask(task)}, nil
}

// UpdateTask applies a partial update. Moving a task to another column
// places it last there.
func (s *BoardService) UpdateTask(ctx context.Context, req *boardv1.UpdateTaskRequest) (*boardv1.UpdateTaskResponse, error) {
	input := &repository.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	}
	if req.Status != "" {
		if err := checkStatus(req.Status); err != nil {
			return nil, err
		}
		input.Status = &req.Status
	}
	if err := s.authorizeTask(ctx, req.ID); err != nil {
		return nil, err
	}
	if req.AssignedTo != nil && *req.AssignedTo != "" {
		if err := s.checkAssignee(ctx, *req.AssignedTo); err != nil {
			return nil, err
		}
	}

	task, err := s.tasks.Update(ctx, req.ID, input)
	if err != nil {
		return nil, toStatus(err, "failed to update task")
	}

	s.changed(ctx, boardv1.EventTaskUpdated, task.ProjectID, task.ID)
	return &boardv1.UpdateTaskResponse{Task: convertTask(task)}, nil
}

// DeleteTask removes a task and closes the gap it leaves in its column
func (s *BoardService) DeleteTask(ctx context.Context, req *boardv1.DeleteTaskRequest) (*emptypb.Empty, error) {
	if err := s.authorizeTask(ctx, req.ID); err != nil {
		return nil, err
	}
	task, err := s.tasks.Delete(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err, "failed to delete task")
	}

	s.changed(ctx, boardv1.EventTaskDeleted, task.ProjectID, task.ID)
	return &emptypb.Empty{}, nil
}

// ReorderTasks persists a batch of positions in one transaction. A failed
// batch is reported in the response rather than as an RPC error.
func (s *BoardService) ReorderTasks(ctx context.Context, req *boardv1.ReorderTasksRequest) (*boardv1.ReorderTasksResponse, error) {
	entries := make([]repository.OrderInput, len(req.Tasks))
	ids := make([]string, len(req.Tasks))
	for i, t := range req.Tasks {
		if err := checkStatus(t.Status); err != nil {
			return nil, err
		}
		if t.Order < 0 {
			return nil, status.Errorf(codes.InvalidArgument, "task %s: order must not be negative", t.ID)
		}
		entries[i] = repository.OrderInput{ID: t.ID, Order: t.Order, Status: t.Status}
		ids[i] = t.ID
	}
	if _, err := s.authorize(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	logger := s.logger.WithFields(log.Fields{"project_id": req.ProjectID, "tasks": len(entries)})
	txCtx := ctx
	if s.reorderTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, s.reorderTimeout)
		defer cancel()
	}
	if err := s.tasks.Reorder(txCtx, req.ProjectID, entries); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.WithError(err).Warn("reorder rejected")
			return &boardv1.ReorderTasksResponse{Success: false, Message: fmt.Sprintf("Reorder failed: %v", err)}, nil
		}
		logger.WithError(err).Error("reorder failed")
		return &boardv1.ReorderTasksResponse{Success: false, Message: "Failed to reorder tasks"}, nil
	}

	logger.Debug("tasks reordered")
	s.changed(ctx, boardv1.EventTasksReordered, req.ProjectID, ids...)
	return &boardv1.ReorderTasksResponse{Success: true, Message: reorderedMessage}, nil
}

// WatchBoard streams change notifications for a project until the client
// goes away
func (s *BoardService) WatchBoard(req *boardv1.WatchBoardRequest, stream boardv1.WatchBoardServer) error {
	ctx := stream.Context()
	if _, err := s.authorize(ctx, req.ProjectID); err != nil {
		return err
	}

	evs, cancel, err := s.broker.Subscribe(ctx, req.ProjectID)
	if err != nil {
		return status.Errorf(codes.Unavailable, "failed to watch board: %v", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-evs:
			if !ok {
				return nil
			}
			if err := stream.Send(ev); err != nil {
				return err
			}
		}
	}
}

// authorize loads a project the caller owns
func (s *BoardService) authorize(ctx context.Context, projectID string) (*models.Project, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, toStatus(err, "failed to get project")
	}
	if project.OwnerID != userID {
		s.logger.WithFields(log.Fields{"project_id": projectID, "user_id": userID}).Warn("project access denied")
		return nil, errProjectDenied
	}
	return project, nil
}

// authorizeTask checks that the caller owns the task's project
func (s *BoardService) authorizeTask(ctx context.Context, taskID string) error {
	if _, ok := middleware.GetUserIDFromContext(ctx); !ok {
		return status.Error(codes.Unauthenticated, "user not authenticated")
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return toStatus(err, "failed to get task")
	}
	_, err = s.authorize(ctx, task.ProjectID)
	return err
}

func (s *BoardService) checkAssignee(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return status.Error(codes.InvalidArgument, "unknown assignee")
		}
		return toStatus(err, "failed to get assignee")
	}
	return nil
}

func checkStatus(s string) error {
	if _, err := board.ParseStatus(s); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

// changed drops the cached board and tells watchers
func (s *BoardService) changed(ctx context.Context, eventType, projectID string, taskIDs ...string) {
	s.cache.Evict(ctx, projectID)

	ev := &boardv1.BoardEvent{
		Type:      eventType,
		ProjectID: projectID,
		TaskIDs:   taskIDs,
		At:        time.Now().UTC(),
	}
	if err := s.broker.Publish(ctx, ev); err != nil {
		s.logger.WithError(err).WithField("project_id", projectID).Warn("failed to publish board event")
	}
}

// toStatus maps repository errors onto gRPC status codes
func toStatus(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, repository.ErrConflict):
		return status.Errorf(codes.AlreadyExists, "%s: %v", msg, err)
	default:
		return status.Errorf(codes.Internal, "%s: %v", msg, err)
	}
}

// Helper functions

func convertProject(p *models.Project) *boardv1.Project {
	return &boardv1.Project{
		ID:        p.ID,
		Name:      p.Name,
		OwnerID:   p.OwnerID,
		CreatedAt: p.CreatedAt,
	}
}

func convertTask(t *models.Task) *boardv1.Task {
	card := t.ToBoard()
	return &boardv1.Task{
		ID:          card.ID,
		ProjectID:   card.ProjectID,
		Title:       card.Title,
		Description: card.Description,
		Status:      card.Status.String(),
		Order:       card.Order,
		AssignedTo:  card.AssignedTo,
		DueDate:     card.DueDate,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func convertUser(u *models.User) boardv1.User {
	return boardv1.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL.String,
	}
}
