// internal/middleware/validation.go
package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
	"github.com/gurkanbulca/taskboard/internal/board"
)

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	MaxTitleLength       int
	MaxDescriptionLength int
	MaxProjectNameLength int
	MaxReorderBatch      int
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxTitleLength:       200,
		MaxDescriptionLength: 5000,
		MaxProjectNameLength: 200,
		MaxReorderBatch:      500,
	}
}

// ValidationInterceptor rejects malformed board requests before they reach
// the service
type ValidationInterceptor struct {
	config *ValidationConfig
}

func NewValidationInterceptor(config *ValidationConfig) *ValidationInterceptor {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &ValidationInterceptor{config: config}
}

// Unary returns a unary server interceptor for validation
func (v *ValidationInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if err := v.Validate(req); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// Stream validates the first message of server streams
func (v *ValidationInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		return handler(srv, &validatingServerStream{ServerStream: stream, v: v})
	}
}

type validatingServerStream struct {
	grpc.ServerStream
	v *ValidationInterceptor
}

func (s *validatingServerStream) RecvMsg(m interface{}) error {
	if err := s.ServerStream.RecvMsg(m); err != nil {
		return err
	}
	return s.v.Validate(m)
}

// Validate checks a request message. It returns an InvalidArgument status
// listing every problem found.
func (v *ValidationInterceptor) Validate(req interface{}) error {
	var errs []string
	switch r := req.(type) {
	case *boardv1.CreateProjectRequest:
		errs = v.validateCreateProject(r)
	case *boardv1.GetBoardRequest:
		errs = requireUUID(nil, "project_id", r.ProjectID)
	case *boardv1.CreateTaskRequest:
		errs = v.validateCreateTask(r)
	case *boardv1.UpdateTaskRequest:
		errs = v.validateUpdateTask(r)
	case *boardv1.DeleteTaskRequest:
		errs = requireUUID(nil, "id", r.ID)
	case *boardv1.ReorderTasksRequest:
		errs = v.validateReorder(r)
	case *boardv1.WatchBoardRequest:
		errs = requireUUID(nil, "project_id", r.ProjectID)
	}

	if len(errs) > 0 {
		return status.Error(codes.InvalidArgument, strings.Join(errs, "; "))
	}
	return nil
}

func (v *ValidationInterceptor) validateCreateProject(req *boardv1.CreateProjectRequest) []string {
	var errs []string
	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, "name is required")
	} else if len(name) > v.config.MaxProjectNameLength {
		errs = append(errs, fmt.Sprintf("name too long (max %d characters)", v.config.MaxProjectNameLength))
	}
	return errs
}

func (v *ValidationInterceptor) validateCreateTask(req *boardv1.CreateTaskRequest) []string {
	errs := requireUUID(nil, "project_id", req.ProjectID)

	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "title is required")
	} else {
		errs = v.checkTitle(errs, req.Title)
	}
	errs = v.checkDescription(errs, req.Description)
	if req.Status != "" {
		errs = checkStatus(errs, req.Status)
	}
	if req.AssignedTo != "" {
		errs = requireUUID(errs, "assigned_to", req.AssignedTo)
	}
	return errs
}

func (v *ValidationInterceptor) validateUpdateTask(req *boardv1.UpdateTaskRequest) []string {
	errs := requireUUID(nil, "id", req.ID)

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			errs = append(errs, "title cannot be empty")
		} else {
			errs = v.checkTitle(errs, *req.Title)
		}
	}
	if req.Description != nil {
		errs = v.checkDescription(errs, *req.Description)
	}
	if req.Status != "" {
		errs = checkStatus(errs, req.Status)
	}
	if req.AssignedTo != nil && *req.AssignedTo != "" {
		errs = requireUUID(errs, "assigned_to", *req.AssignedTo)
	}
	return errs
}

func (v *ValidationInterceptor) validateReorder(req *boardv1.ReorderTasksRequest) []string {
	errs := requireUUID(nil, "project_id", req.ProjectID)

	if len(req.Tasks) == 0 {
		errs = append(errs, "tasks are required")
	} else if len(req.Tasks) > v.config.MaxReorderBatch {
		errs = append(errs, fmt.Sprintf("too many tasks (max %d)", v.config.MaxReorderBatch))
	}

	seen := make(map[string]bool, len(req.Tasks))
	for i, t := range req.Tasks {
		field := fmt.Sprintf("tasks[%d]", i)
		errs = requireUUID(errs, field+".id", t.ID)
		if seen[t.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate task %s", field, t.ID))
		}
		seen[t.ID] = true
		if t.Order < 0 {
			errs = append(errs, fmt.Sprintf("%s.order must not be negative", field))
		}
		if _, err := board.ParseStatus(t.Status); err != nil {
			errs = append(errs, fmt.Sprintf("%s.status: %v", field, err))
		}
	}
	return errs
}

func (v *ValidationInterceptor) checkTitle(errs []string, title string) []string {
	if len(title) > v.config.MaxTitleLength {
		errs = append(errs, fmt.Sprintf("title too long (max %d characters)", v.config.MaxTitleLength))
	}
	return errs
}

func (v *ValidationInterceptor) checkDescription(errs []string, description string) []string {
	if len(description) > v.config.MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("description too long (max %d characters)", v.config.MaxDescriptionLength))
	}
	return errs
}

func checkStatus(errs []string, s string) []string {
	if _, err := board.ParseStatus(s); err != nil {
		errs = append(errs, fmt.Sprintf("status: %v", err))
	}
	return errs
}

func requireUUID(errs []string, field, value string) []string {
	if value == "" {
		return append(errs, field+" is required")
	}
	if !isValidUUID(value) {
		return append(errs, fmt.Sprintf("invalid %s format", field))
	}
	return errs
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
