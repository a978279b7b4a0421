// internal/service/helpers_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskboard/internal/cache"
	"github.com/gurkanbulca/taskboard/internal/database"
	"github.com/gurkanbulca/taskboard/internal/database/dbtest"
	"github.com/gurkanbulca/taskboard/internal/events"
	"github.com/gurkanbulca/taskboard/internal/middleware"
	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

// TestHelpers provides common test utilities
type TestHelpers struct {
	t        *testing.T
	db       *database.DB
	Projects *repository.ProjectRepository
	Tasks    *repository.TaskRepository
	Users    *repository.UserRepository
}

// NewTestHelpers opens a fresh database for the test
func NewTestHelpers(t *testing.T) *TestHelpers {
	db := dbtest.Open(t)
	return &TestHelpers{
		t:        t,
		db:       db,
		Projects: repository.NewProjectRepository(db),
		Tasks:    repository.NewTaskRepository(db),
		Users:    repository.NewUserRepository(db),
	}
}

// NewService builds a BoardService over the helper's database
func (h *TestHelpers) NewService(boardCache *cache.BoardCache, broker *events.Broker) *BoardService {
	return NewBoardService(h.Projects, h.Tasks, h.Users, boardCache, broker)
}

// CreateTestUser creates a user with the given display name
func (h *TestHelpers) CreateTestUser(email, displayName string) *models.User {
	u, err := h.Users.Create(context.Background(), email, displayName, "")
	require.NoError(h.t, err)
	return u
}

// CreateTestProject creates a project owned by ownerID
func (h *TestHelpers) CreateTestProject(name, ownerID string) *models.Project {
	p, err := h.Projects.Create(context.Background(), name, ownerID)
	require.NoError(h.t, err)
	return p
}

// CreateTestTask appends a task to a column
func (h *TestHelpers) CreateTestTask(projectID, title, status string) *models.Task {
	task, err := h.Tasks.Create(context.Background(), &repository.TaskInput{
		ProjectID: projectID,
		Title:     title,
		Status:    status,
	})
	require.NoError(h.t, err)
	return task
}

// AuthContext returns a context carrying the user's identity, as the auth
// interceptor would
func (h *TestHelpers) AuthContext(u *models.User) context.Context {
	return middleware.WithUser(context.Background(), &auth.Claims{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	})
}

// AssertColumn checks the titles and contiguous orders of a stored column
func (h *TestHelpers) AssertColumn(projectID, status string, titles ...string) {
	tasks, err := h.Tasks.ListByProject(context.Background(), projectID)
	require.NoError(h.t, err)

	var got []string
	for _, task := range tasks {
		if task.Status != status {
			continue
		}
		assert.Equal(h.t, len(got), task.SortOrder, "order of %s", task.Title)
		got = append(got, task.Title)
	}
	if len(titles) == 0 {
		assert.Empty(h.t, got)
		return
	}
	assert.Equal(h.t, titles, got)
}

// signTestToken signs a token for u
func signTestToken(t *testing.T, tm *auth.TokenManager, u *models.User) string {
	token, _, err := tm.GenerateAccessToken(u.ID, u.Email, u.DisplayName)
	require.NoError(t, err)
	return token
}

const testSecret = "test-secret-key-with-at-least-32-chars"

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(testSecret, time.Hour)
}
