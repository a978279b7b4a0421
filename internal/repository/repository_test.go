// internal/repository/repository_test.go
package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskboard/internal/database"
	"github.com/gurkanbulca/taskboard/internal/database/dbtest"
	"github.com/gurkanbulca/taskboard/internal/models"
)

type fixture struct {
	db       *database.DB
	tasks    *TaskRepository
	projects *ProjectRepository
	users    *UserRepository
	owner    *models.User
	project  *models.Project
}

func setupFixture(t *testing.T) *fixture {
	db := dbtest.Open(t)
	f := &fixture{
		db:       db,
		tasks:    NewTaskRepository(db),
		projects: NewProjectRepository(db),
		users:    NewUserRepository(db),
	}

	ctx := context.Background()
	owner, err := f.users.Create(ctx, "owner@example.com", "Owner", "")
	require.NoError(t, err)
	f.owner = owner

	project, err := f.projects.Create(ctx, "Board", owner.ID)
	require.NoError(t, err)
	f.project = project
	return f
}

func (f *fixture) addTask(t *testing.T, title, status string) *models.Task {
	task, err := f.tasks.Create(context.Background(), &TaskInput{
		ProjectID: f.project.ID,
		Title:     title,
		Status:    status,
	})
	require.NoError(t, err)
	return task
}

// columnTitles returns the titles of a column in stored order
func (f *fixture) columnTitles(t *testing.T, status string) []string {
	tasks, err := f.tasks.ListByProject(context.Background(), f.project.ID)
	require.NoError(t, err)
	var titles []string
	for i, task := range tasks {
		if task.Status != status {
			continue
		}
		if i > 0 && tasks[i-1].Status == status {
			assert.Greater(t, task.SortOrder, tasks[i-1].SortOrder)
		}
		titles = append(titles, task.Title)
	}
	return titles
}

func TestTaskRepository_CreateAppendsToColumn(t *testing.T) {
	f := setupFixture(t)

	a := f.addTask(t, "a", models.TaskStatusTodo)
	b := f.addTask(t, "b", models.TaskStatusTodo)
	c := f.addTask(t, "c", models.TaskStatusDone)

	assert.Equal(t, 0, a.SortOrder)
	assert.Equal(t, 1, b.SortOrder)
	assert.Equal(t, 0, c.SortOrder)

	got, err := f.tasks.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)
	assert.Equal(t, f.project.ID, got.ProjectID)
	assert.False(t, got.AssignedTo.Valid)
}

func TestTaskRepository_GetByIDNotFound(t *testing.T) {
	f := setupFixture(t)

	_, err := f.tasks.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepository_Reorder(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	a := f.addTask(t, "a", models.TaskStatusTodo)
	b := f.addTask(t, "b", models.TaskStatusTodo)
	c := f.addTask(t, "c", models.TaskStatusInProgress)

	// c moves to the top of todo
	err := f.tasks.Reorder(ctx, f.project.ID, []OrderInput{
		{ID: c.ID, Order: 0, Status: models.TaskStatusTodo},
		{ID: a.ID, Order: 1, Status: models.TaskStatusTodo},
		{ID: b.ID, Order: 2, Status: models.TaskStatusTodo},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "b"}, f.columnTitles(t, models.TaskStatusTodo))
	assert.Empty(t, f.columnTitles(t, models.TaskStatusInProgress))
}

func TestTaskRepository_ReorderUnknownTaskRollsBack(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	a := f.addTask(t, "a", models.TaskStatusTodo)
	b := f.addTask(t, "b", models.TaskStatusTodo)

	err := f.tasks.Reorder(ctx, f.project.ID, []OrderInput{
		{ID: b.ID, Order: 0, Status: models.TaskStatusTodo},
		{ID: uuid.NewString(), Order: 1, Status: models.TaskStatusTodo},
		{ID: a.ID, Order: 2, Status: models.TaskStatusTodo},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// nothing was applied
	assert.Equal(t, []string{"a", "b"}, f.columnTitles(t, models.TaskStatusTodo))
}

func TestTaskRepository_ReorderOtherProject(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	other, err := f.projects.Create(ctx, "Other", f.owner.ID)
	require.NoError(t, err)
	foreign, err := f.tasks.Create(ctx, &TaskInput{ProjectID: other.ID, Title: "x", Status: models.TaskStatusTodo})
	require.NoError(t, err)

	err = f.tasks.Reorder(ctx, f.project.ID, []OrderInput{
		{ID: foreign.ID, Order: 3, Status: models.TaskStatusDone},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.tasks.GetByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, got.Status)
}

func TestTaskRepository_UpdateStatusMovesToEnd(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	a := f.addTask(t, "a", models.TaskStatusTodo)
	f.addTask(t, "b", models.TaskStatusTodo)
	f.addTask(t, "c", models.TaskStatusTodo)
	f.addTask(t, "d", models.TaskStatusDone)

	status := models.TaskStatusDone
	title := "a2"
	updated, err := f.tasks.Update(ctx, a.ID, &TaskUpdateInput{Status: &status, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, updated.Status)
	assert.Equal(t, 1, updated.SortOrder)
	assert.Equal(t, "a2", updated.Title)

	assert.Equal(t, []string{"d", "a2"}, f.columnTitles(t, models.TaskStatusDone))

	// old column is compacted
	tasks, err := f.tasks.ListByProject(ctx, f.project.ID)
	require.NoError(t, err)
	var orders []int
	for _, task := range tasks {
		if task.Status == models.TaskStatusTodo {
			orders = append(orders, task.SortOrder)
		}
	}
	assert.Equal(t, []int{0, 1}, orders)
}

func TestTaskRepository_UpdateAssignee(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	a := f.addTask(t, "a", models.TaskStatusTodo)

	updated, err := f.tasks.Update(ctx, a.ID, &TaskUpdateInput{AssignedTo: &f.owner.ID})
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, updated.AssignedTo.String)
	assert.Equal(t, 0, updated.SortOrder)

	unassign := ""
	updated, err = f.tasks.Update(ctx, a.ID, &TaskUpdateInput{AssignedTo: &unassign})
	require.NoError(t, err)
	assert.False(t, updated.AssignedTo.Valid)
}

func TestTaskRepository_DeleteCompactsColumn(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	f.addTask(t, "a", models.TaskStatusTodo)
	b := f.addTask(t, "b", models.TaskStatusTodo)
	c := f.addTask(t, "c", models.TaskStatusTodo)

	deleted, err := f.tasks.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, deleted.ID)

	got, err := f.tasks.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SortOrder)

	_, err = f.tasks.Delete(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.users.Create(ctx, "OWNER@example.com", "Dup", "")
	assert.ErrorIs(t, err, ErrConflict)

	byEmail, err := f.users.GetByEmail(ctx, " Owner@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, byEmail.ID)

	second, err := f.users.Create(ctx, "second@example.com", "Second", "https://example.com/a.png")
	require.NoError(t, err)

	users, err := f.users.ListByIDs(ctx, []string{f.owner.ID, second.ID, uuid.NewString()})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	none, err := f.users.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.users.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_Ensure(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	same, err := f.users.Ensure(ctx, f.owner.ID, "ignored@example.com", "Ignored")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", same.Email)

	id := uuid.NewString()
	created, err := f.users.Ensure(ctx, id, "new@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, "new@example.com", created.DisplayName)

	got, err := f.users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
}

func TestProjectRepository_GetByID(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	got, err := f.projects.GetByID(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Board", got.Name)
	assert.Equal(t, f.owner.ID, got.OwnerID)

	_, err = f.projects.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
