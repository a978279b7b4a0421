// internal/database/schema.go
package database

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column definitions mirroring ent/schema.

const (
	UsersTable    = "users"
	ProjectsTable = "projects"
	TasksTable    = "tasks"
)

var (
	usersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "display_name", Type: field.TypeString, Size: 100},
		{Name: "avatar_url", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	usersTable = &schema.Table{
		Name:       UsersTable,
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	projectsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString, Size: 200},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "owner_id", Type: field.TypeUUID},
	}
	projectsTable = &schema.Table{
		Name:       ProjectsTable,
		Columns:    projectsColumns,
		PrimaryKey: []*schema.Column{projectsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "projects_users_projects",
				Columns:    []*schema.Column{projectsColumns[4]},
				RefColumns: []*schema.Column{usersColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
	}

	tasksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"todo", "in_progress", "done"}, Default: "todo"},
		{Name: "sort_order", Type: field.TypeInt, Default: 0},
		{Name: "due_date", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "project_id", Type: field.TypeUUID},
		{Name: "assigned_to", Type: field.TypeUUID, Nullable: true},
	}
	tasksTable = &schema.Table{
		Name:       TasksTable,
		Columns:    tasksColumns,
		PrimaryKey: []*schema.Column{tasksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "tasks_projects_tasks",
				Columns:    []*schema.Column{tasksColumns[8]},
				RefColumns: []*schema.Column{projectsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "tasks_users_assigned_tasks",
				Columns:    []*schema.Column{tasksColumns[9]},
				RefColumns: []*schema.Column{usersColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "task_project_id_status_sort_order",
				Unique:  false,
				Columns: []*schema.Column{tasksColumns[8], tasksColumns[3], tasksColumns[4]},
			},
			{
				Name:    "task_assigned_to",
				Unique:  false,
				Columns: []*schema.Column{tasksColumns[9]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		usersTable,
		projectsTable,
		tasksTable,
	}
)

func init() {
	projectsTable.ForeignKeys[0].RefTable = usersTable
	tasksTable.ForeignKeys[0].RefTable = projectsTable
	tasksTable.ForeignKeys[1].RefTable = usersTable
}
