// ent/schema/task.go
package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// Task holds the schema definition for the Task entity.
type Task struct {
	ent.Schema
}

// Fields of the Task.
func (Task) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable(),

		field.UUID("project_id", uuid.UUID{}).
			Immutable().
			Comment("Project owning the task"),

		field.String("title").
			NotEmpty().
			Comment("Task title"),

		field.Text("description").
			Optional().
			Comment("Detailed description of the task"),

		field.Enum("status").
			Values("todo", "in_progress", "done").
			Default("todo").
			Comment("Board column the task is in"),

		field.Int("sort_order").
			NonNegative().
			Default(0).
			Comment("Position inside the status column, contiguous from 0"),

		field.UUID("assigned_to", uuid.UUID{}).
			Optional().
			Nillable().
			Comment("User the task is assigned to"),

		field.Time("due_date").
			Optional().
			Nillable().
			Comment("When the task should be completed"),

		field.Time("created_at").
			Default(time.Now).
			Immutable().
			Comment("When the task was created"),

		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now).
			Comment("When the task was last updated"),
	}
}

// Edges of the Task.
func (Task) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("project", Project.Type).
			Ref("tasks").
			Field("project_id").
			Unique().
			Required().
			Immutable(),

		edge.From("assignee", User.Type).
			Ref("assigned_tasks").
			Field("assigned_to").
			Unique(),
	}
}

// Indexes of the Task.
func (Task) Indexes() []ent.Index {
	return []ent.Index{
		// Board hydration reads a whole project column by column
		index.Fields("project_id", "status", "sort_order"),

		index.Fields("assigned_to"),
	}
}

// Annotations of the Task.
func (Task) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "tasks"},
	}
}
