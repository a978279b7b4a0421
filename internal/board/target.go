package board

// DragItem is the payload attached to a draggable element.
type DragItem interface {
	isDragItem()
}

// TaskCard is a task card being picked up.
type TaskCard struct {
	Task Task
}

// ColumnHeader is a column being picked up. Columns cannot be reordered,
// so this item never starts a drag session.
type ColumnHeader struct {
	Status Status
}

func (TaskCard) isDragItem()     {}
func (ColumnHeader) isDragItem() {}

// DragTarget is whatever the pointer is over when a drag event fires.
// A nil DragTarget means there is no valid drop target.
type DragTarget interface {
	isDragTarget()
}

// TaskTarget is another task card.
type TaskTarget struct {
	ID string
}

// ColumnTarget is the empty area of a column.
type ColumnTarget struct {
	Status Status
}

func (TaskTarget) isDragTarget()   {}
func (ColumnTarget) isDragTarget() {}

// targetColumn resolves which column a target belongs to.
func targetColumn(b Board, target DragTarget) (Status, bool) {
	switch t := target.(type) {
	case TaskTarget:
		s, _, ok := b.Locate(t.ID)
		return s, ok
	case ColumnTarget:
		return t.Status, t.Status.Valid()
	default:
		return "", false
	}
}
