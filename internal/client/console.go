// internal/client/console.go
package client

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
	"github.com/gurkanbulca/taskboard/internal/board"
)

// Styles used on the console
type Styles struct {
	Title   lipgloss.Style
	Column  lipgloss.Style
	Header  lipgloss.Style
	Card    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(32),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Card: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
	}
}

var columnTitles = map[board.Status]string{
	board.StatusTodo:       "To do",
	board.StatusInProgress: "In progress",
	board.StatusDone:       "Done",
}

// ConsoleNotifier prints toasts to a terminal. It satisfies board.Notifier.
type ConsoleNotifier struct {
	mu     sync.Mutex
	out    io.Writer
	styles Styles
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out, styles: DefaultStyles()}
}

func (n *ConsoleNotifier) Success(message string) {
	n.print(n.styles.Success.Render("✓ " + message))
}

func (n *ConsoleNotifier) Error(message string) {
	n.print(n.styles.Error.Render("✗ " + message))
}

func (n *ConsoleNotifier) print(line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, line)
}

// RenderBoard draws the columns side by side
func RenderBoard(project *boardv1.Project, b board.Board, users map[string]board.User, styles Styles) string {
	columns := make([]string, 0, len(board.Statuses))
	for _, st := range board.Statuses {
		tasks := b.Column(st)

		var sb strings.Builder
		sb.WriteString(styles.Header.Render(fmt.Sprintf("%s (%d)", columnTitles[st], len(tasks))))
		if len(tasks) == 0 {
			sb.WriteString("\n" + styles.Muted.Render("no tasks"))
		}
		for _, t := range tasks {
			sb.WriteString("\n" + styles.Card.Render(fmt.Sprintf("%d. %s", t.Order+1, t.Title)))
			line := shortID(t.ID)
			if u, ok := users[t.AssignedTo]; ok {
				line += " @" + u.DisplayName
			}
			if t.DueDate != nil {
				line += " due " + t.DueDate.Format("2006-01-02")
			}
			sb.WriteString("\n   " + styles.Muted.Render(line))
		}
		columns = append(columns, styles.Column.Render(sb.String()))
	}

	title := "Board"
	if project != nil {
		title = project.Name
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(title),
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
