package store

import (
	"fmt"
	"time"

	"ticklist/internal/task"
)

// Placeholder is shown when no task passes the filter.
const Placeholder = "No tasks here. Add one above!"

// Item is one rendered row.
type Item struct {
	ID        int64
	Text      string
	Priority  task.Priority
	DueDate   string
	Due       string
	Completed bool
	Overdue   bool
}

// View is everything the presentation needs to draw the list.
type View struct {
	Filter      task.Filter
	Items       []Item
	Placeholder string
	Remaining   int
	CountLabel  string
}

func (v View) Empty() bool {
	return len(v.Items) == 0
}

// BuildView renders tasks through filter. Items keep collection order.
func BuildView(tasks []task.Task, filter task.Filter, now time.Time) View {
	visible := FilterTasks(tasks, filter)
	items := make([]Item, 0, len(visible))
	for _, t := range visible {
		items = append(items, Item{
			ID:        t.ID,
			Text:      t.Text,
			Priority:  t.Priority,
			DueDate:   t.DueDate,
			Due:       FormatDue(t.DueDate),
			Completed: t.Completed,
			Overdue:   t.Overdue(now),
		})
	}

	remaining := ActiveCount(tasks)
	v := View{
		Filter:     filter,
		Items:      items,
		Remaining:  remaining,
		CountLabel: CountLabel(remaining),
	}
	if len(items) == 0 {
		v.Placeholder = Placeholder
	}
	return v
}

func FilterTasks(tasks []task.Task, filter task.Filter) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func ActiveCount(tasks []task.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// CountLabel reads "1 task left" for one and "N tasks left" otherwise.
func CountLabel(n int) string {
	if n == 1 {
		return "1 task left"
	}
	return fmt.Sprintf("%d tasks left", n)
}

// FormatDue turns 2024-12-25 into "Dec 25". Unparseable input is returned as is.
func FormatDue(dueDate string) string {
	if dueDate == "" {
		return ""
	}
	d, err := time.Parse(task.DateLayout, dueDate)
	if err != nil {
		return dueDate
	}
	return d.Format("Jan 2")
}
