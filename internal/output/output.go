// Package output formats command results for the terminal.
package output

import (
	"ticklist/internal/store"
	"ticklist/internal/task"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t task.Task) string
	FormatView(v store.View) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// New picks a formatter by name: "json", "yaml", or anything else for human.
func New(name string) Formatter {
	switch name {
	case "json":
		return NewJSONFormatter()
	case "yaml":
		return NewYAMLFormatter()
	default:
		return NewHumanFormatter()
	}
}

// taskDoc is the machine-readable shape shared by the JSON and YAML formatters.
type taskDoc struct {
	ID        int64  `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Priority  string `json:"priority" yaml:"priority"`
	DueDate   string `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
	Completed bool   `json:"completed" yaml:"completed"`
	Overdue   bool   `json:"overdue,omitempty" yaml:"overdue,omitempty"`
}

type viewDoc struct {
	Filter    string    `json:"filter" yaml:"filter"`
	Remaining int       `json:"remaining" yaml:"remaining"`
	Tasks     []taskDoc `json:"tasks" yaml:"tasks"`
}

func toTaskDoc(t task.Task) taskDoc {
	return taskDoc{
		ID:        t.ID,
		Text:      t.Text,
		Priority:  string(t.Priority),
		DueDate:   t.DueDate,
		Completed: t.Completed,
	}
}

func toViewDoc(v store.View) viewDoc {
	docs := make([]taskDoc, len(v.Items))
	for i, it := range v.Items {
		docs[i] = taskDoc{
			ID:        it.ID,
			Text:      it.Text,
			Priority:  string(it.Priority),
			DueDate:   it.DueDate,
			Completed: it.Completed,
			Overdue:   it.Overdue,
		}
	}
	return viewDoc{Filter: string(v.Filter), Remaining: v.Remaining, Tasks: docs}
}
