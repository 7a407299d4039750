package output

import (
	"fmt"
	"strings"

	"ticklist/internal/store"
	"ticklist/internal/task"
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

func (f *HumanFormatter) FormatTask(t task.Task) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%d] %s\n", t.ID, t.Text))
	sb.WriteString(fmt.Sprintf("  Priority: %s\n", t.Priority))
	if t.HasDueDate() {
		sb.WriteString(fmt.Sprintf("  Due:      %s\n", store.FormatDue(t.DueDate)))
	}
	sb.WriteString(fmt.Sprintf("  Done:     %t\n", t.Completed))
	return sb.String()
}

// FormatView prints one line per visible task followed by the count.
func (f *HumanFormatter) FormatView(v store.View) string {
	var sb strings.Builder
	if v.Empty() {
		sb.WriteString(v.Placeholder)
		sb.WriteString("\n")
	}
	for _, it := range v.Items {
		checkbox := "[ ]"
		if it.Completed {
			checkbox = "[x]"
		}
		line := fmt.Sprintf("%s %d %s (%s)", checkbox, it.ID, it.Text, it.Priority)
		if it.Due != "" {
			line += " due " + it.Due
		}
		if it.Overdue {
			line += " OVERDUE"
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(v.CountLabel)
	sb.WriteString("\n")
	return sb.String()
}

func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
