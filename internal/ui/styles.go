package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ticklist/internal/task"
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true)
	filterStyle       = lipgloss.NewStyle().Faint(true)
	activeFilterStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	checkedStyle      = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	overdueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dueStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	placeholderStyle  = lipgloss.NewStyle().Italic(true).Faint(true)
	counterStyle      = lipgloss.NewStyle().Faint(true)
	labelStyle        = lipgloss.NewStyle().Width(10)
	focusedLabelStyle = lipgloss.NewStyle().Width(10).Bold(true)
	alertStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("9")).
				Padding(0, 2)

	badgeStyles = map[task.Priority]lipgloss.Style{
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

func priorityBadge(p task.Priority) string {
	label := strings.ToUpper(string(p))
	if style, ok := badgeStyles[p]; ok {
		return style.Render(label)
	}
	return label
}
