package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"ticklist/internal/config"
	"ticklist/internal/logging"
	"ticklist/internal/store"
	"ticklist/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

type formField int

const (
	fieldText formField = iota
	fieldPriority
	fieldDue
	fieldCount
)

// editState tracks the row whose text is being edited. It never reaches
// the task record until the edit is committed.
type editState struct {
	taskID int64
}

type Model struct {
	store     *store.Store
	keys      config.Keymap
	logger    *log.Logger
	view      store.View
	cursor    int
	mode      mode
	text      textinput.Model
	due       textinput.Model
	priority  task.Priority
	field     formField
	edit      *editState
	editInput textinput.Model
	alert     string
	status    string
}

// Run loads the stored tasks and blocks until the user quits.
func Run(st *store.Store, cfg config.Config, logger *log.Logger) error {
	m, err := NewModel(st, cfg.Keys, logger)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m)
	_, err = program.Run()
	return err
}

func NewModel(st *store.Store, keys config.Keymap, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	v, err := st.Load()
	if err != nil {
		return Model{}, err
	}

	text := textinput.New()
	text.Placeholder = "Add a new task"
	text.CharLimit = 256
	text.Width = 40

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(task.DateLayout)
	due.Width = 12

	edit := textinput.New()
	edit.CharLimit = 256
	edit.Width = 40

	return Model{
		store:     st,
		keys:      keys,
		logger:    logger,
		view:      v,
		mode:      modeList,
		text:      text,
		due:       due,
		priority:  task.PriorityLow,
		editInput: edit,
		status:    fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", keys.Add, keys.Delete),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.alert != "" {
			// Blocking notice: the key only dismisses it.
			m.alert = ""
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeEdit:
			return m.updateEditMode(msg)
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		w := msg.Width - 14
		if w > 10 {
			m.text.Width = w
			m.editInput.Width = w
		}
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.keys.Quit:
		return m, tea.Quit
	case m.keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.view.Items))
	case m.keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.view.Items))
	case m.keys.Add:
		m.mode = modeAdd
		m.field = fieldText
		m.focusField()
		m.status = "Add mode: type a task, tab to move between fields, enter to add"
	case m.keys.Toggle:
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.apply(m.store.Toggle(item.ID)) {
			m.status = "Toggled task"
		}
	case m.keys.Delete:
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.apply(m.store.Delete(item.ID)) {
			m.status = "Deleted task"
		}
	case m.keys.Edit:
		item, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.beginEdit(item)
	case m.keys.FilterAll:
		return m.setFilter(task.FilterAll)
	case m.keys.FilterActive:
		return m.setFilter(task.FilterActive)
	case m.keys.FilterCompleted:
		return m.setFilter(task.FilterCompleted)
	}
	return m, nil
}

func (m Model) setFilter(f task.Filter) (tea.Model, tea.Cmd) {
	v, err := m.store.SetFilter(string(f))
	var fe task.InvalidFilterError
	if errors.As(err, &fe) {
		m.status = err.Error()
		return m, nil
	}
	m.cursor = 0
	if m.apply(v, err) {
		m.status = "Showing " + string(f)
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case m.keys.Cancel:
		m.mode = modeList
		m.resetForm()
		m.status = "Cancelled"
		return m, nil
	case m.keys.NextField:
		m.field = (m.field + 1) % fieldCount
		m.focusField()
		return m, nil
	case "shift+tab":
		m.field = (m.field + fieldCount - 1) % fieldCount
		m.focusField()
		return m, nil
	case m.keys.Confirm:
		return m.submitAdd()
	}

	if m.field == fieldPriority {
		switch key {
		case m.keys.PriorityUp, "right", "l", "up", "k":
			m.priority = m.priority.Next()
		case m.keys.PriorityDown, "left", "h", "down", "j":
			m.priority = m.priority.Prev()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.field == fieldDue {
		m.due, cmd = m.due.Update(msg)
	} else {
		m.text, cmd = m.text.Update(msg)
	}
	return m, cmd
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	if strings.TrimSpace(m.text.Value()) == "" {
		m.alert = task.EmptyTextError{}.Error()
		return m, nil
	}
	due, err := task.ParseDueDate(m.due.Value())
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	created, v, err := m.store.Add(m.text.Value(), m.priority, due)
	if m.apply(v, err) {
		m.status = "Added task"
	}
	m.resetForm()
	m.mode = modeList
	if i := indexOf(m.view.Items, created.ID); i >= 0 {
		m.cursor = i
	}
	return m, nil
}

func (m *Model) resetForm() {
	m.text.SetValue("")
	m.due.SetValue("")
	m.priority = task.PriorityLow
	m.field = fieldText
	m.text.Blur()
	m.due.Blur()
}

func (m *Model) focusField() {
	m.text.Blur()
	m.due.Blur()
	switch m.field {
	case fieldText:
		m.text.Focus()
	case fieldDue:
		m.due.Focus()
	}
}

func (m Model) beginEdit(item store.Item) (tea.Model, tea.Cmd) {
	m.edit = &editState{taskID: item.ID}
	m.editInput.SetValue(item.Text)
	m.editInput.CursorEnd()
	m.editInput.Focus()
	m.mode = modeEdit
	m.status = "Editing: enter to save, esc or tab to leave (also saves)"
	return m, nil
}

// Leaving the field by any route commits, mirroring a blur.
func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.keys.Confirm, m.keys.Cancel, m.keys.NextField:
		return m.commitEdit(), nil
	case "up", "down":
		m = m.commitEdit()
		return m.updateListMode(msg.String())
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m Model) commitEdit() Model {
	if m.edit == nil {
		m.mode = modeList
		return m
	}
	id := m.edit.taskID
	if m.apply(m.store.EditText(id, m.editInput.Value())) {
		m.status = "Task updated"
	}
	m.edit = nil
	m.editInput.Blur()
	m.editInput.SetValue("")
	m.mode = modeList
	if i := indexOf(m.view.Items, id); i >= 0 {
		m.cursor = i
	}
	return m
}

// apply takes the view rendered by a store operation. A persist failure is
// shown on the status line; the in-memory change stands.
func (m *Model) apply(v store.View, err error) bool {
	m.view = v
	m.cursor = clampCursor(m.cursor, len(v.Items))
	if err != nil {
		m.logger.Error("operation failed", "err", err)
		m.status = fmt.Sprintf("save failed: %v", err)
		return false
	}
	return true
}

func (m Model) selected() (store.Item, bool) {
	if len(m.view.Items) == 0 {
		return store.Item{}, false
	}
	return m.view.Items[clampCursor(m.cursor, len(m.view.Items))], true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Todo List"))
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	if m.view.Empty() {
		b.WriteString(placeholderStyle.Render(m.view.Placeholder))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	b.WriteString(counterStyle.Render(m.view.CountLabel))
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString("\n")
		b.WriteString(m.renderForm())
	}

	if m.alert != "" {
		b.WriteString("\n")
		b.WriteString(alertStyle.Render(m.alert + "  (press any key)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.keys))

	return b.String()
}

func (m Model) renderFilters() string {
	names := map[task.Filter]string{
		task.FilterAll:       "All",
		task.FilterActive:    "Active",
		task.FilterCompleted: "Completed",
	}
	keys := map[task.Filter]string{
		task.FilterAll:       m.keys.FilterAll,
		task.FilterActive:    m.keys.FilterActive,
		task.FilterCompleted: m.keys.FilterCompleted,
	}
	parts := make([]string, 0, 3)
	for _, f := range task.Filters() {
		if f == m.view.Filter {
			parts = append(parts, activeFilterStyle.Render(fmt.Sprintf("[%s:%s]", keys[f], names[f])))
		} else {
			parts = append(parts, filterStyle.Render(fmt.Sprintf(" %s:%s ", keys[f], names[f])))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, it := range m.view.Items {
		cursor := " "
		if m.cursor == i && m.mode != modeAdd {
			cursor = ">"
		}

		checkbox := "[ ]"
		if it.Completed {
			checkbox = "[x]"
		}

		var text string
		switch {
		case m.mode == modeEdit && m.edit != nil && m.edit.taskID == it.ID:
			text = m.editInput.View()
		case it.Completed:
			text = checkedStyle.Render(it.Text)
		case it.Overdue:
			text = overdueStyle.Render(it.Text)
		default:
			text = it.Text
		}

		row := fmt.Sprintf("%s %s %s  %s", cursor, checkbox, text, priorityBadge(it.Priority))
		if it.Due != "" {
			row += "  " + dueStyle.Render(it.Due)
		}
		if it.Overdue {
			row += "  " + overdueStyle.Render("overdue")
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderForm() string {
	label := func(f formField, s string) string {
		if m.field == f {
			return focusedLabelStyle.Render("> " + s)
		}
		return labelStyle.Render("  " + s)
	}
	var b strings.Builder
	b.WriteString(label(fieldText, "Task"))
	b.WriteString(m.text.View())
	b.WriteString("\n")
	b.WriteString(label(fieldPriority, "Priority"))
	b.WriteString(fmt.Sprintf("< %s >", priorityBadge(m.priority)))
	b.WriteString("\n")
	b.WriteString(label(fieldDue, "Due"))
	b.WriteString(m.due.View())
	b.WriteString("\n")
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • space toggle • %s delete • %s edit • %s/%s/%s filter • %s quit",
		k.Up, k.Down, k.Add, k.Delete, k.Edit, k.FilterAll, k.FilterActive, k.FilterCompleted, k.Quit)
}

func indexOf(items []store.Item, id int64) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
