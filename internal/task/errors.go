package task

import "fmt"

// EmptyTextError is returned when a task would be created without text.
type EmptyTextError struct{}

func (e EmptyTextError) Error() string {
	return "Please enter a task!"
}

// InvalidPriorityError indicates an unknown priority level.
type InvalidPriorityError struct {
	Value string
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %s (valid: low, medium, high)", e.Value)
}

// InvalidFilterError indicates an unknown filter name.
type InvalidFilterError struct {
	Value string
}

func (e InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter: %s (valid: all, active, completed)", e.Value)
}

// InvalidDueDateError indicates a due date that is not YYYY-MM-DD.
type InvalidDueDateError struct {
	Value string
}

func (e InvalidDueDateError) Error() string {
	return fmt.Sprintf("invalid due date: %s (expected YYYY-MM-DD)", e.Value)
}

// TaskNotFoundError indicates the id matches no task.
type TaskNotFoundError struct {
	ID int64
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %d", e.ID)
}
