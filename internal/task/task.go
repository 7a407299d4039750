// Package task defines the task record and its small value types.
package task

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date form used for due dates.
const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities returns every level, lowest first.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if p == "" {
		return PriorityLow, nil
	}
	if !IsValidPriority(p) {
		return "", InvalidPriorityError{Value: v}
	}
	return p, nil
}

// Next cycles to the following level, wrapping from high back to low.
func (p Priority) Next() Priority {
	levels := Priorities()
	for i, l := range levels {
		if l == p {
			return levels[(i+1)%len(levels)]
		}
	}
	return PriorityLow
}

func (p Priority) Prev() Priority {
	levels := Priorities()
	for i, l := range levels {
		if l == p {
			return levels[(i+len(levels)-1)%len(levels)]
		}
	}
	return PriorityLow
}

// Task is one to-do item. The json tags are the persisted layout.
type Task struct {
	ID        int64    `json:"id" yaml:"id"`
	Text      string   `json:"text" yaml:"text"`
	Priority  Priority `json:"priority" yaml:"priority"`
	DueDate   string   `json:"dueDate" yaml:"due_date,omitempty"`
	Completed bool     `json:"completed" yaml:"completed"`
}

func (t Task) HasDueDate() bool {
	return strings.TrimSpace(t.DueDate) != ""
}

// Due parses DueDate as a local calendar date.
func (t Task) Due() (time.Time, bool) {
	if !t.HasDueDate() {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(t.DueDate), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Overdue reports whether an open task's due date falls strictly before
// the calendar day of now. Time of day is ignored.
func (t Task) Overdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	return due.Before(StartOfDay(now))
}

func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// ParseDueDate validates a YYYY-MM-DD string. Empty input means no due date.
func ParseDueDate(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	if _, err := time.Parse(DateLayout, v); err != nil {
		return "", InvalidDueDateError{Value: v}
	}
	return v, nil
}
