// Package store owns the task collection and the current filter. Every
// mutation updates the in-memory list, then renders a fresh View and writes
// the whole collection back to storage.
package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"ticklist/internal/logging"
	"ticklist/internal/storage"
	"ticklist/internal/task"
)

type Options struct {
	// Key is the storage key holding the serialized list.
	Key    string
	IDs    task.IDGenerator
	Clock  task.Clock
	Logger *log.Logger
}

type Store struct {
	backend storage.Backend
	key     string
	tasks   []task.Task
	filter  task.Filter
	ids     task.IDGenerator
	clock   task.Clock
	logger  *log.Logger
}

func New(backend storage.Backend, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = storage.DefaultKey
	}
	if opts.Clock == nil {
		opts.Clock = task.RealClock{}
	}
	if opts.IDs == nil {
		opts.IDs = task.NewClockIDs(opts.Clock)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Store{
		backend: backend,
		key:     opts.Key,
		tasks:   []task.Task{},
		filter:  task.FilterAll,
		ids:     opts.IDs,
		clock:   opts.Clock,
		logger:  opts.Logger,
	}
}

// Load replaces the collection with whatever is stored under the key.
// Missing or unreadable data starts an empty list. The filter goes back to all.
func (s *Store) Load() (View, error) {
	raw, ok, err := s.backend.Get(s.key)
	if err != nil {
		return View{}, fmt.Errorf("read tasks: %w", err)
	}

	tasks := []task.Task{}
	if ok {
		decoded, err := storage.DecodeTasks(raw)
		if err != nil {
			var se *storage.SchemaError
			if errors.As(err, &se) {
				s.logger.Warn("stored tasks failed validation, starting empty", "key", s.key, "problems", len(se.Problems), "err", err)
			} else {
				s.logger.Warn("stored tasks unreadable, starting empty", "key", s.key, "err", err)
			}
		} else {
			tasks = decoded
		}
	}

	s.tasks = tasks
	s.filter = task.FilterAll
	for _, t := range s.tasks {
		s.ids.Seed(t.ID)
	}
	s.reassignDuplicateIDs()
	s.logger.Info("loaded tasks", "key", s.key, "count", len(s.tasks))
	return s.Render()
}

// Add appends a new open task. Whitespace-only text is rejected before
// anything changes.
func (s *Store) Add(text string, priority task.Priority, dueDate string) (task.Task, View, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return task.Task{}, View{}, task.EmptyTextError{}
	}
	if priority == "" {
		priority = task.PriorityLow
	}

	t := task.Task{
		ID:        s.nextID(),
		Text:      text,
		Priority:  priority,
		DueDate:   strings.TrimSpace(dueDate),
		Completed: false,
	}
	s.tasks = append(s.tasks, t)
	s.logger.Debug("added task", "id", t.ID, "priority", t.Priority)

	v, err := s.Render()
	return t, v, err
}

// reassignDuplicateIDs gives every repeated id after its first occurrence a
// fresh one, so lookups by id reach exactly one task.
func (s *Store) reassignDuplicateIDs() {
	seen := make(map[int64]bool, len(s.tasks))
	for i := range s.tasks {
		id := s.tasks[i].ID
		if seen[id] {
			s.tasks[i].ID = s.nextID()
			s.logger.Warn("duplicate task id reassigned", "old", id, "new", s.tasks[i].ID)
		}
		seen[s.tasks[i].ID] = true
	}
}

func (s *Store) nextID() int64 {
	for {
		id := s.ids.Next()
		if s.index(id) < 0 {
			return id
		}
	}
}

// Toggle flips completion on the task with id. Unknown ids change nothing.
func (s *Store) Toggle(id int64) (View, error) {
	if i := s.index(id); i >= 0 {
		s.tasks[i].Completed = !s.tasks[i].Completed
		s.logger.Debug("toggled task", "id", id, "completed", s.tasks[i].Completed)
	}
	return s.Render()
}

func (s *Store) Delete(id int64) (View, error) {
	if i := s.index(id); i >= 0 {
		s.tasks = slices.Delete(s.tasks, i, i+1)
		s.logger.Debug("deleted task", "id", id)
	}
	return s.Render()
}

// EditText replaces a task's text. Blank text leaves the old text in place.
func (s *Store) EditText(id int64, newText string) (View, error) {
	newText = strings.TrimSpace(newText)
	if i := s.index(id); i >= 0 && newText != "" {
		s.tasks[i].Text = newText
		s.logger.Debug("edited task", "id", id)
	}
	return s.Render()
}

func (s *Store) SetFilter(name string) (View, error) {
	f, err := task.ParseFilter(name)
	if err != nil {
		return View{}, err
	}
	s.filter = f
	return s.Render()
}

// Render builds the view for the current filter and then persists the
// entire collection. A persist failure still returns the built view.
func (s *Store) Render() (View, error) {
	v := BuildView(s.tasks, s.filter, s.clock.Now())
	if err := s.save(); err != nil {
		s.logger.Error("save failed", "key", s.key, "err", err)
		return v, err
	}
	return v, nil
}

func (s *Store) save() error {
	raw, err := storage.EncodeTasks(s.tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.backend.Set(s.key, raw); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []task.Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Get(id int64) (task.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) Filter() task.Filter {
	return s.filter
}

func (s *Store) Visible() []task.Task {
	return FilterTasks(s.tasks, s.filter)
}

func (s *Store) ActiveCount() int {
	return ActiveCount(s.tasks)
}
