package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticklist/internal/logging"
	"ticklist/internal/storage"
	"ticklist/internal/task"
)

var today = time.Date(2024, 3, 10, 9, 30, 0, 0, time.Local)

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	backend := storage.NewMemory()
	s := New(backend, Options{Clock: task.NewFakeClock(today)})
	_, err := s.Load()
	require.NoError(t, err)
	return s, backend
}

func ids(tasks []task.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func mustAdd(t *testing.T, s *Store, text string) task.Task {
	t.Helper()
	created, _, err := s.Add(text, task.PriorityLow, "")
	require.NoError(t, err)
	return created
}

func TestAddAppendsOpenTask(t *testing.T) {
	s, _ := newTestStore(t)

	created, v, err := s.Add("  Write report ", task.PriorityHigh, "2024-03-12")
	require.NoError(t, err)

	require.Len(t, s.Tasks(), 1)
	got := s.Tasks()[0]
	assert.Equal(t, created, got)
	assert.Equal(t, "Write report", got.Text)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Equal(t, "2024-03-12", got.DueDate)
	assert.False(t, got.Completed)
	assert.NotZero(t, got.ID)

	require.Len(t, v.Items, 1)
	assert.Equal(t, "Mar 12", v.Items[0].Due)
	assert.Equal(t, "1 task left", v.CountLabel)
}

func TestAddEmptyTextIsRejected(t *testing.T) {
	s, backend := newTestStore(t)
	mustAdd(t, s, "keep me")
	before, _, _ := backend.Get(storage.DefaultKey)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, _, err := s.Add(text, task.PriorityLow, "")
		var empty task.EmptyTextError
		require.ErrorAs(t, err, &empty)
	}

	assert.Len(t, s.Tasks(), 1)
	after, _, _ := backend.Get(storage.DefaultKey)
	assert.Equal(t, before, after)
}

func TestAddDefaultsPriorityToLow(t *testing.T) {
	s, _ := newTestStore(t)
	created, _, err := s.Add("x", "", "")
	require.NoError(t, err)
	assert.Equal(t, task.PriorityLow, created.Priority)
}

func TestAddGivesDistinctIDsWithinSameMillisecond(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustAdd(t, s, "a")
	b := mustAdd(t, s, "b")
	c := mustAdd(t, s, "c")

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, b.ID, c.ID)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, ids(s.Tasks()))
}

func TestToggleTwiceRestores(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustAdd(t, s, "a")

	_, err := s.Toggle(a.ID)
	require.NoError(t, err)
	got, _ := s.Get(a.ID)
	assert.True(t, got.Completed)

	_, err = s.Toggle(a.ID)
	require.NoError(t, err)
	got, _ = s.Get(a.ID)
	assert.False(t, got.Completed)
}

func TestToggleUnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	mustAdd(t, s, "a")
	before := s.Tasks()

	_, err := s.Toggle(424242)
	require.NoError(t, err)
	assert.Equal(t, before, s.Tasks())
}

func TestDeleteRemovesOnlyThatID(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustAdd(t, s, "a")
	b := mustAdd(t, s, "b")
	c := mustAdd(t, s, "c")

	_, err := s.Delete(b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, c.ID}, ids(s.Tasks()))

	_, err = s.Delete(999)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, c.ID}, ids(s.Tasks()))
}

func TestEditText(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustAdd(t, s, "Original")

	_, err := s.EditText(a.ID, "")
	require.NoError(t, err)
	got, _ := s.Get(a.ID)
	assert.Equal(t, "Original", got.Text)

	_, err = s.EditText(a.ID, "   ")
	require.NoError(t, err)
	got, _ = s.Get(a.ID)
	assert.Equal(t, "Original", got.Text)

	_, err = s.EditText(a.ID, "  New  ")
	require.NoError(t, err)
	got, _ = s.Get(a.ID)
	assert.Equal(t, "New", got.Text)

	_, err = s.EditText(12345, "ghost")
	require.NoError(t, err)
	assert.Len(t, s.Tasks(), 1)
}

func TestSetFilter(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustAdd(t, s, "a")
	b := mustAdd(t, s, "b")
	c := mustAdd(t, s, "c")
	_, err := s.Toggle(b.ID)
	require.NoError(t, err)

	v, err := s.SetFilter("active")
	require.NoError(t, err)
	assert.Equal(t, task.FilterActive, v.Filter)
	assert.Equal(t, []int64{a.ID, c.ID}, itemIDs(v))

	v, err = s.SetFilter("completed")
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, itemIDs(v))

	v, err = s.SetFilter("all")
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, itemIDs(v))
}

func TestSetFilterRejectsUnknownName(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.SetFilter("active")
	require.NoError(t, err)

	_, err = s.SetFilter("someday")
	var fe task.InvalidFilterError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, task.FilterActive, s.Filter())
}

func TestRenderPlaceholderAndCount(t *testing.T) {
	s, _ := newTestStore(t)

	v, err := s.Render()
	require.NoError(t, err)
	assert.True(t, v.Empty())
	assert.Equal(t, Placeholder, v.Placeholder)
	assert.Equal(t, "0 tasks left", v.CountLabel)

	a := mustAdd(t, s, "a")
	_, v, err = s.Add("b", task.PriorityMedium, "")
	require.NoError(t, err)
	assert.Empty(t, v.Placeholder)
	assert.Equal(t, "2 tasks left", v.CountLabel)

	v, err = s.Toggle(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 task left", v.CountLabel)
	assert.Equal(t, 1, s.ActiveCount())

	v, err = s.SetFilter("completed")
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "1 task left", v.CountLabel, "count covers every task, not just visible ones")
}

func TestRenderMarksOverdue(t *testing.T) {
	s, _ := newTestStore(t)
	late, _, err := s.Add("late", task.PriorityHigh, "2024-03-09")
	require.NoError(t, err)
	_, _, err = s.Add("due today", task.PriorityLow, "2024-03-10")
	require.NoError(t, err)

	v, err := s.Render()
	require.NoError(t, err)
	require.Len(t, v.Items, 2)
	assert.True(t, v.Items[0].Overdue)
	assert.False(t, v.Items[1].Overdue)

	v, err = s.Toggle(late.ID)
	require.NoError(t, err)
	assert.False(t, v.Items[0].Overdue)
}

func TestEveryMutationPersists(t *testing.T) {
	s, backend := newTestStore(t)
	stored := func() []task.Task {
		raw, ok, err := backend.Get(storage.DefaultKey)
		require.NoError(t, err)
		require.True(t, ok)
		out, err := storage.DecodeTasks(raw)
		require.NoError(t, err)
		return out
	}

	a := mustAdd(t, s, "a")
	assert.Equal(t, s.Tasks(), stored())

	_, err := s.Toggle(a.ID)
	require.NoError(t, err)
	assert.True(t, stored()[0].Completed)

	_, err = s.EditText(a.ID, "renamed")
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored()[0].Text)

	_, err = s.Delete(a.ID)
	require.NoError(t, err)
	assert.Empty(t, stored())
}

func TestReloadRoundTrip(t *testing.T) {
	s, backend := newTestStore(t)
	mustAdd(t, s, "one")
	two, _, err := s.Add("two", task.PriorityHigh, "2024-01-01")
	require.NoError(t, err)
	_, err = s.Toggle(two.ID)
	require.NoError(t, err)
	_, _, err = s.Add("three", task.PriorityMedium, "2025-06-30")
	require.NoError(t, err)
	_, err = s.SetFilter("completed")
	require.NoError(t, err)

	reloaded := New(backend, Options{Clock: task.NewFakeClock(today)})
	v, err := reloaded.Load()
	require.NoError(t, err)

	assert.Equal(t, s.Tasks(), reloaded.Tasks())
	assert.Equal(t, task.FilterAll, reloaded.Filter(), "filter is not persisted")
	assert.Len(t, v.Items, 3)
}

func TestReloadSeedsIDs(t *testing.T) {
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(storage.DefaultKey,
		`[{"id":9999999999999,"text":"future","priority":"low","dueDate":"","completed":false}]`))

	s := New(backend, Options{Clock: task.NewFakeClock(today)})
	_, err := s.Load()
	require.NoError(t, err)

	created := mustAdd(t, s, "next")
	assert.Greater(t, created.ID, int64(9999999999999))
}

func TestLoadMalformedStartsEmpty(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":    "{{{",
		"wrong type": `{"tasks":[]}`,
		"bad record": `[{"id":"x","text":"","priority":"low","completed":false}]`,
		"trailing":   `[{"id":1,"text":"a","priority":"low","dueDate":"","completed":false}] }}not json`,
	} {
		t.Run(name, func(t *testing.T) {
			backend := storage.NewMemory()
			require.NoError(t, backend.Set(storage.DefaultKey, raw))

			var logs bytes.Buffer
			s := New(backend, Options{Clock: task.NewFakeClock(today), Logger: logging.New(&logs, "warn")})
			v, err := s.Load()
			require.NoError(t, err)
			assert.Empty(t, s.Tasks())
			assert.Equal(t, Placeholder, v.Placeholder)
			assert.Contains(t, logs.String(), "starting empty")

			stored, _, _ := backend.Get(storage.DefaultKey)
			assert.Equal(t, "[]", stored, "render after load overwrites the bad data")
		})
	}
}

func TestLoadReassignsDuplicateIDs(t *testing.T) {
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(storage.DefaultKey, `[
		{"id":1,"text":"first","priority":"low","dueDate":"","completed":false},
		{"id":2,"text":"second","priority":"low","dueDate":"","completed":false},
		{"id":1,"text":"third","priority":"high","dueDate":"","completed":true}
	]`))

	var logs bytes.Buffer
	s := New(backend, Options{Clock: task.NewFakeClock(today), Logger: logging.New(&logs, "warn")})
	_, err := s.Load()
	require.NoError(t, err)

	got := s.Tasks()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{got[0].Text, got[1].Text, got[2].Text})
	assert.Equal(t, int64(1), got[0].ID)
	assert.NotEqual(t, got[0].ID, got[2].ID)
	assert.NotEqual(t, got[1].ID, got[2].ID)
	assert.Contains(t, logs.String(), "duplicate task id reassigned")

	v, err := s.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, got[2].ID}, itemIDs(v))

	stored, _, _ := backend.Get(storage.DefaultKey)
	decoded, err := storage.DecodeTasks(stored)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, got[2].ID}, ids(decoded))
}

func TestLoadMissingKeyStartsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Empty(t, s.Tasks())
	assert.Equal(t, task.FilterAll, s.Filter())
}

type failingBackend struct {
	*storage.Memory
	getErr error
	setErr error
}

func (f failingBackend) Get(key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Memory.Get(key)
}

func (f failingBackend) Set(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Memory.Set(key, value)
}

func TestLoadReportsBackendFailure(t *testing.T) {
	boom := errors.New("disk gone")
	s := New(failingBackend{Memory: storage.NewMemory(), getErr: boom}, Options{})
	_, err := s.Load()
	require.ErrorIs(t, err, boom)
}

func TestPersistFailureStillReturnsView(t *testing.T) {
	boom := errors.New("read-only")
	s := New(failingBackend{Memory: storage.NewMemory(), setErr: boom}, Options{Clock: task.NewFakeClock(today)})

	_, v, err := s.Add("a", task.PriorityLow, "")
	require.ErrorIs(t, err, boom)
	assert.Len(t, v.Items, 1)
	assert.Len(t, s.Tasks(), 1)
}

func TestStoreOverSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	db, err := storage.Open(path)
	require.NoError(t, err)

	s := New(db, Options{Key: "custom"})
	_, err = s.Load()
	require.NoError(t, err)
	a := mustAdd(t, s, "persisted")
	require.NoError(t, db.Close())

	db, err = storage.Open(path)
	require.NoError(t, err)
	defer db.Close()

	reloaded := New(db, Options{Key: "custom"})
	_, err = reloaded.Load()
	require.NoError(t, err)
	require.Len(t, reloaded.Tasks(), 1)
	assert.Equal(t, a, reloaded.Tasks()[0])
}

func TestEndToEnd(t *testing.T) {
	s, _ := newTestStore(t)

	a, v, err := s.Add("Buy milk", task.PriorityLow, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, ids(s.Tasks()))
	assert.Equal(t, 1, v.Remaining)

	v, err = s.Toggle(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Remaining)
	assert.Equal(t, "0 tasks left", v.CountLabel)

	v, err = s.SetFilter("completed")
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, itemIDs(v))

	v, err = s.Delete(a.ID)
	require.NoError(t, err)
	assert.Empty(t, s.Tasks())
	assert.Equal(t, Placeholder, v.Placeholder)
}

func itemIDs(v View) []int64 {
	out := make([]int64, 0, len(v.Items))
	for _, it := range v.Items {
		out = append(out, it.ID)
	}
	return out
}
