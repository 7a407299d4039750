package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticklist/internal/output"
	"ticklist/internal/task"
)

func TestOpenAppCreatesConfigAndPersists(t *testing.T) {
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.toml")
	t.Cleanup(func() { configPath = "" })

	a, err := openApp()
	require.NoError(t, err)
	_, err = a.store.Load()
	require.NoError(t, err)
	created, _, err := a.store.Add("Buy milk", task.PriorityLow, "")
	require.NoError(t, err)
	a.Close()

	_, err = os.Stat(configPath)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "todo.db"))
	require.NoError(t, err)

	a, err = openApp()
	require.NoError(t, err)
	defer a.Close()
	_, err = a.store.Load()
	require.NoError(t, err)
	require.Len(t, a.store.Tasks(), 1)
	assert.Equal(t, created, a.store.Tasks()[0])
}

func TestOpenAppRejectsBrokenConfig(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "config.toml")
	t.Cleanup(func() { configPath = "" })
	require.NoError(t, os.WriteFile(configPath, []byte("db_path = ["), 0o644))

	_, err := openApp()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

type exitCode int

func TestFailClosesAppBeforeExit(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "config.toml")
	formatter = output.New("human")
	exit = func(code int) { panic(exitCode(code)) }
	t.Cleanup(func() {
		configPath = ""
		exit = os.Exit
	})

	a := loadedApp()
	func() {
		defer func() {
			assert.Equal(t, exitCode(1), recover())
		}()
		existingTask(a, 42)
	}()
	assert.Empty(t, a.closers)

	_, _, err := a.store.Add("after close", task.PriorityLow, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is closed")

	a.Close()
}
