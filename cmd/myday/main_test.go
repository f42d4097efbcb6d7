package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"myday/internal/clock"
	"myday/internal/config"
	"myday/internal/storage"
	"myday/internal/task"
)

func run(t *testing.T, cfgPath string, args ...string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	require.NoError(t, cmd.Execute())
	return out.String(), errOut.String()
}

func TestCLIPersistsAcrossInvocations(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	out, _ := run(t, cfgPath, "list")
	assert.Contains(t, out, "#1 Design new landing page")
	assert.Contains(t, out, "#6 Review pull requests")

	out, _ = run(t, cfgPath, "add", "Renew", "passport", "--due", "2099-01-01", "--priority", "high", "--tag", "Admin")
	assert.Contains(t, out, "Added task #")

	out, _ = run(t, cfgPath, "list", "--search", "passport")
	assert.Contains(t, out, "Renew passport  (admin, high, Jan 1)")

	run(t, cfgPath, "done", "1", "2")
	run(t, cfgPath, "star", "6")
	run(t, cfgPath, "rm", "3", "404")

	out, _ = run(t, cfgPath, "list", "--status", "done")
	assert.Contains(t, out, "[x]* #1")
	assert.Contains(t, out, "[x]* #2")
	assert.NotContains(t, out, "#4")

	out, _ = run(t, cfgPath, "list", "--page", "important")
	assert.Contains(t, out, "#6 Review pull requests")
	assert.NotContains(t, out, "Buy groceries")

	out, _ = run(t, cfgPath, "list", "--page", "planned")
	assert.Contains(t, out, "Overdue (2)")
	assert.Contains(t, out, "This Week (1)")

	out, _ = run(t, cfgPath, "stats", "--page", "all-tasks")
	assert.Contains(t, out, "All Tasks: 2 of 6 completed (33%)")
	assert.Contains(t, out, "Important: 4 tasks starred")
	assert.Contains(t, out, "Planned: 6 tasks scheduled")
}

func TestCLIEdit(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	out, _ := run(t, cfgPath, "edit", "5", "--title", "Front End Campus talk", "--due", "")
	assert.Contains(t, out, "Updated task #5")

	out, _ = run(t, cfgPath, "list", "--search", "talk")
	assert.Contains(t, out, "#5 Front End Campus talk  (work, medium, No date)")

	out, _ = run(t, cfgPath, "edit", "999", "--title", "x")
	assert.Contains(t, out, "No task #999")
}

func TestCLIRejectsBadInput(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	for _, args := range [][]string{
		{"add", "   "},
		{"add", "x", "--priority", "urgent"},
		{"add", "x", "--due", "tomorrow"},
		{"list", "--page", "inbox"},
		{"done", "abc"},
	} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
		assert.Error(t, cmd.Execute(), "args %v", args)
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("#42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("forty-two")
	assert.Error(t, err)
}

// flakyKV fails the first failGets reads and then defers to KV.
type flakyKV struct {
	storage.KV
	failGets int
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGets > 0 {
		f.failGets--
		return nil, false, errors.New("database is locked")
	}
	return f.KV.Get(ctx, key)
}

func newTestApp(warn *bytes.Buffer) *app {
	return &app{
		cfg:    config.Config{StorageKey: task.StorageKey},
		clock:  clock.At(2026, time.October, 18),
		logger: zap.NewNop(),
		warn:   warn,
	}
}

func savedTitles(t *testing.T, kv storage.KV) []string {
	t.Helper()
	data, ok, err := kv.Get(context.Background(), task.StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	tasks, err := task.Decode(data)
	require.NoError(t, err)
	titles := make([]string, 0, len(tasks))
	for _, tk := range tasks {
		titles = append(titles, tk.Title)
	}
	return titles
}

func TestReadFailureKeepsSavedTasks(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	first := newTestApp(&bytes.Buffer{})
	require.NoError(t, first.load(ctx, mem, true))
	for _, title := range []string{"Pay rent", "Call mom", "Book dentist"} {
		_, err := first.store.Create(ctx, task.Draft{Title: title})
		require.NoError(t, err)
	}
	require.Len(t, savedTitles(t, mem), 9)

	flaky := &flakyKV{KV: mem, failGets: 1}
	err := newTestApp(&bytes.Buffer{}).load(ctx, flaky, true)
	require.Error(t, err)
	assert.True(t, task.IsReadFailure(err))
	assert.Len(t, savedTitles(t, mem), 9)

	next := newTestApp(&bytes.Buffer{})
	require.NoError(t, next.load(ctx, flaky, true))
	_, err = next.store.Create(ctx, task.Draft{Title: "Water plants"})
	require.NoError(t, err)

	titles := savedTitles(t, mem)
	assert.Len(t, titles, 10)
	assert.Subset(t, titles, []string{"Pay rent", "Call mom", "Book dentist", "Water plants"})
}

func TestReadOnlyLoadWarnsOnReadFailure(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	first := newTestApp(&bytes.Buffer{})
	require.NoError(t, first.load(ctx, mem, true))
	_, err := first.store.Create(ctx, task.Draft{Title: "Pay rent"})
	require.NoError(t, err)

	var warn bytes.Buffer
	a := newTestApp(&warn)
	require.NoError(t, a.load(ctx, &flakyKV{KV: mem, failGets: 1}, false))
	assert.Contains(t, warn.String(), "warning:")
	assert.Equal(t, 6, a.store.Len())
	assert.Len(t, savedTitles(t, mem), 7)
}

func TestOpenAppUnknownBackend(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("backend = \"bogus\"\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "list"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}
