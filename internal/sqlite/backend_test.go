package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskshelf/pkg/types"
)

// setupBackend attaches a Backend to a fresh temp dir and detaches it when
// the test ends.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func setupTasks(t *testing.T) *TasksTable {
	t.Helper()
	tasks, err := setupBackend(t).Tasks()
	require.NoError(t, err)
	return tasks
}

func TestAttach_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(dir, DatabaseFile))
	assert.NoError(t, err)
	assert.Equal(t, dir, b.DataDir())
}

func TestAttach_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr error
	}{
		{name: "empty backend", config: types.Config{DataDir: "x"}, wantErr: types.ErrBackendEmpty},
		{name: "unknown backend", config: types.Config{Backend: "realm"}, wantErr: types.ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, NewBackend().Attach(tt.config), tt.wantErr)
		})
	}
}

func TestAttach_Twice(t *testing.T) {
	b := setupBackend(t)
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestDetach_IdempotentAndBlocksAccess(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	tasks, err := b.Tasks()
	require.NoError(t, err)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())

	_, err = b.Tasks()
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = b.Preferences()
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = tasks.Get("anything")
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = tasks.Set("", types.NewTask("late"))
	assert.ErrorIs(t, err, types.ErrDetached)
}

func TestReattach_KeepsData(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	tasks, err := b.Tasks()
	require.NoError(t, err)
	id, err := tasks.Set("", types.NewTask("Survive restart"))
	require.NoError(t, err)
	p, err := b.Preferences()
	require.NoError(t, err)
	require.NoError(t, p.Edit().PutString("folder_token", "/srv/share").PutInt64("folder_last_sync", 99).PutBool("folder_ongoing", true).Commit())
	require.NoError(t, b.Detach())

	require.NoError(t, b.Attach(cfg))
	defer b.Detach()
	tasks, err = b.Tasks()
	require.NoError(t, err)
	got, err := tasks.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Survive restart", got.Title)

	p, err = b.Preferences()
	require.NoError(t, err)
	token, ok := p.GetString("folder_token")
	assert.True(t, ok)
	assert.Equal(t, "/srv/share", token)
	last, ok := p.GetInt64("folder_last_sync")
	assert.True(t, ok)
	assert.Equal(t, int64(99), last)
	ongoing, ok := p.GetBool("folder_ongoing")
	assert.True(t, ok)
	assert.True(t, ongoing)
}
