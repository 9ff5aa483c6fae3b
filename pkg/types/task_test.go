package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr error
	}{
		{name: "valid", task: Task{Title: "Buy milk", Importance: ImportanceMustDo}},
		{name: "blank title", task: Task{Title: "  "}, wantErr: ErrInvalidTitle},
		{name: "importance too low", task: Task{Title: "x", Importance: -1}, wantErr: ErrInvalidImportance},
		{name: "importance too high", task: Task{Title: "x", Importance: 4}, wantErr: ErrInvalidImportance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask("Water plants")
	assert.Equal(t, "Water plants", task.Title)
	assert.Equal(t, ImportanceNone, task.Importance)
	assert.False(t, task.IsCompleted())
}

func TestTaskCompleteAndReopen(t *testing.T) {
	task := NewTask("Call mom")

	task.Complete()
	require.True(t, task.IsCompleted())
	first := task.CompletedAt

	time.Sleep(time.Millisecond)
	task.Complete()
	assert.Equal(t, first, task.CompletedAt, "completing twice keeps the first time")

	task.Reopen()
	assert.False(t, task.IsCompleted())
	assert.False(t, task.UpdatedAt.IsZero())
}

func TestTaskSetImportance(t *testing.T) {
	task := NewTask("Pay rent")
	require.NoError(t, task.SetImportance(ImportanceDoOrDie))
	assert.Equal(t, ImportanceDoOrDie, task.Importance)

	assert.ErrorIs(t, task.SetImportance(9), ErrInvalidImportance)
	assert.Equal(t, ImportanceDoOrDie, task.Importance)
}

func TestTaskColumnsAreQualified(t *testing.T) {
	assert.Len(t, TaskColumns, 8)
	assert.Equal(t, "tasks.task_id", TaskID.String())
	assert.Equal(t, "due_at", TaskDueAt.Name())
}
