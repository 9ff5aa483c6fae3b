package types

import (
	"errors"
	"strings"
	"time"

	"github.com/mesh-intelligence/taskshelf/pkg/qb"
)

// Importance levels, most urgent first.
const (
	ImportanceDoOrDie = iota
	ImportanceMustDo
	ImportanceShouldDo
	ImportanceNone
)

// Task entity errors.
var (
	ErrInvalidTitle      = errors.New("title must not be empty")
	ErrInvalidImportance = errors.New("importance must be between 0 and 3")
)

// Task is a single to-do item.
type Task struct {
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	Notes       string    `json:"notes,omitempty"`
	Importance  int       `json:"importance"`
	DueAt       time.Time `json:"due_at,omitzero"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Task columns for the query builder. Times are stored as Unix milliseconds,
// 0 meaning unset.
var (
	TasksTable      = qb.NewTable("tasks")
	TaskID          = TasksTable.Col("task_id")
	TaskTitle       = TasksTable.Col("title")
	TaskNotes       = TasksTable.Col("notes")
	TaskImportance  = TasksTable.Col("importance")
	TaskDueAt       = TasksTable.Col("due_at")
	TaskCompletedAt = TasksTable.Col("completed_at")
	TaskCreatedAt   = TasksTable.Col("created_at")
	TaskUpdatedAt   = TasksTable.Col("updated_at")
)

// TaskColumns lists every task column in schema order.
var TaskColumns = []qb.Field{
	TaskID,
	TaskTitle,
	TaskNotes,
	TaskImportance,
	TaskDueAt,
	TaskCompletedAt,
	TaskCreatedAt,
	TaskUpdatedAt,
}

// NewTask returns a task with default importance.
func NewTask(title string) *Task {
	return &Task{Title: title, Importance: ImportanceNone}
}

// Validate checks the fields the store requires.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrInvalidTitle
	}
	if t.Importance < ImportanceDoOrDie || t.Importance > ImportanceNone {
		return ErrInvalidImportance
	}
	return nil
}

// IsCompleted reports whether the task has a completion time.
func (t *Task) IsCompleted() bool {
	return !t.CompletedAt.IsZero()
}

// Complete marks the task done. Completing a done task keeps the original
// completion time.
func (t *Task) Complete() {
	if t.IsCompleted() {
		return
	}
	now := time.Now()
	t.CompletedAt = now
	t.UpdatedAt = now
}

// Reopen clears the completion time.
func (t *Task) Reopen() {
	if !t.IsCompleted() {
		return
	}
	t.CompletedAt = time.Time{}
	t.UpdatedAt = time.Now()
}

// SetImportance sets the importance level.
// Returns ErrInvalidImportance when level is out of range.
func (t *Task) SetImportance(level int) error {
	if level < ImportanceDoOrDie || level > ImportanceNone {
		return ErrInvalidImportance
	}
	t.Importance = level
	t.UpdatedAt = time.Now()
	return nil
}
