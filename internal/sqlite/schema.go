package sqlite

// Schema DDL. Every statement is idempotent so Attach can run it against an
// existing database.
const (
	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    task_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    importance INTEGER NOT NULL DEFAULT 3,
    due_at INTEGER NOT NULL DEFAULT 0,
    completed_at INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);`

	createPreferences = `CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    value TEXT NOT NULL
);`
)

// Index DDL for the built-in filters.
const (
	idxTasksCompleted = `CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed_at);`
	idxTasksDue       = `CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_at);`
)

// schemaDDL lists all statements in dependency order.
var schemaDDL = []string{
	createTasks,
	createPreferences,
	idxTasksCompleted,
	idxTasksDue,
}
