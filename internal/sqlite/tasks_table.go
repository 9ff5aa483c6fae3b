package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/mesh-intelligence/taskshelf/pkg/qb"
	"github.com/mesh-intelligence/taskshelf/pkg/types"
)

// TasksTable reads and writes tasks. Reads are expressed as qb queries and
// hydrated by result column name.
type TasksTable struct {
	backend *Backend
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// AllTasks returns a query selecting every task column from the tasks table.
func AllTasks() *qb.Query {
	return qb.Select(types.TaskColumns...).From(types.TasksTable)
}

// Get retrieves a task by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if no task has that ID.
func (t *TasksTable) Get(id string) (*types.Task, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, unlock, err := t.backend.read()
	if err != nil {
		return nil, err
	}
	defer unlock()
	return getTask(db, id)
}

func getTask(db queryer, id string) (*types.Task, error) {
	tasks, err := fetchTasks(db, AllTasks().Where(types.TaskID.Eq(id)).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	if len(tasks) == 0 {
		return nil, types.ErrNotFound
	}
	return tasks[0], nil
}

// Set creates or updates a task. An empty id creates a task with a new
// UUID v7. CreatedAt is stamped on creation and UpdatedAt on every call.
// Returns the ID used.
func (t *TasksTable) Set(id string, task *types.Task) (string, error) {
	if task == nil {
		return "", types.ErrInvalidData
	}
	if err := task.Validate(); err != nil {
		return "", err
	}
	db, unlock, err := t.backend.write()
	if err != nil {
		return "", err
	}
	defer unlock()

	now := time.Now()
	if id == "" {
		id = newUUID()
		task.CreatedAt = now
	} else if task.CreatedAt.IsZero() {
		existing, err := getTask(db, id)
		switch {
		case err == nil:
			task.CreatedAt = existing.CreatedAt
		case errors.Is(err, types.ErrNotFound):
			task.CreatedAt = now
		default:
			return "", err
		}
	}
	task.TaskID = id
	task.UpdatedAt = now

	if err := upsertTask(db, task); err != nil {
		return "", err
	}
	t.backend.log.Debug().Str("task", id).Msg("saved task")
	return id, nil
}

// Delete removes a task.
// Returns ErrInvalidID if id is empty, ErrNotFound if no task has that ID.
func (t *TasksTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, unlock, err := t.backend.write()
	if err != nil {
		return err
	}
	defer unlock()

	res, err := db.Exec("DELETE FROM tasks WHERE task_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch runs q and hydrates each row into a Task. Columns are matched by the
// names of q.Fields(); a SELECT * query uses the result-set column names.
// Columns that are not task columns are ignored.
func (t *TasksTable) Fetch(q *qb.Query) ([]*types.Task, error) {
	db, unlock, err := t.backend.read()
	if err != nil {
		return nil, err
	}
	defer unlock()
	return fetchTasks(db, q)
}

// FetchFilter runs a saved filter's template against the tasks table.
func (t *TasksTable) FetchFilter(f types.Filter) ([]*types.Task, error) {
	tasks, err := t.Fetch(AllTasks().WithQueryTemplate(f.Template))
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", f.Name, err)
	}
	return tasks, nil
}

// Resolve answers a content-provider style request where the selection,
// group-by and sort order arrive as separate SQL fragments. An empty
// projection selects every task column.
func (t *TasksTable) Resolve(projection []qb.Field, selection, groupBy, order string) ([]*types.Task, error) {
	if len(projection) == 0 {
		projection = types.TaskColumns
	}
	q := qb.Select(projection...).From(types.TasksTable)
	if selection != "" {
		q.Where(qb.Raw(selection))
	}
	if groupBy != "" {
		q.GroupBy(qb.NewExpr(groupBy))
	}
	if order != "" {
		q.OrderBy(qb.OrderRaw(order))
	}
	return t.Fetch(q)
}

// FetchTemplate splits a query template into its clauses and resolves them.
// Clauses other than WHERE, GROUP BY and ORDER BY, such as LIMIT, are dropped.
func (t *TasksTable) FetchTemplate(template string) ([]*types.Task, error) {
	c := qb.ExtractClauses(template)
	return t.Resolve(types.TaskColumns, c.Selection, c.GroupBy, c.Order)
}

// ExportJSONL writes every task, oldest first, to path atomically.
func (t *TasksTable) ExportJSONL(path string) error {
	tasks, err := t.Fetch(AllTasks().OrderBy(qb.Asc(types.TaskCreatedAt), qb.Asc(types.TaskID)))
	if err != nil {
		return err
	}
	records := make([]json.RawMessage, 0, len(tasks))
	for _, task := range tasks {
		data, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("marshaling task %s: %w", task.TaskID, err)
		}
		records = append(records, data)
	}
	return writeJSONL(path, records)
}

// MergeJSONL imports tasks from path. A task is written when it is new or
// its UpdatedAt is later than the local copy. Returns the number of tasks
// written. A missing file merges nothing.
func (t *TasksTable) MergeJSONL(path string) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}
	incoming := make([]*types.Task, 0, len(records))
	for _, rec := range records {
		var task types.Task
		if err := json.Unmarshal(rec, &task); err != nil {
			continue
		}
		if task.TaskID == "" || task.Validate() != nil {
			continue
		}
		incoming = append(incoming, &task)
	}

	db, unlock, err := t.backend.write()
	if err != nil {
		return 0, err
	}
	defer unlock()

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning merge: %w", err)
	}
	defer tx.Rollback()

	var written int
	for _, task := range incoming {
		local, err := getTask(tx, task.TaskID)
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			return 0, err
		}
		if local != nil && !task.UpdatedAt.After(local.UpdatedAt) {
			continue
		}
		if err := upsertTask(tx, task); err != nil {
			return 0, err
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing merge: %w", err)
	}
	t.backend.log.Debug().Str("path", path).Int("written", written).Msg("merged tasks")
	return written, nil
}

func upsertTask(db queryer, task *types.Task) error {
	_, err := db.Exec(
		`INSERT INTO tasks (task_id, title, notes, importance, due_at, completed_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(task_id) DO UPDATE SET
    title = excluded.title,
    notes = excluded.notes,
    importance = excluded.importance,
    due_at = excluded.due_at,
    completed_at = excluded.completed_at,
    created_at = excluded.created_at,
    updated_at = excluded.updated_at`,
		task.TaskID, task.Title, task.Notes, task.Importance,
		toMillis(task.DueAt), toMillis(task.CompletedAt),
		toMillis(task.CreatedAt), toMillis(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("writing task %s: %w", task.TaskID, err)
	}
	return nil
}

func fetchTasks(db queryer, q *qb.Query) ([]*types.Task, error) {
	text, err := q.Build()
	if err != nil {
		return nil, fmt.Errorf("building task query: %w", err)
	}
	rows, err := db.Query(text)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	names := lo.Map(q.Fields(), func(f qb.Field, _ int) string { return qb.FieldName(f) })
	if len(names) == 0 {
		if names, err = rows.Columns(); err != nil {
			return nil, fmt.Errorf("reading task columns: %w", err)
		}
	}

	tasks := []*types.Task{}
	values := make([]any, len(names))
	ptrs := lo.Map(values, func(_ any, i int) any { return &values[i] })
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, hydrateTask(names, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func hydrateTask(names []string, values []any) *types.Task {
	var task types.Task
	for i, name := range names {
		v := values[i]
		switch name {
		case types.TaskID.Name():
			task.TaskID = toString(v)
		case types.TaskTitle.Name():
			task.Title = toString(v)
		case types.TaskNotes.Name():
			task.Notes = toString(v)
		case types.TaskImportance.Name():
			task.Importance = int(toInt64(v))
		case types.TaskDueAt.Name():
			task.DueAt = fromMillis(toInt64(v))
		case types.TaskCompletedAt.Name():
			task.CompletedAt = fromMillis(toInt64(v))
		case types.TaskCreatedAt.Name():
			task.CreatedAt = fromMillis(toInt64(v))
		case types.TaskUpdatedAt.Name():
			task.UpdatedAt = fromMillis(toInt64(v))
		}
	}
	return &task
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// read takes the backend read lock and returns the database and the matching
// unlock. Returns ErrDetached when the backend is not attached.
func (b *Backend) read() (*sql.DB, func(), error) {
	b.mu.RLock()
	if !b.attached {
		b.mu.RUnlock()
		return nil, nil, types.ErrDetached
	}
	return b.db, b.mu.RUnlock, nil
}

// write is read with the exclusive lock.
func (b *Backend) write() (*sql.DB, func(), error) {
	b.mu.Lock()
	if !b.attached {
		b.mu.Unlock()
		return nil, nil, types.ErrDetached
	}
	return b.db, b.mu.Unlock, nil
}
