package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskshelf/pkg/qb"
	"github.com/mesh-intelligence/taskshelf/pkg/types"
)

// Task states accepted by list --state.
const (
	stateOpen = "open"
	stateDone = "done"
	stateAll  = "all"
)

// orderColumns maps list --order names to task columns.
var orderColumns = map[string]qb.Column{
	"title":      types.TaskTitle,
	"importance": types.TaskImportance,
	"due":        types.TaskDueAt,
	"created":    types.TaskCreatedAt,
	"updated":    types.TaskUpdatedAt,
	"completed":  types.TaskCompletedAt,
}

// listOptions are the list command flags.
type listOptions struct {
	filter string
	state  string
	search string
	orders []string
	limit  int
	sql    bool
}

func newListCmd(a *app) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks, either through a saved filter (inbox, today, completed) or
by state with an optional title search and ordering.

--order takes a column name (title, importance, due, created, updated,
completed); prefix it with - to sort descending. A saved filter carries its
own ordering, so --filter cannot be combined with --order.`,
		Example: `  taskshelf list --filter today
  taskshelf list --state all --order -updated --limit 5
  taskshelf list --search rent --sql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := buildListQuery(opts, time.Now())
			if err != nil {
				return err
			}
			text, err := q.Build()
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			if opts.sql {
				fmt.Fprintln(a.out(cmd), text)
				return nil
			}

			table, err := a.tasks()
			if err != nil {
				return err
			}
			tasks, err := table.Fetch(q)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			// A saved filter renders as a template, which carries no LIMIT.
			if opts.limit >= 0 && len(tasks) > opts.limit {
				tasks = tasks[:opts.limit]
			}
			a.reportSyncError()

			if a.flags.jsonMode {
				return writeJSON(a.out(cmd), lo.Map(tasks, func(t *types.Task, _ int) taskView { return viewOf(t) }))
			}
			for _, t := range tasks {
				fmt.Fprintln(a.out(cmd), taskLine(t))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.filter, "filter", "", "saved filter (inbox, today, completed)")
	cmd.Flags().StringVar(&opts.state, "state", stateOpen, "task state (open, done, all)")
	cmd.Flags().StringVar(&opts.search, "search", "", "only tasks whose title contains this text")
	cmd.Flags().StringSliceVar(&opts.orders, "order", nil, "sort columns, e.g. importance,-due")
	cmd.Flags().IntVar(&opts.limit, "limit", -1, "maximum number of tasks (-1 for all)")
	cmd.Flags().BoolVar(&opts.sql, "sql", false, "print the SQL instead of running it")
	cmd.MarkFlagsMutuallyExclusive("filter", "state")
	cmd.MarkFlagsMutuallyExclusive("filter", "search")
	return cmd
}

// buildListQuery composes the list query. Orders are applied even alongside
// a saved filter so the builder reports the template conflict.
func buildListQuery(opts listOptions, now time.Time) (*qb.Query, error) {
	q := qb.Select(types.TaskColumns...).From(types.TasksTable).Limit(opts.limit)

	if opts.filter != "" {
		f, err := types.LookupFilter(opts.filter, now)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", opts.filter, err)
		}
		q.WithQueryTemplate(f.Template)
	} else {
		var criteria []qb.Criterion
		switch opts.state {
		case stateOpen:
			criteria = append(criteria, types.TaskCompletedAt.Eq(0))
		case stateDone:
			criteria = append(criteria, types.TaskCompletedAt.Gt(0))
		case stateAll, "":
		default:
			return nil, usageErrorf("state %q is not one of open, done, all", opts.state)
		}
		if opts.search != "" {
			criteria = append(criteria, types.TaskTitle.Like("%"+opts.search+"%"))
		}
		// WHERE criteria are space-separated, so they are combined here.
		if len(criteria) > 0 {
			q.Where(qb.And(criteria...))
		}
		if len(opts.orders) == 0 {
			q.OrderBy(qb.Asc(types.TaskImportance), qb.Asc(types.TaskDueAt), qb.Asc(types.TaskCreatedAt))
		}
	}

	for _, name := range opts.orders {
		order, err := parseOrder(name)
		if err != nil {
			return nil, err
		}
		q.OrderBy(order)
	}
	return q, nil
}

func parseOrder(name string) (qb.Order, error) {
	desc := strings.HasPrefix(name, "-")
	col, ok := orderColumns[strings.TrimPrefix(name, "-")]
	if !ok {
		return qb.Order{}, usageErrorf("cannot order by %q", name)
	}
	if desc {
		return qb.Desc(col), nil
	}
	return qb.Asc(col), nil
}

// reportSyncError surfaces the last folder sync failure on stderr.
func (a *app) reportSyncError() {
	tracker, err := a.tracker()
	if err != nil || !tracker.IsLoggedIn() {
		return
	}
	tracker.ReportLastError()
}
