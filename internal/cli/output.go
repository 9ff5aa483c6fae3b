package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mesh-intelligence/taskshelf/pkg/types"
)

const dateLayout = "2006-01-02"

// taskView is a task as printed by the CLI, with the row actions attached.
type taskView struct {
	*types.Task
	Actions []types.TaskAction `json:"actions,omitempty"`
}

func viewOf(t *types.Task) taskView {
	return taskView{Task: t, Actions: types.ActionsFor(t)}
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

var importanceMarks = map[int]string{
	types.ImportanceDoOrDie:  "!!!",
	types.ImportanceMustDo:   "!!",
	types.ImportanceShouldDo: "!",
	types.ImportanceNone:     "",
}

// taskLine renders one list row:
//
//	[ ] 0192f1c3-...  !! Pay rent  (due 2026-11-01) ✎
func taskLine(t *types.Task) string {
	var b strings.Builder
	if t.IsCompleted() {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(t.TaskID)
	b.WriteString("  ")
	if mark := importanceMarks[t.Importance]; mark != "" {
		b.WriteString(mark)
		b.WriteString(" ")
	}
	b.WriteString(t.Title)
	if !t.DueAt.IsZero() {
		fmt.Fprintf(&b, "  (due %s)", t.DueAt.Format(dateLayout))
	}
	for _, action := range types.ActionsFor(t) {
		b.WriteString(" ")
		b.WriteString(action.Icon)
	}
	return b.String()
}

func writeTaskDetail(w io.Writer, t *types.Task) {
	fmt.Fprintf(w, "ID:          %s\n", t.TaskID)
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	fmt.Fprintf(w, "Importance:  %d\n", t.Importance)
	if !t.DueAt.IsZero() {
		fmt.Fprintf(w, "Due:         %s\n", t.DueAt.Format(dateLayout))
	}
	if t.IsCompleted() {
		fmt.Fprintf(w, "Completed:   %s\n", humanize.Time(t.CompletedAt))
	}
	fmt.Fprintf(w, "Created:     %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated:     %s\n", humanize.Time(t.UpdatedAt))
	if t.Notes != "" {
		fmt.Fprintf(w, "\nNotes:\n%s\n", t.Notes)
	}
	for _, action := range types.ActionsFor(t) {
		fmt.Fprintf(w, "\n%s %s: taskshelf %s %s\n", action.Icon, action.Label,
			action.Intent.Command, strings.Join(action.Intent.Args, " "))
	}
}

// parseDue parses a YYYY-MM-DD date in local time. An empty string clears
// the due date.
func parseDue(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	due, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, usageErrorf("due date %q is not YYYY-MM-DD", s)
	}
	return due, nil
}

// sinceOrNever humanizes t, or returns "never" for the zero time.
func sinceOrNever(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
