package types

// Intent names the command invocation that performs a row action.
type Intent struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// TaskAction is a row action shown next to a task in a list: an icon plus
// the intent to run when it is chosen.
type TaskAction struct {
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Intent Intent `json:"intent"`
}

// NotesActionIcon marks tasks that carry notes.
const NotesActionIcon = "✎"

// NewNotesAction returns the action that opens the notes of taskID.
func NewNotesAction(taskID string) TaskAction {
	return TaskAction{
		Label: "notes",
		Icon:  NotesActionIcon,
		Intent: Intent{
			Command: "notes",
			Args:    []string{taskID},
		},
	}
}

// ActionsFor returns the row actions that apply to t.
func ActionsFor(t *Task) []TaskAction {
	var actions []TaskAction
	if t.Notes != "" {
		actions = append(actions, NewNotesAction(t.TaskID))
	}
	return actions
}
