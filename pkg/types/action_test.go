package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNotesAction(t *testing.T) {
	a := NewNotesAction("abc")
	assert.Equal(t, NotesActionIcon, a.Icon)
	assert.Equal(t, Intent{Command: "notes", Args: []string{"abc"}}, a.Intent)
}

func TestActionsFor(t *testing.T) {
	assert.Empty(t, ActionsFor(&Task{TaskID: "a", Title: "no notes"}))

	actions := ActionsFor(&Task{TaskID: "b", Title: "with notes", Notes: "remember the receipt"})
	assert.Equal(t, []TaskAction{NewNotesAction("b")}, actions)
}
