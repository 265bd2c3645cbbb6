package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickagee13/pantry-path/internal/models"
)

func TestNotifierShowsOneAtATime(t *testing.T) {
	n := NewNotifier()

	n.Show("first", models.KindAdded, nil)
	n.Show("second", models.KindRemoved, nil)

	current, visible := n.Current()
	require.True(t, visible)
	assert.Equal(t, "second", current.Message)
	assert.Equal(t, models.KindRemoved, current.Kind)
}

func TestNotifierSupersedeInvalidatesUndo(t *testing.T) {
	n := NewNotifier()

	var fired bool
	n.Show("first", models.KindRemoved, func() error {
		fired = true
		return nil
	})
	n.Show("second", models.KindAdded, nil)

	ran, err := n.Undo()
	assert.False(t, ran)
	assert.NoError(t, err)
	assert.False(t, fired, "a superseded undo must never fire")
}

func TestNotifierUndoIsOneShot(t *testing.T) {
	n := NewNotifier()

	calls := 0
	n.Show("removed", models.KindRemoved, func() error {
		calls++
		return nil
	})

	ran, err := n.Undo()
	require.True(t, ran)
	require.NoError(t, err)

	ran, err = n.Undo()
	assert.False(t, ran)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, visible := n.Current()
	assert.False(t, visible, "undo dismisses the notification")
}

func TestNotifierDismissInvalidatesUndo(t *testing.T) {
	n := NewNotifier()

	n.Show("removed", models.KindRemoved, func() error {
		t.Fatal("undo fired after dismiss")
		return nil
	})
	n.Dismiss()

	_, visible := n.Current()
	assert.False(t, visible)

	ran, _ := n.Undo()
	assert.False(t, ran)
}

func TestNotifierTimeouts(t *testing.T) {
	plain := models.Notification{Message: "x", Kind: models.KindAdded}
	assert.Equal(t, models.NotificationTimeout, plain.Timeout())

	withUndo := models.Notification{Message: "x", Kind: models.KindRemoved, Undo: func() error { return nil }}
	assert.Equal(t, models.NotificationUndoTimeout, withUndo.Timeout(), "undoable notifications stay up longer")
}

func TestShowErrorHasNoUndo(t *testing.T) {
	n := NewNotifier()
	n.ShowError("failed")

	current, visible := n.Current()
	require.True(t, visible)
	assert.Equal(t, models.KindError, current.Kind)
	assert.Nil(t, current.Undo)
}
