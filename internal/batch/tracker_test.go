package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	t.Run("zero value is ready", func(t *testing.T) {
		var tr Tracker
		assert.False(t, tr.Busy())
		assert.Equal(t, Ready, tr.State(ActionApprove))
	})

	t.Run("second submit while loading is refused", func(t *testing.T) {
		var tr Tracker
		assert.True(t, tr.Begin(ActionApprove))
		assert.Equal(t, Loading, tr.State(ActionApprove))

		assert.False(t, tr.Begin(ActionApprove))
		assert.False(t, tr.Begin(ActionMerge))
		assert.False(t, tr.Begin(ActionSearch))
		assert.Equal(t, Ready, tr.State(ActionMerge))
	})

	t.Run("finish always returns to ready", func(t *testing.T) {
		var tr Tracker
		tr.Begin(ActionMerge)
		tr.Finish(ActionMerge)
		assert.Equal(t, Ready, tr.State(ActionMerge))
		assert.True(t, tr.Begin(ActionSearch))
	})
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, ActionApprove, ActionFor(Approve))
	assert.Equal(t, ActionMerge, ActionFor(Merge))
}
