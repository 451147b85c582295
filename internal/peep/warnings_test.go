package peep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/world"
)

func guestsThinking(t *testing.T, w *World, n int, th ThoughtType) {
	t.Helper()
	for i := 0; i < n; i++ {
		p := testGuest(t, w, world.TileCoord{X: 1 + i%6, Y: 1 + i/6})
		p.InsertNewThought(th, ThoughtItemNone)
	}
}

func TestHungerWarningRaisedAndThrottled(t *testing.T) {
	w := bareWorld(t, 8)
	guestsThinking(t, w, HungerWarningThreshold, ThoughtHungry)

	w.ProblemWarningsUpdate()
	notices := w.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, WarningHungry, notices[0].Warning)

	for i := 0; i < warningThrottleTicks; i++ {
		w.ProblemWarningsUpdate()
	}
	assert.Len(t, w.Notices(), 1)

	w.ProblemWarningsUpdate()
	assert.Len(t, w.Notices(), 2)

	w.ResetWarnings()
	assert.Empty(t, w.Notices())
}

func TestWarningNeedsEnoughComplaints(t *testing.T) {
	w := bareWorld(t, 8)
	guestsThinking(t, w, HungerWarningThreshold-1, ThoughtHungry)
	w.ProblemWarningsUpdate()
	assert.Empty(t, w.Notices())
}

func TestWarningScalesWithPark(t *testing.T) {
	w := bareWorld(t, 8)
	guestsThinking(t, w, LitterWarningThreshold, ThoughtBadLitter)
	w.GuestsInPark = 32 * (LitterWarningThreshold + 1)
	w.ProblemWarningsUpdate()
	assert.Empty(t, w.Notices())

	w.GuestsInPark = 32 * LitterWarningThreshold
	w.ProblemWarningsUpdate()
	require.Len(t, w.Notices(), 1)
	assert.Equal(t, WarningLitter, w.Notices()[0].Warning)
}

func TestStaleComplaintsIgnored(t *testing.T) {
	w := bareWorld(t, 8)
	guestsThinking(t, w, LostWarningThreshold, ThoughtLost)
	w.Pool.Each(func(p *Peep) { p.Thoughts[0].Freshness = freshComplaint + 1 })
	w.ProblemWarningsUpdate()
	assert.Empty(t, w.Notices())

	w.Pool.Each(func(p *Peep) { p.Thoughts[0].Freshness = 1 })
	w.ProblemWarningsUpdate()
	require.Len(t, w.Notices(), 1)
	assert.Equal(t, "Guests are lost in the park", w.Notices()[0].Message)
}

func TestDrainNoticesKeepsThrottle(t *testing.T) {
	w := bareWorld(t, 8)
	guestsThinking(t, w, ThirstWarningThreshold, ThoughtThirsty)
	w.ProblemWarningsUpdate()
	drained := w.DrainNotices()
	require.Len(t, drained, 1)
	assert.Equal(t, WarningThirsty, drained[0].Warning)
	assert.Empty(t, w.Notices())

	w.ProblemWarningsUpdate()
	assert.Empty(t, w.Notices())
}
