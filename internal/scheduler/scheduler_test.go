package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
	"github.com/GriffinCanCode/MineBot/bridge/internal/game/gametest"
)

func TestPlan(t *testing.T) {
	interval := 150 * time.Millisecond
	plan := Plan([]string{"a", "b", "c", "d"}, interval)

	require.Len(t, plan, 4)
	for i, item := range plan {
		assert.Equal(t, i, item.Index)
		assert.Equal(t, time.Duration(i)*interval, item.Delay)
		assert.Equal(t, i == 3, item.Last)
		if i > 0 {
			assert.Greater(t, item.Delay, plan[i-1].Delay)
		}
	}
	assert.Equal(t, "d", plan[3].Command)
}

func TestPlanEmpty(t *testing.T) {
	assert.Empty(t, Plan(nil, time.Second))
}

func TestDispatchSubmitsInOrder(t *testing.T) {
	s := New(nil)
	defer s.Stop()
	sink := gametest.NewRecorder()

	commands := []string{"//pos1", "//pos2", "//set stone", "/time set day", "weather clear"}
	_, err := s.Dispatch(Batch{
		Description:   "Stone floor",
		Commands:      commands,
		Interval:      2 * time.Millisecond,
		ProgressEvery: 2,
		Sink:          sink,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(sink.Commands()) == len(commands) }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"/pos1", "/pos2", "/set stone", "time set day", "weather clear"}, sink.Commands())
	assert.Equal(t, []string{"Stone floor (5 commands)"}, sink.Messages(game.SeverityInfo))
	assert.Equal(t, []string{"Progress: 2/5", "Progress: 4/5", "Progress: 5/5"}, sink.Messages(game.SeverityProgress))
	assert.Equal(t, 0, s.Pending())
}

func TestDispatchProgressFollowsCommand(t *testing.T) {
	s := New(nil)
	defer s.Stop()
	sink := gametest.NewRecorder()

	_, err := s.Dispatch(Batch{
		Description:   "Two",
		Commands:      []string{"time set day", "weather clear"},
		Interval:      time.Millisecond,
		ProgressEvery: 10,
		Completion:    "Sequence complete!",
		Sink:          sink,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return sink.Len() == 5 }, time.Second, 5*time.Millisecond)

	events := sink.Events()
	assert.Equal(t, "Two (2 commands)", events[0].Message)
	assert.Equal(t, "time set day", events[1].Command)
	assert.Equal(t, "weather clear", events[2].Command)
	assert.Equal(t, "Progress: 2/2", events[3].Message)
	assert.Equal(t, "Sequence complete!", events[4].Message)
	assert.Equal(t, game.SeveritySuccess, events[4].Severity)
}

func TestDispatchBuildStyle(t *testing.T) {
	s := New(nil)
	defer s.Stop()
	sink := gametest.NewRecorder()

	_, err := s.Dispatch(Batch{
		Announcement: "Building cube (3x3x3)...",
		Commands:     []string{"fill 0 0 0 2 2 2 minecraft:stone"},
		Interval:     time.Millisecond,
		Completion:   "Build complete!",
		Sink:         sink,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return sink.Len() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"Building cube (3x3x3)...", "Build complete!"}, sink.AllMessages())
	assert.Empty(t, sink.Messages(game.SeverityProgress))
}

func TestDispatchSpacing(t *testing.T) {
	s := New(nil)
	defer s.Stop()
	sink := gametest.NewRecorder()

	start := time.Now()
	_, err := s.Dispatch(Batch{
		Description: "Spaced",
		Commands:    []string{"time set day", "time set night", "time set noon"},
		Interval:    20 * time.Millisecond,
		Sink:        sink,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(sink.Commands()) == 3 }, time.Second, 2*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestDispatchConcurrentBatchesKeepOwnOrder(t *testing.T) {
	s := New(nil)
	defer s.Stop()
	first := gametest.NewRecorder()
	second := gametest.NewRecorder()

	a := []string{"give @p a", "give @p b", "give @p c", "give @p d"}
	b := []string{"tp 0 0 0", "tp 1 1 1", "tp 2 2 2"}

	_, err := s.Dispatch(Batch{Description: "a", Commands: a, Interval: 3 * time.Millisecond, Sink: first})
	require.NoError(t, err)
	_, err = s.Dispatch(Batch{Description: "b", Commands: b, Interval: 2 * time.Millisecond, Sink: second})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(first.Commands()) == len(a) && len(second.Commands()) == len(b)
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, a, first.Commands())
	assert.Equal(t, b, second.Commands())
}

func TestDispatchZeroIntervalKeepsOrder(t *testing.T) {
	s := New(nil)
	defer s.Stop()
	sink := gametest.NewRecorder()

	commands := make([]string, 50)
	for i := range commands {
		commands[i] = "setblock " + string(rune('a'+i%26))
	}
	_, err := s.Dispatch(Batch{Description: "burst", Commands: commands, Sink: sink})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(sink.Commands()) == 50 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, commands, sink.Commands())
}

func TestDispatchSinkFailureDoesNotStopBatch(t *testing.T) {
	s := New(nil)
	defer s.Stop()
	sink := gametest.NewRecorder()
	sink.FailWrites()

	_, err := s.Dispatch(Batch{Description: "x", Commands: []string{"kill", "kill"}, Interval: time.Millisecond, Sink: sink})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(sink.Commands()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestDispatchErrors(t *testing.T) {
	s := New(nil)
	sink := gametest.NewRecorder()

	_, err := s.Dispatch(Batch{Description: "empty", Sink: sink})
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = s.Dispatch(Batch{Description: "no sink", Commands: []string{"kill"}})
	assert.ErrorIs(t, err, ErrNoSink)

	s.Stop()
	s.Stop()

	_, err = s.Dispatch(Batch{Description: "late", Commands: []string{"kill"}, Sink: sink})
	assert.ErrorIs(t, err, ErrStopped)
	assert.Empty(t, sink.Events())
}

func TestDispatchAssignsBatchID(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	id, err := s.Dispatch(Batch{Description: "x", Commands: []string{"kill"}, Sink: gametest.NewRecorder()})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	id, err = s.Dispatch(Batch{ID: "fixed", Description: "y", Commands: []string{"kill"}, Sink: gametest.NewRecorder()})
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)
}

func TestStopDropsPending(t *testing.T) {
	s := New(nil)
	sink := gametest.NewRecorder()

	_, err := s.Dispatch(Batch{Description: "slow", Commands: []string{"kill", "kill", "kill"}, Interval: time.Hour, Sink: sink})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(sink.Commands()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, s.Pending())

	s.Stop()
	assert.Equal(t, 0, s.Pending())
}
