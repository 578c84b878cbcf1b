package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/channelsim/internal/model"
)

func TestTransitionTable(t *testing.T) {
	events := []Event{SubmitSucceeded, Advance, ShowSetup, ShowLive, Event(99)}
	want := map[Stage]map[Event]Stage{
		Setup:   {SubmitSucceeded: Live, Advance: Setup, ShowSetup: Setup, ShowLive: Setup, Event(99): Setup},
		Live:    {SubmitSucceeded: Live, Advance: Results, ShowSetup: Live, ShowLive: Live, Event(99): Live},
		Results: {SubmitSucceeded: Live, Advance: Results, ShowSetup: Results, ShowLive: Results, Event(99): Results},
	}
	for _, s := range Stages {
		for _, e := range events {
			assert.Equal(t, want[s][e], Transition(s, e), "%s + %s", s, e)
		}
	}
}

func TestNewStartsInSetupWithDefaults(t *testing.T) {
	c := New(nil)
	assert.Equal(t, Setup, c.Stage())
	require.NotNil(t, c.Config())
	assert.Equal(t, model.FrameLP, c.Config().Frame())
	assert.False(t, c.Submitting())
}

func TestSubmitSuccessEntersLiveOnce(t *testing.T) {
	c := New(nil)
	c.Config().SetTemperature(0.7)

	payload, visit, err := c.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, 0.7, payload.Temperature)
	assert.True(t, c.Submitting())

	effect, applied := c.CompleteSubmit(visit, nil)
	assert.True(t, applied)
	assert.Equal(t, EffectFetchRound, effect)
	assert.Equal(t, Live, c.Stage())
	assert.Nil(t, c.Config(), "config is discarded when setup is left")
	assert.True(t, c.Round().Loading)

	assert.Equal(t, EffectNone, c.Fire(SubmitSucceeded), "re-firing must not re-enter live")
}

func TestSubmitFailureStaysInSetup(t *testing.T) {
	c := New(nil)
	cfg := c.Config()
	_, visit, err := c.BeginSubmit()
	require.NoError(t, err)

	effect, applied := c.CompleteSubmit(visit, errors.New("invalid frame"))
	assert.True(t, applied)
	assert.Equal(t, EffectNone, effect)
	assert.Equal(t, Setup, c.Stage())
	assert.Same(t, cfg, c.Config(), "edits survive a failed submission")
	assert.False(t, c.Submitting())

	_, _, err = c.BeginSubmit()
	assert.NoError(t, err, "user may retry")
}

func TestSecondSubmitRefusedWhilePending(t *testing.T) {
	c := New(nil)
	_, _, err := c.BeginSubmit()
	require.NoError(t, err)
	_, _, err = c.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitPending)
}

func TestSubmitOutsideSetupRefused(t *testing.T) {
	c := New(nil)
	_, visit, err := c.BeginSubmit()
	require.NoError(t, err)
	c.CompleteSubmit(visit, nil)

	_, _, err = c.BeginSubmit()
	assert.ErrorIs(t, err, ErrNotInSetup)
}

func TestAdvanceToResultsFetchesOnce(t *testing.T) {
	c := New(nil)
	assert.Equal(t, EffectNone, c.Fire(Advance), "cannot skip submission")
	assert.Equal(t, Setup, c.Stage())

	_, visit, _ := c.BeginSubmit()
	c.CompleteSubmit(visit, nil)

	assert.Equal(t, EffectFetchResults, c.Fire(Advance))
	assert.Equal(t, Results, c.Stage())
	assert.True(t, c.Results().Loading)
	assert.Equal(t, EffectNone, c.Fire(Advance))
}

func TestResultsNavigationIsNoOp(t *testing.T) {
	c := New(nil)
	_, visit, _ := c.BeginSubmit()
	c.CompleteSubmit(visit, nil)
	c.Fire(Advance)
	rows := []model.ResultRow{{Frame: model.TextOf("LP")}}
	require.True(t, c.ApplyResults(c.Visit(), rows, nil))

	assert.Equal(t, EffectNone, c.Fire(ShowSetup))
	assert.Equal(t, EffectNone, c.Fire(ShowLive))
	assert.Equal(t, Results, c.Stage())
	assert.Equal(t, rows, c.Results().Rows)
}

func TestStaleFetchResultsAreDiscarded(t *testing.T) {
	c := New(nil)
	_, visit, _ := c.BeginSubmit()
	c.CompleteSubmit(visit, nil)
	liveVisit := c.Visit()

	c.Fire(Advance)
	snap := model.RoundSnapshot{Frame: model.TextOf("QD")}
	assert.False(t, c.ApplyRound(liveVisit, snap, nil), "live was torn down")
	assert.True(t, c.Round().Snapshot.Empty())

	assert.False(t, c.ApplyResults(liveVisit, []model.ResultRow{{}}, nil))
	assert.True(t, c.Results().Loading)

	assert.True(t, c.ApplyResults(c.Visit(), nil, nil))
	assert.NotNil(t, c.Results().Rows)
	assert.Empty(t, c.Results().Rows)
}

func TestStaleSubmissionIsDiscarded(t *testing.T) {
	c := New(nil)
	_, visit, _ := c.BeginSubmit()
	effect, applied := c.CompleteSubmit(visit+1, nil)
	assert.False(t, applied)
	assert.Equal(t, EffectNone, effect)
	assert.Equal(t, Setup, c.Stage())
	assert.True(t, c.Submitting())
}

func TestFetchErrorLeavesEmptySlot(t *testing.T) {
	c := New(nil)
	_, visit, _ := c.BeginSubmit()
	c.CompleteSubmit(visit, nil)

	fetchErr := errors.New("boom")
	require.True(t, c.ApplyRound(c.Visit(), model.RoundSnapshot{}, fetchErr))
	round := c.Round()
	assert.False(t, round.Loading)
	assert.Equal(t, fetchErr, round.Err)
	assert.True(t, round.Snapshot.Empty())
	assert.Equal(t, Live, c.Stage())
}
