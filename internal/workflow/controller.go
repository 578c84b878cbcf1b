package workflow

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/channelsim/internal/model"
)

var (
	// ErrNotInSetup is returned when a submission is requested outside Setup.
	ErrNotInSetup = errors.New("experiments can only be submitted from setup")
	// ErrSubmitPending is returned while an earlier submission is in flight.
	ErrSubmitPending = errors.New("a submission is already in progress")
)

// Effect is work the caller must start after a stage was entered.
type Effect int

// Effects returned by stage entry.
const (
	EffectNone Effect = iota
	EffectFetchRound
	EffectFetchResults
)

func (e Effect) String() string {
	switch e {
	case EffectFetchRound:
		return "fetch-round"
	case EffectFetchResults:
		return "fetch-results"
	default:
		return "none"
	}
}

// Visit identifies one entry into a stage. Results tagged with an older
// visit are stale and get dropped.
type Visit uint64

// RoundSlot holds the Live stage's snapshot.
type RoundSlot struct {
	Snapshot model.RoundSnapshot
	Loading  bool
	Err      error
}

// ResultsSlot holds the Results stage's rows.
type ResultsSlot struct {
	Rows    []model.ResultRow
	Loading bool
	Err     error
}

// Controller owns the active stage and the data fetched for it. It is not
// safe for concurrent use; a single event loop drives it.
type Controller struct {
	stage      Stage
	visit      Visit
	config     *model.ExperimentConfig
	submitting bool
	round      RoundSlot
	results    ResultsSlot
	log        logrus.FieldLogger
}

// New returns a controller that has just entered Setup.
func New(log logrus.FieldLogger) *Controller {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	c := &Controller{stage: Setup, log: log}
	c.visit = 1
	c.enter(Setup)
	return c
}

// Stage returns the active stage.
func (c *Controller) Stage() Stage { return c.stage }

// Visit returns the id of the current stage entry.
func (c *Controller) Visit() Visit { return c.visit }

// Config returns the editable configuration, or nil outside Setup.
func (c *Controller) Config() *model.ExperimentConfig { return c.config }

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool { return c.submitting }

// Round returns the Live stage's data slot.
func (c *Controller) Round() RoundSlot { return c.round }

// Results returns the Results stage's data slot.
func (c *Controller) Results() ResultsSlot { return c.results }

// BeginSubmit marks a submission as in flight and returns the payload to
// send together with the visit it belongs to.
func (c *Controller) BeginSubmit() (model.Payload, Visit, error) {
	if c.stage != Setup || c.config == nil {
		return model.Payload{}, 0, ErrNotInSetup
	}
	if c.submitting {
		return model.Payload{}, 0, ErrSubmitPending
	}
	c.submitting = true
	return c.config.ToSubmissionPayload(), c.visit, nil
}

// CompleteSubmit settles the submission started in visit v. On success the
// workflow moves to Live and the returned effect must be started. On
// failure the stage and data are left untouched. The bool is false when
// the outcome was stale and discarded.
func (c *Controller) CompleteSubmit(v Visit, err error) (Effect, bool) {
	if !c.current(v, Setup) {
		c.log.WithField("visit", v).Debug("discarding stale submission outcome")
		return EffectNone, false
	}
	c.submitting = false
	if err != nil {
		c.log.WithError(err).Warn("submission failed; staying in setup")
		return EffectNone, true
	}
	return c.Fire(SubmitSucceeded), true
}

// Fire applies event e. When the stage changes, the old stage is exited
// and the new one entered exactly once; the entry effect is returned.
func (c *Controller) Fire(e Event) Effect {
	next := Transition(c.stage, e)
	if next == c.stage {
		return EffectNone
	}
	prev := c.stage
	c.exit(prev)
	c.stage = next
	c.visit++
	effect := c.enter(next)
	c.log.WithFields(logrus.Fields{
		"from":   prev.String(),
		"to":     next.String(),
		"event":  e.String(),
		"visit":  c.visit,
		"effect": effect.String(),
	}).Info("stage changed")
	return effect
}

// ApplyRound stores the outcome of the round fetch started in visit v.
// It returns false when the outcome is stale.
func (c *Controller) ApplyRound(v Visit, snap model.RoundSnapshot, err error) bool {
	if !c.current(v, Live) {
		c.log.WithField("visit", v).Debug("discarding stale round snapshot")
		return false
	}
	if err != nil {
		c.round = RoundSlot{Err: err}
		return true
	}
	c.round = RoundSlot{Snapshot: snap}
	return true
}

// ApplyResults stores the outcome of the results fetch started in visit v.
// It returns false when the outcome is stale.
func (c *Controller) ApplyResults(v Visit, rows []model.ResultRow, err error) bool {
	if !c.current(v, Results) {
		c.log.WithField("visit", v).Debug("discarding stale results")
		return false
	}
	if err != nil {
		c.results = ResultsSlot{Err: err}
		return true
	}
	if rows == nil {
		rows = []model.ResultRow{}
	}
	c.results = ResultsSlot{Rows: rows}
	return true
}

func (c *Controller) current(v Visit, stage Stage) bool {
	return v == c.visit && c.stage == stage
}

func (c *Controller) enter(s Stage) Effect {
	switch s {
	case Setup:
		c.config = model.NewExperimentConfig()
		c.submitting = false
		return EffectNone
	case Live:
		c.round = RoundSlot{Loading: true}
		return EffectFetchRound
	case Results:
		c.results = ResultsSlot{Loading: true}
		return EffectFetchResults
	default:
		return EffectNone
	}
}

func (c *Controller) exit(s Stage) {
	if s == Setup {
		c.config = nil
		c.submitting = false
	}
}
