// Package workflow implements the Setup → Live → Results state machine.
package workflow

// Stage is the active screen of the workflow.
type Stage int

// Workflow stages in display order.
const (
	Setup Stage = iota
	Live
	Results
)

// Stages lists every stage in display order.
var Stages = []Stage{Setup, Live, Results}

func (s Stage) String() string {
	switch s {
	case Setup:
		return "setup"
	case Live:
		return "live"
	case Results:
		return "results"
	default:
		return "unknown"
	}
}

// Title is the screen heading for the stage.
func (s Stage) Title() string {
	switch s {
	case Setup:
		return "Experiment Setup"
	case Live:
		return "Live Round Monitor"
	case Results:
		return "Results and Metrics"
	default:
		return ""
	}
}

// Event is an input to the transition function.
type Event int

// Workflow events.
const (
	// SubmitSucceeded fires when the backend accepted a configuration.
	SubmitSucceeded Event = iota + 1
	// Advance is the user moving on from the Live monitor.
	Advance
	// ShowSetup and ShowLive are the navigation affordances offered on the
	// Results screen. They do not move the workflow.
	ShowSetup
	ShowLive
)

func (e Event) String() string {
	switch e {
	case SubmitSucceeded:
		return "submit-succeeded"
	case Advance:
		return "advance"
	case ShowSetup:
		return "show-setup"
	case ShowLive:
		return "show-live"
	default:
		return "unknown"
	}
}

// Transition returns the stage that follows s on event e. Unknown
// combinations leave the stage unchanged.
func Transition(s Stage, e Event) Stage {
	switch e {
	case SubmitSucceeded:
		return Live
	case Advance:
		if s == Live {
			return Results
		}
	}
	return s
}
