package report

import (
	"fmt"
	"io"

	"github.com/verte-zerg/channelsim/internal/model"
)

// NoRoundData is shown when the backend has no round to report.
const NoRoundData = "No round data yet. Run an experiment first."

// RoundField is one labelled line of the round monitor.
type RoundField struct {
	Label string
	Value string
}

// String renders the field the way the monitor lists it.
func (f RoundField) String() string {
	if f.Label == "q" {
		return "q=" + f.Value
	}
	return f.Label + " : " + f.Value
}

// RoundFields lists the snapshot for display, or nil when it is empty.
// Numbers use two decimals and default to zero.
func RoundFields(s model.RoundSnapshot) []RoundField {
	if s.Empty() {
		return nil
	}
	return []RoundField{
		{Label: "Frame", Value: s.Frame.Or("")},
		{Label: "Manufacturer Choice", Value: s.ManufacturerChoice.Or("")},
		{Label: "Retailer Choice", Value: s.RetailerChoice.Or("")},
		{Label: "q", Value: Fixed(s.Q, 2)},
		{Label: "Temperature", Value: Fixed(s.Temperature, 2)},
		{Label: "Model", Value: s.Model.Or("")},
	}
}

// WriteRound prints the snapshot as plain text.
func WriteRound(w io.Writer, s model.RoundSnapshot) error {
	fields := RoundFields(s)
	if len(fields) == 0 {
		_, err := fmt.Fprintln(w, NoRoundData)
		return err
	}
	if _, err := fmt.Fprintln(w, "For the current round:"); err != nil {
		return err
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "  %s\n", f); err != nil {
			return err
		}
	}
	return nil
}
