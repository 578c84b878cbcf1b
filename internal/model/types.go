// Package model defines shared data structures.
package model

// Frame is a pricing-schedule family.
type Frame string

// Supported frames.
const (
	FrameLP  Frame = "LP"
	FrameTPT Frame = "TPT"
	FrameQD  Frame = "QD"
)

// Frames lists the frames in display order.
var Frames = []Frame{FrameLP, FrameTPT, FrameQD}

// Label returns the human-readable frame name.
func (f Frame) Label() string {
	switch f {
	case FrameLP:
		return "Linear Pricing (LP)"
	case FrameTPT:
		return "Two-Part Tariff (TPT)"
	case FrameQD:
		return "Quantity Discount (QD)"
	default:
		return string(f)
	}
}

// RoundOptions lists the allowed rounds-per-frame values.
var RoundOptions = []int{50, 200}

// ModelOption is an entry in the model catalog.
type ModelOption struct {
	ID    string
	Label string
}

// ModelCatalog lists selectable models. The empty ID means unselected.
var ModelCatalog = []ModelOption{
	{ID: "", Label: "Select a Model"},
	{ID: "gpt-4o", Label: "GPT-4o"},
	{ID: "gpt-4.1", Label: "GPT-4.1"},
	{ID: "llama", Label: "LLaMA"},
}

// ModelLabel returns the catalog label for id, or id itself when unknown.
func ModelLabel(id string) string {
	for _, opt := range ModelCatalog {
		if opt.ID == id {
			return opt.Label
		}
	}
	return id
}

// Payload is the body of a run-experiment request.
type Payload struct {
	Frame              Frame   `json:"frame"`
	Temperature        float64 `json:"temperature"`
	Rounds             int     `json:"rounds"`
	Model              string  `json:"model"`
	ManufacturerPrompt string  `json:"manufacturerPrompt"`
	RetailerPrompt     string  `json:"retailerPrompt"`
}

// RoundSnapshot is the backend's view of the most recent round.
// Fields are optional; the zero value is the empty snapshot.
type RoundSnapshot struct {
	Frame              Text   `json:"frame"`
	ManufacturerChoice Text   `json:"manufacturerChoice"`
	RetailerChoice     Text   `json:"retailerChoice"`
	Q                  Number `json:"q"`
	Temperature        Number `json:"temperature"`
	Model              Text   `json:"model"`
}

// Empty reports whether no round data is present.
func (s RoundSnapshot) Empty() bool {
	return !s.Frame.Valid &&
		!s.ManufacturerChoice.Valid &&
		!s.RetailerChoice.Valid &&
		!s.Q.Valid &&
		!s.Temperature.Valid &&
		!s.Model.Valid
}

// ResultRow is one aggregated result for a completed configuration.
type ResultRow struct {
	Frame                  Text   `json:"frame"`
	Acceptance             Number `json:"acceptance"`
	ConditionalEfficiency  Number `json:"conditionalEfficiency"`
	OverallEfficiency      Number `json:"overallEfficiency"`
	MeanRetailPrice        Number `json:"meanRetailPrice"`
	Temperature            Number `json:"temperature"`
	MeanManufacturerProfit Number `json:"meanManufacturerProfit"`
	MeanRetailerProfit     Number `json:"meanRetailerProfit"`
	Model                  Text   `json:"model"`
}
