package model

import (
	"fmt"
	"math"
)

const (
	defaultTemperatureTenths = 5
	maxTemperatureTenths     = 10
)

// ExperimentConfig holds the editable experiment parameters.
// Temperature is kept in tenths so it can never leave the 0.1 grid.
type ExperimentConfig struct {
	oneShot            bool
	frame              Frame
	temperatureTenths  int
	rounds             int
	model              string
	manufacturerPrompt string
	retailerPrompt     string
}

// NewExperimentConfig returns a config populated with defaults.
func NewExperimentConfig() *ExperimentConfig {
	return &ExperimentConfig{
		oneShot:           true,
		frame:             FrameLP,
		temperatureTenths: defaultTemperatureTenths,
		rounds:            RoundOptions[0],
	}
}

// OneShot reports whether rounds are independent.
func (c *ExperimentConfig) OneShot() bool { return c.oneShot }

// SetOneShot sets the one-shot flag.
func (c *ExperimentConfig) SetOneShot(v bool) { c.oneShot = v }

// Frame returns the active frame.
func (c *ExperimentConfig) Frame() Frame { return c.frame }

// SetFrame selects a frame.
func (c *ExperimentConfig) SetFrame(f Frame) error {
	if indexOfFrame(f) < 0 {
		return fmt.Errorf("unknown frame %q", f)
	}
	c.frame = f
	return nil
}

// NextFrame selects the next frame, wrapping around.
func (c *ExperimentConfig) NextFrame() { c.stepFrame(1) }

// PrevFrame selects the previous frame, wrapping around.
func (c *ExperimentConfig) PrevFrame() { c.stepFrame(-1) }

func (c *ExperimentConfig) stepFrame(delta int) {
	idx := wrapIndex(indexOfFrame(c.frame)+delta, len(Frames))
	c.frame = Frames[idx]
}

// Temperature returns the temperature on the 0.1 grid.
func (c *ExperimentConfig) Temperature() float64 {
	return float64(c.temperatureTenths) / 10
}

// SetTemperature snaps v to the nearest tenth within [0, 1]. NaN is ignored.
func (c *ExperimentConfig) SetTemperature(v float64) {
	if math.IsNaN(v) {
		return
	}
	tenths := math.Round(v * 10)
	switch {
	case tenths <= 0:
		c.temperatureTenths = 0
	case tenths >= maxTemperatureTenths:
		c.temperatureTenths = maxTemperatureTenths
	default:
		c.temperatureTenths = int(tenths)
	}
}

// StepTemperature moves the temperature by delta tenths, clamped.
func (c *ExperimentConfig) StepTemperature(delta int) {
	c.temperatureTenths = clampTenths(c.temperatureTenths + delta)
}

// Rounds returns the rounds-per-frame value.
func (c *ExperimentConfig) Rounds() int { return c.rounds }

// SetRounds selects a rounds value from RoundOptions.
func (c *ExperimentConfig) SetRounds(n int) error {
	if indexOfRounds(n) < 0 {
		return fmt.Errorf("unsupported rounds value %d", n)
	}
	c.rounds = n
	return nil
}

// NextRounds cycles to the next rounds option.
func (c *ExperimentConfig) NextRounds() {
	idx := wrapIndex(indexOfRounds(c.rounds)+1, len(RoundOptions))
	c.rounds = RoundOptions[idx]
}

// Model returns the selected model id, possibly empty.
func (c *ExperimentConfig) Model() string { return c.model }

// SetModel selects a model from the catalog. The empty id clears the selection.
func (c *ExperimentConfig) SetModel(id string) error {
	if indexOfModel(id) < 0 {
		return fmt.Errorf("unknown model %q", id)
	}
	c.model = id
	return nil
}

// NextModel cycles forward through the catalog.
func (c *ExperimentConfig) NextModel() { c.stepModel(1) }

// PrevModel cycles backward through the catalog.
func (c *ExperimentConfig) PrevModel() { c.stepModel(-1) }

func (c *ExperimentConfig) stepModel(delta int) {
	idx := wrapIndex(indexOfModel(c.model)+delta, len(ModelCatalog))
	c.model = ModelCatalog[idx].ID
}

// ManufacturerPrompt returns the manufacturer prompt text.
func (c *ExperimentConfig) ManufacturerPrompt() string { return c.manufacturerPrompt }

// SetManufacturerPrompt sets the manufacturer prompt text.
func (c *ExperimentConfig) SetManufacturerPrompt(s string) { c.manufacturerPrompt = s }

// RetailerPrompt returns the retailer prompt text.
func (c *ExperimentConfig) RetailerPrompt() string { return c.retailerPrompt }

// SetRetailerPrompt sets the retailer prompt text.
func (c *ExperimentConfig) SetRetailerPrompt(s string) { c.retailerPrompt = s }

// ToSubmissionPayload builds the run-experiment body.
// OneShot is not part of the backend contract and is left out.
func (c *ExperimentConfig) ToSubmissionPayload() Payload {
	return Payload{
		Frame:              c.frame,
		Temperature:        c.Temperature(),
		Rounds:             c.rounds,
		Model:              c.model,
		ManufacturerPrompt: c.manufacturerPrompt,
		RetailerPrompt:     c.retailerPrompt,
	}
}

func clampTenths(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxTemperatureTenths {
		return maxTemperatureTenths
	}
	return n
}

func wrapIndex(idx, n int) int {
	if n == 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func indexOfFrame(f Frame) int {
	for i, candidate := range Frames {
		if candidate == f {
			return i
		}
	}
	return -1
}

func indexOfRounds(n int) int {
	for i, candidate := range RoundOptions {
		if candidate == n {
			return i
		}
	}
	return -1
}

func indexOfModel(id string) int {
	for i, opt := range ModelCatalog {
		if opt.ID == id {
			return i
		}
	}
	return -1
}
