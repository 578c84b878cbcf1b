package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/channelsim/internal/model"
)

type formField int

const (
	fieldOneShot formField = iota
	fieldFrame
	fieldTemperature
	fieldRounds
	fieldModel
	fieldManufacturerPrompt
	fieldRetailerPrompt
	fieldRun
	fieldCount
)

const temperatureBarWidth = 10

func (m *Model) initPrompts() {
	m.prompts = []textarea.Model{
		newPrompt("Describe the manufacturer's strategy..."),
		newPrompt("Describe the retailer's strategy..."),
	}
	m.focus = fieldOneShot
}

func newPrompt(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.Cursor.SetMode(cursor.CursorStatic)
	return ta
}

func promptIndex(f formField) int {
	switch f {
	case fieldManufacturerPrompt:
		return 0
	case fieldRetailerPrompt:
		return 1
	default:
		return -1
	}
}

func (m *Model) blurPrompts() {
	for i := range m.prompts {
		m.prompts[i].Blur()
	}
}

func (m *Model) setFocus(f formField) tea.Cmd {
	m.focus = formField((int(f) + int(fieldCount)) % int(fieldCount))
	m.blurPrompts()
	if idx := promptIndex(m.focus); idx >= 0 {
		return m.prompts[idx].Focus()
	}
	return nil
}

func (m *Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cfg := m.ctrl.Config()
	if cfg == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.NextField):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFocus(m.focus - 1)
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	}

	if idx := promptIndex(m.focus); idx >= 0 {
		var cmd tea.Cmd
		m.prompts[idx], cmd = m.prompts[idx].Update(msg)
		if idx == 0 {
			cfg.SetManufacturerPrompt(m.prompts[idx].Value())
		} else {
			cfg.SetRetailerPrompt(m.prompts[idx].Value())
		}
		return m, cmd
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.focus {
	case fieldOneShot:
		if key.Matches(msg, m.keys.Toggle, m.keys.Run) {
			cfg.SetOneShot(!cfg.OneShot())
		}
	case fieldFrame:
		switch {
		case key.Matches(msg, m.keys.Decrease):
			cfg.PrevFrame()
		case key.Matches(msg, m.keys.Increase, m.keys.Toggle):
			cfg.NextFrame()
		}
	case fieldTemperature:
		switch {
		case key.Matches(msg, m.keys.Decrease):
			cfg.StepTemperature(-1)
		case key.Matches(msg, m.keys.Increase):
			cfg.StepTemperature(1)
		}
	case fieldRounds:
		if key.Matches(msg, m.keys.Decrease, m.keys.Increase, m.keys.Toggle) {
			cfg.NextRounds()
		}
	case fieldModel:
		switch {
		case key.Matches(msg, m.keys.Decrease):
			cfg.PrevModel()
		case key.Matches(msg, m.keys.Increase, m.keys.Toggle):
			cfg.NextModel()
		}
	case fieldRun:
		if key.Matches(msg, m.keys.Run) {
			return m, m.submit()
		}
	}
	return m, nil
}

func (m *Model) renderSetup() string {
	cfg := m.ctrl.Config()
	if cfg == nil {
		return ""
	}
	lines := []string{
		m.fieldLine(fieldOneShot, "", checkbox(cfg.OneShot())+" One-Shot Game (each round is independent)"),
		"",
		m.fieldLine(fieldFrame, "Frame", radioGroup(cfg.Frame())),
		m.fieldLine(fieldTemperature, "Temperature", temperatureBar(cfg.Temperature())),
		m.fieldLine(fieldRounds, "Rounds per Frame", choice(fmt.Sprintf("%d", cfg.Rounds()))),
		m.fieldLine(fieldModel, "Model", choice(model.ModelLabel(cfg.Model()))),
		"",
		m.fieldLine(fieldManufacturerPrompt, "Manufacturer Prompt", ""),
		m.prompts[0].View(),
		m.fieldLine(fieldRetailerPrompt, "Retailer Prompt", ""),
		m.prompts[1].View(),
		"",
		m.renderRunButton(),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) fieldLine(f formField, label, value string) string {
	marker := "  "
	if m.focus == f {
		marker = focusStyle.Render("> ")
	}
	if label == "" {
		return marker + valueStyle.Render(value)
	}
	return marker + labelStyle.Render(label+": ") + valueStyle.Render(value)
}

func (m *Model) renderRunButton() string {
	if m.ctrl.Submitting() {
		return "  " + m.spinner.View() + " Submitting experiment..."
	}
	button := "[ Run Experiment ]"
	if m.focus == fieldRun {
		return focusStyle.Render("> " + button)
	}
	return "  " + titleStyle.Render(button)
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func radioGroup(active model.Frame) string {
	parts := make([]string, 0, len(model.Frames))
	for _, f := range model.Frames {
		mark := "( )"
		if f == active {
			mark = "(•)"
		}
		parts = append(parts, mark+" "+f.Label())
	}
	return strings.Join(parts, "  ")
}

func choice(label string) string {
	return "‹ " + label + " ›"
}

func temperatureBar(v float64) string {
	filled := int(v*temperatureBarWidth + 0.5)
	filled = maxInt(0, minInt(temperatureBarWidth, filled))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", temperatureBarWidth-filled)
	return fmt.Sprintf("%s %.1f", bar, v)
}
