package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/channelsim/internal/workflow"
)

type keyMap struct {
	stage workflow.Stage

	NextField key.Binding
	PrevField key.Binding
	Decrease  key.Binding
	Increase  key.Binding
	Toggle    key.Binding
	Run       key.Binding
	Submit    key.Binding
	Advance   key.Binding
	ShowSetup key.Binding
	ShowLive  key.Binding
	Up        key.Binding
	Down      key.Binding
	Dismiss   key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Decrease:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Increase:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Run:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run experiment")),
		Advance:   key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter/n", "view results")),
		ShowSetup: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "setup")),
		ShowLive:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "live")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Dismiss:   key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter/esc", "dismiss")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	switch k.stage {
	case workflow.Live:
		return []key.Binding{k.Advance, k.Quit}
	case workflow.Results:
		return []key.Binding{k.Up, k.Down, k.ShowSetup, k.ShowLive, k.Quit}
	default:
		return []key.Binding{k.NextField, k.Decrease, k.Increase, k.Toggle, k.Submit, k.ForceQuit}
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
