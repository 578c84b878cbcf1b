// Package tui provides the Bubble Tea experiment workflow interface.
package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/channelsim/internal/workflow"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#FF4D4F")).
			Padding(1, 2)
)

// Model implements the Bubble Tea workflow UI. It is the only writer of the
// controller; backend calls run as commands and report back as messages.
type Model struct {
	ctx     context.Context
	backend Backend
	ctrl    *workflow.Controller
	log     logrus.FieldLogger

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	focus   formField
	prompts []textarea.Model
	results table.Model

	noticeTitle string
	notice      string

	width  int
	height int
}

// NewModel constructs the workflow UI in the Setup stage.
func NewModel(ctx context.Context, b Backend, log logrus.FieldLogger) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := &Model{
		ctx:     ctx,
		backend: b,
		ctrl:    workflow.New(log),
		log:     log,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
	}
	m.initPrompts()
	m.results = buildResultsTable(nil, 0, 1)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case submitDoneMsg:
		return m, m.handleSubmitDone(msg)
	case roundLoadedMsg:
		if m.ctrl.ApplyRound(msg.visit, msg.snap, msg.err) && msg.err != nil {
			m.log.WithError(msg.err).Error("round fetch failed")
			m.showNotice("Could not load round", msg.err)
		}
		return m, nil
	case resultsLoadedMsg:
		if !m.ctrl.ApplyResults(msg.visit, msg.rows, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.log.WithError(msg.err).Error("results fetch failed")
			m.showNotice("Could not load results", msg.err)
		}
		m.refreshResultsTable()
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.notice != "" {
		return fitLines(m.renderNotice(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Stage returns the active workflow stage.
func (m *Model) Stage() workflow.Stage {
	return m.ctrl.Stage()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.notice != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.noticeTitle = ""
			m.notice = ""
		}
		return m, nil
	}
	switch m.ctrl.Stage() {
	case workflow.Setup:
		return m.updateSetup(msg)
	case workflow.Live:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Advance):
			return m, m.fire(workflow.Advance)
		}
	case workflow.Results:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ShowSetup):
			return m, m.fire(workflow.ShowSetup)
		case key.Matches(msg, m.keys.ShowLive):
			return m, m.fire(workflow.ShowLive)
		default:
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) fire(e workflow.Event) tea.Cmd {
	return m.runEffect(m.ctrl.Fire(e))
}

func (m *Model) runEffect(e workflow.Effect) tea.Cmd {
	visit := m.ctrl.Visit()
	m.keys.stage = m.ctrl.Stage()
	switch e {
	case workflow.EffectFetchRound:
		return tea.Batch(fetchRoundCmd(m.ctx, m.backend, visit), m.spinner.Tick)
	case workflow.EffectFetchResults:
		m.refreshResultsTable()
		m.results.Focus()
		return tea.Batch(fetchResultsCmd(m.ctx, m.backend, visit), m.spinner.Tick)
	default:
		return nil
	}
}

func (m *Model) submit() tea.Cmd {
	payload, visit, err := m.ctrl.BeginSubmit()
	if err != nil {
		if !errors.Is(err, workflow.ErrSubmitPending) {
			m.log.WithError(err).Warn("submit refused")
		}
		return nil
	}
	m.log.WithFields(logrus.Fields{
		"frame":  payload.Frame,
		"rounds": payload.Rounds,
		"model":  payload.Model,
	}).Info("submitting experiment")
	return tea.Batch(submitCmd(m.ctx, m.backend, payload, visit), m.spinner.Tick)
}

func (m *Model) handleSubmitDone(msg submitDoneMsg) tea.Cmd {
	effect, applied := m.ctrl.CompleteSubmit(msg.visit, msg.err)
	if !applied {
		return nil
	}
	if msg.err != nil {
		m.showNotice("Failed to run experiment", msg.err)
		return nil
	}
	m.blurPrompts()
	return m.runEffect(effect)
}

func (m *Model) showNotice(title string, err error) {
	m.noticeTitle = title
	m.notice = err.Error()
}

func (m *Model) busy() bool {
	switch m.ctrl.Stage() {
	case workflow.Setup:
		return m.ctrl.Submitting()
	case workflow.Live:
		return m.ctrl.Round().Loading
	case workflow.Results:
		return m.ctrl.Results().Loading
	default:
		return false
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.prompts {
		m.prompts[i].SetWidth(maxInt(10, minInt(m.width-4, 80)))
	}
	m.help.Width = m.width
	m.results.SetWidth(m.width)
	m.results.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(workflow.Stages))
	for _, stage := range workflow.Stages {
		if stage == m.ctrl.Stage() {
			parts = append(parts, activeNavStyle.Render(stage.Title()))
		} else {
			parts = append(parts, inactiveNavStyle.Render(stage.Title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + headerStyle.Render(truncateLine(m.stageCaption(), m.width))
}

func (m *Model) stageCaption() string {
	switch m.ctrl.Stage() {
	case workflow.Live:
		return "Latest round reported by the backend."
	case workflow.Results:
		return "Aggregated metrics per frame and model."
	default:
		return "Configure the pricing game and run it on the backend."
	}
}

func (m *Model) renderFooter() string {
	return m.help.View(m.keys)
}

func (m *Model) renderBody(height int) string {
	switch m.ctrl.Stage() {
	case workflow.Live:
		return m.renderLive()
	case workflow.Results:
		return m.renderResults(height)
	default:
		return m.renderSetup()
	}
}

func (m *Model) renderNotice() string {
	inner := modalInnerWidth(m.width)
	body := []string{errorStyle.Bold(true).Render(m.noticeTitle)}
	body = append(body, wrapText(m.notice, inner)...)
	body = append(body, "", headerStyle.Render("enter/esc to dismiss"))
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
