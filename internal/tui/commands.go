package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/channelsim/internal/model"
	"github.com/verte-zerg/channelsim/internal/workflow"
)

// Backend is the subset of the backend client the workflow needs.
type Backend interface {
	Submit(ctx context.Context, payload model.Payload) error
	FetchCurrent(ctx context.Context) (model.RoundSnapshot, error)
	FetchAll(ctx context.Context) ([]model.ResultRow, error)
}

type submitDoneMsg struct {
	visit workflow.Visit
	err   error
}

type roundLoadedMsg struct {
	visit workflow.Visit
	snap  model.RoundSnapshot
	err   error
}

type resultsLoadedMsg struct {
	visit workflow.Visit
	rows  []model.ResultRow
	err   error
}

func submitCmd(ctx context.Context, b Backend, payload model.Payload, visit workflow.Visit) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{visit: visit, err: b.Submit(ctx, payload)}
	}
}

func fetchRoundCmd(ctx context.Context, b Backend, visit workflow.Visit) tea.Cmd {
	return func() tea.Msg {
		snap, err := b.FetchCurrent(ctx)
		return roundLoadedMsg{visit: visit, snap: snap, err: err}
	}
}

func fetchResultsCmd(ctx context.Context, b Backend, visit workflow.Visit) tea.Cmd {
	return func() tea.Msg {
		rows, err := b.FetchAll(ctx)
		return resultsLoadedMsg{visit: visit, rows: rows, err: err}
	}
}
