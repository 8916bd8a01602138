package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/catalogai/internal/models"
	"github.com/desertthunder/catalogai/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgRecommendationsDone
)

type runOutcome struct {
	result *models.Result
	err    error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// recommendationsDoneMsg is the constructor for [MsgRecommendationsDone]
func recommendationsDoneMsg(result *models.Result, err error) Msg {
	return Msg{kind: MsgRecommendationsDone, data: runOutcome{result: result, err: err}}
}
