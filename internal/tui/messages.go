package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nicobailon/debugdeck/internal/tui/theme"
)

type toastType int

const (
	toastError toastType = iota
	toastInfo
)

const toastDuration = 3 * time.Second

type toast struct {
	message   string
	kind      toastType
	expiresAt time.Time
}

func (t *toast) expired(now time.Time) bool {
	return now.After(t.expiresAt)
}

// frameTickMsg drives one host frame.
type frameTickMsg time.Time

type ErrorMsg struct {
	Err     error
	Context string
}

func (e ErrorMsg) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %v", e.Context, e.Err)
	}
	return e.Err.Error()
}

type InfoMsg struct {
	Message string
}

type toastExpiredMsg struct{}

func NewErrorCmd(err error, context string) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err, Context: context}
	}
}

func NewInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return InfoMsg{Message: message}
	}
}

func toastExpireCmd() tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}

func (t *toast) render() string {
	var style lipgloss.Style
	var icon string

	switch t.kind {
	case toastError:
		style = theme.ErrorStyle
		icon = "✗ "
	default:
		style = theme.InfoStyle
		icon = "• "
	}

	return style.Render(icon + t.message)
}
