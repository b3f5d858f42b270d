package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoadingIndicator is a spinner with a message
type LoadingIndicator struct {
	spinner spinner.Model
	message string
}

// NewLoadingIndicator creates a loading indicator
func NewLoadingIndicator() LoadingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	return LoadingIndicator{spinner: s}
}

// SetMessage updates the loading message
func (l LoadingIndicator) SetMessage(message string) LoadingIndicator {
	l.message = message
	return l
}

// Tick starts the spinner animation
func (l LoadingIndicator) Tick() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the animation on spinner ticks
func (l LoadingIndicator) Update(msg tea.Msg) (LoadingIndicator, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the loading indicator
func (l LoadingIndicator) View() string {
	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	return fmt.Sprintf("%s %s", l.spinner.View(), messageStyle.Render(l.message))
}

// LoadingOverlay centers the indicator in the given area
func LoadingOverlay(width, height int, indicator LoadingIndicator) string {
	cancelHint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("[ctrl+c to quit]")

	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(fmt.Sprintf("%s\n\n%s", indicator.View(), cancelHint))
}
