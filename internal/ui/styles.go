package ui

import (
	"github.com/charmbracelet/lipgloss"

	"cmdpal/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Prompt        lipgloss.Style
	Selected      lipgloss.Style
	SelectedBg    lipgloss.Style
	Item          lipgloss.Style
	Kind          lipgloss.Style
	Hint          lipgloss.Style
	Dim           lipgloss.Style
	Confirm       lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Scroll        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Prompt:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Selected:      lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectedBg:    lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Item:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Kind:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Hint:          lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true),
		Dim:           lipgloss.NewStyle().Faint(true),
		Confirm:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(1, 2),
	}
}

// kindLabel returns the short badge shown next to a suggestion.
func kindLabel(k domain.CandidateKind) string {
	switch k {
	case domain.CandidateApp:
		return "app"
	case domain.CandidateProcess:
		return "win"
	case domain.CandidateRecent:
		return "rec"
	case domain.CandidateSystem:
		return "sys"
	case domain.CandidateProject:
		return "prj"
	default:
		return "   "
	}
}
