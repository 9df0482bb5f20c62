package form

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles of the form.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Selector lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	Box      lipgloss.Style
}

// DefaultStyles returns the form's default look.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		Label:    lipgloss.NewStyle().Width(12),
		Focused:  lipgloss.NewStyle().Width(12).Bold(true).Foreground(lipgloss.Color("#2196F3")),
		Selector: lipgloss.NewStyle().Width(14),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")),
		Help:     lipgloss.NewStyle().Faint(true),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}
