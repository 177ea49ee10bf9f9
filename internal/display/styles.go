package display

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorGreen  = lipgloss.Color("42")
	colorYellow = lipgloss.Color("214")
	colorRed    = lipgloss.Color("196")
	colorGray   = lipgloss.Color("245")
	colorWhite  = lipgloss.Color("255")
)

// Styles defines the colors used by the dashboard.
type Styles struct {
	Frame   lipgloss.Style
	Neutral lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles builds the dashboard styles on r, so colors follow r's profile.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Frame:   r.NewStyle().Foreground(colorWhite),
		Neutral: r.NewStyle().Foreground(colorGray),
		Success: r.NewStyle().Foreground(colorGreen),
		Warning: r.NewStyle().Foreground(colorYellow),
		Error:   r.NewStyle().Foreground(colorRed),
	}
}

// ForClass returns the style for a result class.
func (s Styles) ForClass(c Class) lipgloss.Style {
	switch c {
	case ClassSuccess:
		return s.Success
	case ClassWarning:
		return s.Warning
	default:
		return s.Error
	}
}
