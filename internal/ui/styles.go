package ui

import "github.com/charmbracelet/lipgloss"

// palette is the set of lipgloss styles View() renders with. Two variants
// exist (dark, the default, and light) selected once at Model construction
// per the --light flag.
type palette struct {
	selected      lipgloss.Style
	normal        lipgloss.Style
	match         lipgloss.Style
	matchSelected lipgloss.Style
	prompt        lipgloss.Style
	cursor        lipgloss.Style
	dim           lipgloss.Style
	danger        lipgloss.Style
}

func darkPalette() palette {
	return palette{
		selected:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		normal:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		match:         lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		matchSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		prompt:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		cursor:        lipgloss.NewStyle().Reverse(true),
		dim:           lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		danger:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

func lightPalette() palette {
	return palette{
		selected:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")),
		normal:        lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		match:         lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		matchSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("130")),
		prompt:        lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		cursor:        lipgloss.NewStyle().Reverse(true),
		dim:           lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		danger:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160")),
	}
}
