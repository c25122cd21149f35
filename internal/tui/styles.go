package tui

import "github.com/charmbracelet/lipgloss"

var (
	ActiveStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	InactiveStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	HeaderIndicatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("180")).
				Padding(0, 1)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Padding(0, 1)
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Padding(0, 1)
)

var (
	ActionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Padding(0, 1)
	SelectedActionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("226")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)
	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("105"))
	HelpStyle = lipgloss.NewStyle().Padding(0, 0, 0, 2)
)

var OutputColors = []string{"105", "208", "39", "226", "196", "99"}

func GetOutputColorStyle(index int) lipgloss.Style {
	color := OutputColors[index%len(OutputColors)]
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
