package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7D56F4") // Purple
	Secondary = lipgloss.Color("#00F5FF") // Cyan
	Success   = lipgloss.Color("#00E680") // Green
	Warning   = lipgloss.Color("#FFB800") // Yellow
	Error     = lipgloss.Color("#FF4D4D") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#E5E7EB") // Light Gray

	// Prompt title
	TitleStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Padding(0, 1).
			Bold(true)

	// Login: <session>
	ProfileStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning)

	// MFA number to pick in the authenticator app
	CodeBox = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(Secondary).
		Padding(0, 1).
		Margin(0, 0).
		Bold(true)

	// Final portal status
	StatusBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Success).
			Padding(0, 2).
			Margin(1, 0)

	// Device verification URL in manual mode
	VerificationBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(1, 2).
			Margin(1, 0)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)
)
