package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title     lipgloss.Style
	ModePill  lipgloss.Style
	MetaLabel lipgloss.Style
	MetaValue lipgloss.Style
	StateIdle lipgloss.Style
	StateWarn lipgloss.Style
	StateLoad lipgloss.Style

	Card         lipgloss.Style
	CardActive   lipgloss.Style
	CardTitle    lipgloss.Style
	CardSummary  lipgloss.Style
	DateBadge    lipgloss.Style
	Reader       lipgloss.Style
	ReaderTitle  lipgloss.Style
	ReaderDate   lipgloss.Style
	ReaderTag    lipgloss.Style
	ReaderImage  lipgloss.Style
	Button       lipgloss.Style
	ReadMore     lipgloss.Style
	BackdropText lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface2 := lipgloss.Color("#585b70")

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cpSurface2).
		Padding(0, 1)

	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:  lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		MetaLabel: lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue: lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle: lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn: lipgloss.NewStyle().Foreground(cpRed),
		StateLoad: lipgloss.NewStyle().Foreground(cpPeach),

		Card:        card,
		CardActive:  card.BorderForeground(cpMauve),
		CardTitle:   lipgloss.NewStyle().Bold(true).Foreground(cpText),
		CardSummary: lipgloss.NewStyle().Foreground(cpSubtext0),
		DateBadge:   lipgloss.NewStyle().Foreground(cpYellow),
		Reader: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cpLavender).
			Padding(0, 2),
		ReaderTitle:  lipgloss.NewStyle().Bold(true).Foreground(cpLavender),
		ReaderDate:   lipgloss.NewStyle().Foreground(cpOverlay1),
		ReaderTag:    lipgloss.NewStyle().Foreground(cpTeal),
		ReaderImage:  lipgloss.NewStyle().Foreground(cpMauve).Faint(true).Italic(true),
		Button:       lipgloss.NewStyle().Foreground(cpBlue).Bold(true),
		ReadMore:     lipgloss.NewStyle().Foreground(cpSurface0).Background(cpText).Padding(0, 1),
		BackdropText: lipgloss.NewStyle().Foreground(cpOverlay0).Faint(true),
	}
}
