package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestDefault_StylesRenderWithColor(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	for name, style := range map[string]lipgloss.Style{
		"title":      th.Title,
		"card title": th.CardTitle,
		"date":       th.DateBadge,
		"button":     th.Button,
		"warn":       th.StateWarn,
	} {
		assert.True(t, strings.Contains(style.Render("x"), "\x1b["), name)
	}
}

func TestDefault_ActiveCardDiffersFromIdle(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()
	assert.NotEqual(t, th.Card.Render("post"), th.CardActive.Render("post"))
}
