package view

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/glabrego/postdeck/internal/card"
	postrender "github.com/glabrego/postdeck/internal/render/post"
	tuitheme "github.com/glabrego/postdeck/internal/tui/theme"
)

type DeckCard struct {
	Post   card.Post
	Date   string
	Active bool
}

// DateLabel is the badge text for a post: the formatter's locale date, or a
// humanized age when relative is set.
func DateLabel(p card.Post, dates card.DateFormatter, relative bool, now time.Time) string {
	if relative {
		t, ok := dates.Parse(p.PublishedAt)
		if !ok {
			return ""
		}
		if now.IsZero() {
			now = time.Now()
		}
		return humanize.RelTime(t, now, "ago", "from now")
	}
	return dates.Format(p.PublishedAt)
}

func RenderCard(c DeckCard, width, height int, compact bool, th tuitheme.Theme) string {
	style := th.Card
	if c.Active {
		style = th.CardActive
	}
	inner := width - 4
	if inner < 1 {
		inner = 1
	}

	title := strings.TrimSpace(c.Post.Title)
	if title == "" {
		title = "(untitled)"
	}
	lines := []string{
		th.DateBadge.Render(truncate(c.Date, inner)),
		th.CardTitle.Render(truncate(title, inner)),
	}
	if !compact {
		lines = append(lines, summaryLines(c.Post.Summary, inner, height-4, th)...)
	}
	return style.
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

func RenderDeck(cards []DeckCard, layout DeckLayout, compact bool, th tuitheme.Theme) string {
	if len(cards) == 0 {
		return th.BackdropText.Render("No posts yet. Press r to fetch.")
	}
	rows := make([]string, 0, layout.Rows)
	for start := 0; start < len(cards); start += layout.Columns {
		end := start + layout.Columns
		if end > len(cards) {
			end = len(cards)
		}
		row := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			row = append(row, RenderCard(c, layout.CardWidth, layout.CardHeight, compact, th))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func summaryLines(summary string, width, maxLines int, th tuitheme.Theme) []string {
	summary = strings.Join(strings.Fields(summary), " ")
	if summary == "" || maxLines <= 0 {
		return nil
	}
	wrapped := postrender.WrapText(summary, width)
	if len(wrapped) > maxLines {
		last := wrapped[maxLines-1]
		wrapped = wrapped[:maxLines]
		wrapped[maxLines-1] = runewidth.Truncate(last+" …", width, "…")
	}
	out := make([]string, len(wrapped))
	for i, l := range wrapped {
		out[i] = th.CardSummary.Render(l)
	}
	return out
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
