package view

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/glabrego/postdeck/internal/card"
	tuitheme "github.com/glabrego/postdeck/internal/tui/theme"
)

func longPost(paragraphs int) card.Post {
	parts := make([]string, paragraphs)
	for i := range parts {
		parts[i] = fmt.Sprintf("Paragraph %d.", i+1)
	}
	return card.Post{
		Slug:    "long",
		Title:   "A long read",
		Tags:    []string{"go", "tui"},
		Content: strings.Join(parts, "\n\n"),
	}
}

func TestElasticShift(t *testing.T) {
	assert.Equal(t, 0, ElasticShift(0))
	assert.Equal(t, 5, ElasticShift(20))
	assert.Equal(t, -2, ElasticShift(-10))
}

func TestRenderReader_Frame(t *testing.T) {
	th := tuitheme.Default()
	in := ReaderInput{
		Post:   longPost(2),
		View:   card.ViewModel{CanGoOlder: true},
		Date:   "3/9/2025",
		Link:   "https://misavoid.dev/blog/long",
		Layout: NewReaderLayout(100, 30),
	}
	got := stripANSI(RenderReader(in, 100, 30, th))
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 30)
	assert.Equal(t, "", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], strings.Repeat(" ", 6)+"╭"), lines[1])
	assert.Contains(t, lines[2], "← older")
	assert.Contains(t, lines[2], "newer →")
	assert.Contains(t, lines[2], "✕")
	assert.Contains(t, got, "A long read")
	assert.Contains(t, got, "3/9/2025  #go #tui")
	assert.Contains(t, got, "Paragraph 2.")
	assert.Contains(t, got, "Read more")
	assert.Contains(t, got, "https://misavoid.dev/blog/long")
	assert.Contains(t, lines[29], "esc to close")
}

func TestRenderReader_CloseButtonMatchesHitTest(t *testing.T) {
	th := tuitheme.Default()
	in := ReaderInput{Post: longPost(1), Layout: NewReaderLayout(100, 30)}
	lines := strings.Split(stripANSI(RenderReader(in, 100, 30, th)), "\n")
	row := lines[in.Layout.Top+1]
	x := strings.Index(row, "✕")
	assert.Equal(t, RegionClose, in.Layout.HitTest(lipgloss.Width(row[:x]), in.Layout.Top+1))
}

func TestRenderReader_Shift(t *testing.T) {
	th := tuitheme.Default()
	in := ReaderInput{Post: longPost(1), Layout: NewReaderLayout(100, 30), Shift: 3}
	lines := strings.Split(stripANSI(RenderReader(in, 100, 30, th)), "\n")
	assert.True(t, strings.HasPrefix(lines[1], strings.Repeat(" ", 9)+"╭"), lines[1])

	in.Shift = -50
	lines = strings.Split(stripANSI(RenderReader(in, 100, 30, th)), "\n")
	assert.True(t, strings.HasPrefix(lines[1], "╭"), lines[1])
}

func TestRenderReader_Scroll(t *testing.T) {
	th := tuitheme.Default()
	in := ReaderInput{Post: longPost(40), Layout: NewReaderLayout(100, 30)}
	maxTop := ReaderMaxScroll(in, th)
	assert.Greater(t, maxTop, 0)

	top := stripANSI(RenderReader(in, 100, 30, th))
	assert.Contains(t, top, "Paragraph 1.")
	assert.NotContains(t, top, "Paragraph 40.")

	in.Scroll = maxTop + 10
	bottom := stripANSI(RenderReader(in, 100, 30, th))
	assert.Contains(t, bottom, "Paragraph 40.")
	assert.NotContains(t, bottom, "Paragraph 1.")
}

func TestRenderReader_ListsImages(t *testing.T) {
	th := tuitheme.Default()
	in := ReaderInput{
		Post:   card.Post{Title: "Pics", Content: `<p>Look</p><img src="https://cdn.example.com/a.png">`},
		Layout: NewReaderLayout(100, 30),
	}
	got := stripANSI(RenderReader(in, 100, 30, th))
	assert.Contains(t, got, "[image] https://cdn.example.com/a.png")
}

func TestRenderReader_StandaloneHidesPaging(t *testing.T) {
	th := tuitheme.Default()
	in := ReaderInput{Post: longPost(1), Layout: NewReaderLayout(100, 30), Standalone: true}
	got := stripANSI(RenderReader(in, 100, 30, th))
	assert.NotContains(t, got, "older")
	assert.Contains(t, got, "✕")
}
