package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/postdeck/internal/card"
	postrender "github.com/glabrego/postdeck/internal/render/post"
	tuitheme "github.com/glabrego/postdeck/internal/tui/theme"
)

// DragResistance scales a live drag offset into the overlay shift.
const DragResistance = 0.25

type ReaderInput struct {
	Post       card.Post
	View       card.ViewModel
	Date       string
	Link       string
	Layout     ReaderLayout
	Shift      int
	Scroll     int
	Standalone bool
}

// ElasticShift is the horizontal overlay shift for a drag of offsetCells.
func ElasticShift(offsetCells int) int {
	return int(float64(offsetCells) * DragResistance)
}

func readerHeader(in ReaderInput, th tuitheme.Theme) []string {
	width := in.Layout.InnerWidth()
	lines := []string{readerButtons(in, width, th), ""}
	for _, l := range postrender.WrapText(strings.TrimSpace(in.Post.Title), width) {
		lines = append(lines, th.ReaderTitle.Render(l))
	}
	date := truncate(in.Date, width)
	meta := th.ReaderDate.Render(date)
	if len(in.Post.Tags) > 0 {
		room := width - lipgloss.Width(date)
		if date != "" {
			room -= 2
			meta += "  "
		}
		meta += th.ReaderTag.Render(truncate("#"+strings.Join(in.Post.Tags, " #"), room))
	}
	if date != "" || len(in.Post.Tags) > 0 {
		lines = append(lines, meta)
	}
	return append(lines, "")
}

func readerButtons(in ReaderInput, width int, th tuitheme.Theme) string {
	older := th.BackdropText.Render(olderLabel)
	if in.View.CanGoOlder {
		older = th.Button.Render(olderLabel)
	}
	newer := th.BackdropText.Render(newerLabel)
	if in.View.CanGoNewer {
		newer = th.Button.Render(newerLabel)
	}
	left := older + "  " + newer
	if in.Standalone {
		left = ""
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(closeLabel)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + th.Button.Render(closeLabel)
}

func readerBody(in ReaderInput, th tuitheme.Theme) []string {
	width := in.Layout.InnerWidth()
	body := postrender.BodyLines(in.Post, width)
	if images := postrender.ImageURLs(in.Post.Content); len(images) > 0 {
		body = append(body, "")
		for _, src := range images {
			body = append(body, th.ReaderImage.Render(truncate("[image] "+src, width)))
		}
	}
	return body
}

func readerFooter(in ReaderInput, th tuitheme.Theme) []string {
	if in.Link == "" {
		return nil
	}
	width := in.Layout.InnerWidth()
	return []string{"", th.ReadMore.Render("Read more") + " " + th.MetaValue.Render(truncate(in.Link, width-12))}
}

// ReaderBodyHeight is how many body rows fit between header and footer.
func ReaderBodyHeight(in ReaderInput, th tuitheme.Theme) int {
	h := in.Layout.InnerHeight() - len(readerHeader(in, th)) - len(readerFooter(in, th))
	if h < 1 {
		return 1
	}
	return h
}

// ReaderMaxScroll is the largest useful scroll offset for the body.
func ReaderMaxScroll(in ReaderInput, th tuitheme.Theme) int {
	maxTop := len(readerBody(in, th)) - ReaderBodyHeight(in, th)
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

// RenderReader draws the expanded card over a blank backdrop of the given
// terminal size.
func RenderReader(in ReaderInput, width, height int, th tuitheme.Theme) string {
	header := readerHeader(in, th)
	body := readerBody(in, th)
	footer := readerFooter(in, th)
	bodyHeight := ReaderBodyHeight(in, th)

	top := in.Scroll
	if maxTop := len(body) - bodyHeight; top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	end := top + bodyHeight
	if end > len(body) {
		end = len(body)
	}
	visible := body[top:end]
	for len(visible) < bodyHeight {
		visible = append(visible, "")
	}

	content := make([]string, 0, len(header)+bodyHeight+len(footer))
	content = append(content, header...)
	content = append(content, visible...)
	content = append(content, footer...)

	box := th.Reader.
		Width(in.Layout.Width - 2).
		Height(in.Layout.InnerHeight()).
		MaxHeight(in.Layout.Height).
		Render(strings.Join(content, "\n"))

	left := in.Layout.Left + in.Shift
	if left < 0 {
		left = 0
	}
	if maxLeft := width - in.Layout.Width; maxLeft >= 0 && left > maxLeft {
		left = maxLeft
	}

	out := make([]string, 0, height)
	for i := 0; i < in.Layout.Top; i++ {
		out = append(out, "")
	}
	pad := strings.Repeat(" ", left)
	for _, l := range strings.Split(box, "\n") {
		out = append(out, pad+l)
	}
	if len(out) < height {
		hint := th.BackdropText.Render("click outside or press esc to close")
		for len(out) < height-1 {
			out = append(out, "")
		}
		out = append(out, hint)
	}
	return strings.Join(out, "\n")
}
