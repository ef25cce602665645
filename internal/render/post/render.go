package post

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	nethtml "golang.org/x/net/html"

	"github.com/glabrego/postdeck/internal/card"
)

var reBlankRun = regexp.MustCompile(`\n{3,}`)

// BodyText is the post's content when it has any, else its summary. HTML
// content is converted to Markdown so the terminal shows readable text.
func BodyText(p card.Post) string {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return strings.TrimSpace(p.Summary)
	}
	if !looksLikeHTML(content) {
		return content
	}
	md, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return plainText(content)
	}
	md = strings.TrimSpace(reBlankRun.ReplaceAllString(md, "\n\n"))
	if md == "" {
		return strings.TrimSpace(p.Summary)
	}
	return md
}

// BodyLines wraps BodyText to width columns.
func BodyLines(p card.Post, width int) []string {
	text := BodyText(p)
	if text == "" {
		return nil
	}
	return WrapText(text, width)
}

// WrapText word-wraps text and hard-breaks words longer than width.
func WrapText(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	wrapped := wrap.String(wordwrap.String(text, width), width)
	return strings.Split(wrapped, "\n")
}

// ImageURLs lists the distinct http(s) image sources in content, in
// document order.
func ImageURLs(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	z := nethtml.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return out
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "img" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key != "src" {
					continue
				}
				src := strings.TrimSpace(html.UnescapeString(attr.Val))
				u, err := url.Parse(src)
				if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
					continue
				}
				if _, dup := seen[src]; dup {
					continue
				}
				seen[src] = struct{}{}
				out = append(out, src)
			}
		}
	}
}

func looksLikeHTML(s string) bool {
	z := nethtml.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return false
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken, nethtml.EndTagToken:
			return true
		}
	}
}

func plainText(s string) string {
	var b strings.Builder
	z := nethtml.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return strings.TrimSpace(b.String())
		case nethtml.TextToken:
			b.Write(z.Text())
		case nethtml.StartTagToken, nethtml.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "p", "br", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteString("\n")
			}
		}
	}
}
