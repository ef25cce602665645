// Package card holds the expansion and navigation engine behind a deck of
// post cards: which post is focused, whether the reader is open, how a
// drag or key press turns into a page turn, and the view model the
// terminal UI renders from.
package card

// Post is the subset of a blog post the deck needs. Empty Summary, Content
// and PublishedAt mean the field was absent.
type Post struct {
	ID          string
	Slug        string
	Title       string
	Summary     string
	Content     string
	PublishedAt string
	Tags        []string
	CoverID     string
}

// IndexOfSlug returns the position of slug in posts or -1.
func IndexOfSlug(posts []Post, slug string) int {
	if slug == "" {
		return -1
	}
	for i, p := range posts {
		if p.Slug == slug {
			return i
		}
	}
	return -1
}
