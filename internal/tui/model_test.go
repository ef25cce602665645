package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/postdeck/internal/app"
	"github.com/glabrego/postdeck/internal/card"
	"github.com/glabrego/postdeck/internal/tui/actions"
	"github.com/glabrego/postdeck/internal/tui/view"
)

type fakeService struct {
	posts    []card.Post
	post     card.Post
	err      error
	saved    []app.UIPreferences
	lastSlug string
}

func (f *fakeService) Refresh(context.Context, int) ([]card.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

func (f *fakeService) LoadPost(_ context.Context, slug string) (card.Post, error) {
	f.lastSlug = slug
	if f.err != nil {
		return card.Post{}, f.err
	}
	return f.post, nil
}

func (f *fakeService) SaveUIPreferences(_ context.Context, prefs app.UIPreferences) error {
	f.saved = append(f.saved, prefs)
	return f.err
}

func samplePosts() []card.Post {
	return []card.Post{
		{Slug: "newest", Title: "Newest post", Summary: "Fresh news", PublishedAt: "2025-03-10T09:00:00Z"},
		{Slug: "middle", Title: "Middle post", Summary: "In between", PublishedAt: "2025-03-05T09:00:00Z"},
		{Slug: "oldest", Title: "Oldest post", Summary: "Way back", PublishedAt: "2025-02-01T09:00:00Z"},
	}
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	return updated.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(m Model, x, y int) Model {
	updated, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return updated.(Model)
}

func focusedSlug(t *testing.T, m Model) string {
	t.Helper()
	s := m.activeSession()
	if s == nil {
		t.Fatal("expected an open card")
	}
	return s.State().Focused.Slug
}

func TestModelView_ShowsCards(t *testing.T) {
	m := sized(NewModel(nil, samplePosts()))
	out := m.View()
	for _, want := range []string{"Postdeck", "Newest post", "Middle post", "Oldest post", "3 shown"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in deck view, got: %s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 30 {
		t.Fatalf("expected deck to fill 30 rows, got %d", lines)
	}
}

func TestModelUpdate_DeckArrowsMoveCursor(t *testing.T) {
	m := sized(NewModel(nil, samplePosts()))

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.cursor != 1 {
		t.Fatalf("expected cursor at 1, got %d", m.cursor)
	}
	m, _ = press(m, runes("l"))
	m, _ = press(m, runes("l"))
	if m.cursor != 2 {
		t.Fatalf("expected cursor to stop at 2, got %d", m.cursor)
	}
	m, _ = press(m, runes("g"))
	if m.cursor != 0 {
		t.Fatalf("expected cursor at 0, got %d", m.cursor)
	}
	if m.activeSession() != nil {
		t.Fatal("deck navigation must not open a card")
	}
}

func TestModelUpdate_KeyboardPaging(t *testing.T) {
	m := sized(NewModel(nil, samplePosts()))

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := focusedSlug(t, m); got != "newest" {
		t.Fatalf("expected newest, got %s", got)
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := focusedSlug(t, m); got != "middle" {
		t.Fatalf("expected middle after left, got %s", got)
	}
	if cmd == nil || m.slide != -slideDistance {
		t.Fatalf("expected slide animation from the left, slide=%d", m.slide)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if got := focusedSlug(t, m); got != "newest" {
		t.Fatalf("expected newest after right, got %s", got)
	}
	if m.slide != slideDistance {
		t.Fatalf("expected slide from the right, got %d", m.slide)
	}

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if got := focusedSlug(t, m); got != "newest" {
		t.Fatalf("expected to stay on newest, got %s", got)
	}
	if cmd != nil {
		t.Fatal("expected no command when newer is unavailable")
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.activeSession() != nil || m.active != "" {
		t.Fatal("expected escape to close the card")
	}
	if m.sessions["newest"].Listening() {
		t.Fatal("expected key listener removed after close")
	}
}

func TestModelUpdate_ReopenShowsLastFocusedPost(t *testing.T) {
	m := sized(NewModel(nil, samplePosts()))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})

	if got := strings.Count(m.View(), "Middle post"); got != 2 {
		t.Fatalf("expected first card to show the middle post too, got %d occurrences", got)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := focusedSlug(t, m); got != "middle" {
		t.Fatalf("expected reopened card on middle, got %s", got)
	}
	if dir := m.activeSession().State().LastDirection; dir != card.DirectionNone {
		t.Fatalf("expected direction reset on open, got %s", dir)
	}
}

func TestModelUpdate_ClickOpensCardAndBackdropCloses(t *testing.T) {
	m := sized(NewModel(nil, samplePosts()))

	m = click(m, 31, view.HeaderLines+1)
	if got := focusedSlug(t, m); got != "middle" {
		t.Fatalf("expected click to open middle card, got %s", got)
	}

	m = click(m, 0, 10)
	if m.activeSession() != nil {
		t.Fatal("expected backdrop click to close the card")
	}
}

func TestModelUpdate_ReaderButtons(t *testing.T) {
	m := sized(NewModel(nil, samplePosts()))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	layout := m.readerLayout()
	row := layout.Top + 1

	m = click(m, layout.InnerLeft(), row)
	if got := focusedSlug(t, m); got != "middle" {
		t.Fatalf("expected older button to show middle, got %s", got)
	}
	m = click(m, layout.InnerLeft()+9, row)
	if got := focusedSlug(t, m); got != "newest" {
		t.Fatalf("expected newer button to show newest, got %s", got)
	}
	m = click(m, layout.InnerLeft()+layout.InnerWidth()-1, row)
	if m.activeSession() != nil {
		t.Fatal("expected close button to close the card")
	}
}

func TestModelUpdate_SwipeGestures(t *testing.T) {
	clock := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m := sized(NewModel(nil, samplePosts()))
	m.nowFn = func() time.Time { return clock }
	m.cursor = 1
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	// Slow short drag: below both thresholds.
	m = click(m, 40, 15)
	clock = clock.Add(time.Second)
	updated, _ := m.Update(tea.MouseMsg{X: 38, Y: 15, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = updated.(Model)
	if got := focusedSlug(t, m); got != "middle" {
		t.Fatalf("expected short drag to be ignored, got %s", got)
	}

	// Long drag to the left asks for the newer post.
	m = click(m, 40, 15)
	clock = clock.Add(50 * time.Millisecond)
	updated, _ = m.Update(tea.MouseMsg{X: 30, Y: 15, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = updated.(Model)
	if shift := m.readerInput(m.activeSession()).Shift; shift != -2 {
		t.Fatalf("expected elastic shift of -2 while dragging, got %d", shift)
	}
	clock = clock.Add(50 * time.Millisecond)
	updated, cmd := m.Update(tea.MouseMsg{X: 21, Y: 15, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = updated.(Model)
	if got := focusedSlug(t, m); got != "newest" {
		t.Fatalf("expected swipe left to show newest, got %s", got)
	}
	if cmd == nil {
		t.Fatal("expected slide animation after swipe")
	}
	if m.drag.Active() {
		t.Fatal("expected drag to end on release")
	}
}

func TestModelUpdate_PressDuringDragRestartsHitTest(t *testing.T) {
	m := sized(NewModel(nil, samplePosts()))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	m = click(m, 40, 15)
	if !m.drag.Active() {
		t.Fatal("expected press on the card to start a drag")
	}

	// No release arrives; the next press starts over.
	m = click(m, 41, 16)
	if !m.drag.Active() {
		t.Fatal("expected a fresh drag from the new press")
	}
	if got := focusedSlug(t, m); got != "newest" {
		t.Fatalf("expected card to stay on newest, got %s", got)
	}

	m = click(m, 0, 10)
	if m.activeSession() != nil {
		t.Fatal("expected backdrop click to close the card after a lost release")
	}
	if m.drag.Active() {
		t.Fatal("expected the stale drag to be cancelled")
	}
}

func TestModelUpdate_SlideTickDecays(t *testing.T) {
	m := sized(NewModel(nil, samplePosts()))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})

	updated, cmd := m.Update(slideTickMsg{key: m.slideKey + 1})
	if updated.(Model).slide != -slideDistance || cmd != nil {
		t.Fatal("expected stale slide tick to be ignored")
	}

	for i := 0; i < slideDistance/slideStep; i++ {
		updated, cmd = m.Update(slideTickMsg{key: m.slideKey})
		m = updated.(Model)
	}
	if m.slide != 0 || cmd != nil {
		t.Fatalf("expected slide to settle at 0, got %d", m.slide)
	}
}

func TestModelUpdate_ReaderScroll(t *testing.T) {
	paragraphs := make([]string, 60)
	for i := range paragraphs {
		paragraphs[i] = fmt.Sprintf("Line %d", i)
	}
	posts := []card.Post{{Slug: "long", Title: "Long", Content: strings.Join(paragraphs, "\n\n")}}
	m := sized(NewModel(nil, posts))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = press(m, runes("j"))
	m, _ = press(m, runes("j"))
	if m.readerTop != 2 {
		t.Fatalf("expected reader top 2, got %d", m.readerTop)
	}
	m, _ = press(m, runes("k"))
	m, _ = press(m, runes("k"))
	m, _ = press(m, runes("k"))
	if m.readerTop != 0 {
		t.Fatalf("expected reader top clamped at 0, got %d", m.readerTop)
	}
	updated, _ := m.Update(tea.MouseMsg{X: 40, Y: 10, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got := updated.(Model).readerTop; got != wheelLines {
		t.Fatalf("expected wheel to scroll %d lines, got %d", wheelLines, got)
	}
}

func TestModelUpdate_OpenAndCopyPostURL(t *testing.T) {
	var opened, copied string
	m := sized(NewModel(nil, samplePosts(), WithSiteURL("https://misavoid.dev")))
	m.openURLFn = func(u string) error { opened = u; return nil }
	m.copyURLFn = func(u string) error { copied = u; return nil }
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	_, cmd := press(m, runes("o"))
	if cmd == nil {
		t.Fatal("expected open command")
	}
	if _, ok := cmd().(actions.OpenURLSuccessMsg); !ok {
		t.Fatal("expected open success")
	}
	if opened != "https://misavoid.dev/blog/newest" {
		t.Fatalf("unexpected opened URL: %q", opened)
	}

	_, cmd = press(m, runes("y"))
	if _, ok := cmd().(actions.OpenURLSuccessMsg); !ok {
		t.Fatal("expected copy success")
	}
	if copied != "https://misavoid.dev/blog/newest" {
		t.Fatalf("unexpected copied URL: %q", copied)
	}
}

func TestModelUpdate_OpenURLWithoutSlug(t *testing.T) {
	m := sized(NewModel(nil, []card.Post{{Slug: " ", Title: "Blank slug"}}, WithSiteURL("https://misavoid.dev")))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(m, runes("o"))
	if !strings.Contains(m.status, "no slug") {
		t.Fatalf("expected slug error status, got %q", m.status)
	}
}

func TestModelUpdate_RefreshRebasesSessions(t *testing.T) {
	svc := &fakeService{}
	m := sized(NewModel(svc, samplePosts()))
	m.loading = false

	m.cursor = 2
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	m.cursor = 0
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.activeSession().CanGoNewer() {
		t.Fatal("newest card cannot page newer before refresh")
	}

	m, cmd := press(m, runes("r"))
	if cmd == nil || !m.loading {
		t.Fatal("expected refresh to start loading")
	}

	fresh := append([]card.Post{{Slug: "fresh", Title: "Fresh post"}}, samplePosts()[:2]...)
	updated, _ := m.Update(actions.RefreshSuccessMsg{Posts: fresh, Source: "init"})
	m = updated.(Model)
	if m.loading || m.source != "directus" {
		t.Fatalf("expected loading done from directus, loading=%v source=%s", m.loading, m.source)
	}
	s := m.activeSession()
	if s == nil || !s.CanGoNewer() || s.State().Index != 1 {
		t.Fatal("expected open card to be rebased onto the new list")
	}
	if m.cursor != 1 {
		t.Fatalf("expected cursor to follow its post, got %d", m.cursor)
	}
	if _, ok := m.sessions["oldest"]; ok {
		t.Fatal("expected session of removed post to be dropped")
	}
}

func TestModelUpdate_RefreshError(t *testing.T) {
	m := NewModel(&fakeService{}, samplePosts())
	updated, _ := m.Update(actions.RefreshErrorMsg{Err: errors.New("network"), Source: "init"})
	got := updated.(Model)
	if got.err == nil || got.loading {
		t.Fatal("expected refresh error to be surfaced")
	}
	if !strings.Contains(got.View(), "network") {
		t.Fatal("expected error in message panel")
	}
}

func TestModelUpdate_PreferenceToggles(t *testing.T) {
	svc := &fakeService{}
	m := sized(NewModel(svc, samplePosts(), WithPreferences(app.UIPreferences{RelativeTime: true})))
	if !m.relativeTime || m.compact {
		t.Fatal("expected preferences to seed the model")
	}

	m, cmd := press(m, runes("c"))
	if !m.compact || cmd == nil {
		t.Fatal("expected compact toggle with persist command")
	}
	m, _ = press(m, runes("t"))
	if m.relativeTime || m.status != "Dates: absolute" {
		t.Fatalf("expected absolute dates, status=%q", m.status)
	}

	updated, _ := m.Update(actions.PreferencesErrorMsg{Err: errors.New("disk full")})
	if updated.(Model).status != "Could not persist UI preferences" {
		t.Fatal("expected persistence failure status")
	}
}

func TestModel_StandalonePost(t *testing.T) {
	svc := &fakeService{post: card.Post{Slug: "solo", Title: "Solo post", Content: "Just me."}}
	m := NewModel(svc, samplePosts(), WithStandalone("solo"))
	if len(m.posts) != 0 {
		t.Fatal("standalone mode ignores the cached deck")
	}
	if m.Init() == nil {
		t.Fatal("expected init to load the post")
	}

	updated, _ := m.Update(actions.LoadPostSuccessMsg{Post: svc.post})
	m = sized(updated.(Model))
	s := m.activeSession()
	if s == nil {
		t.Fatal("expected standalone post to open")
	}
	if s.CanGoOlder() || s.CanGoNewer() {
		t.Fatal("standalone post has nothing to page to")
	}
	out := m.View()
	if !strings.Contains(out, "Solo post") || strings.Contains(out, "older") {
		t.Fatalf("unexpected standalone view: %s", out)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := focusedSlug(t, m); got != "solo" {
		t.Fatalf("expected to stay on solo, got %s", got)
	}
}

func TestModel_StandaloneButtonStripIsCard(t *testing.T) {
	svc := &fakeService{post: card.Post{Slug: "solo", Title: "Solo post", Content: "Just me."}}
	m := NewModel(svc, nil, WithStandalone("solo"))
	updated, _ := m.Update(actions.LoadPostSuccessMsg{Post: svc.post})
	m = sized(updated.(Model))

	layout := m.readerLayout()
	m = click(m, layout.InnerLeft(), layout.Top+1)
	if m.activeSession() == nil {
		t.Fatal("expected standalone post to stay open")
	}
	if !m.drag.Active() {
		t.Fatal("expected press where the hidden buttons sit to start a drag")
	}
}

func TestModel_StandaloneLoadError(t *testing.T) {
	notFound := errors.New("post not found")
	m := NewModel(&fakeService{}, nil, WithStandalone("gone"))
	updated, _ := m.Update(actions.LoadPostErrorMsg{Slug: "gone", Err: notFound})
	got := updated.(Model)
	if got.err == nil || !errors.Is(got.err, notFound) {
		t.Fatalf("expected not found error, got %v", got.err)
	}
}

func TestModelUpdate_HelpToggle(t *testing.T) {
	m := sized(NewModel(nil, samplePosts()))
	m, _ = press(m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "expand card") {
		t.Fatal("expected help view")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatal("expected esc to close help")
	}
	_, cmd := press(m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
