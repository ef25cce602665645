package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/glabrego/postdeck/internal/app"
	"github.com/glabrego/postdeck/internal/card"
	"github.com/glabrego/postdeck/internal/tui/actions"
	"github.com/glabrego/postdeck/internal/tui/platform"
	tuistate "github.com/glabrego/postdeck/internal/tui/state"
	tuitheme "github.com/glabrego/postdeck/internal/tui/theme"
	"github.com/glabrego/postdeck/internal/tui/view"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	slideDistance = 8
	slideStep     = 2
	slideInterval = 30 * time.Millisecond
	wheelLines    = 3
)

type clearStatusMsg struct {
	id int
}

type slideTickMsg struct {
	key int
}

type Model struct {
	service    actions.Service
	posts      []card.Post
	sessions   map[string]*card.Session
	active     string
	standalone string
	cursor     int
	deckRow    int
	readerTop  int
	drag       card.DragTracker
	slide      int
	slideKey   int

	width    int
	height   int
	loading  bool
	showHelp bool
	status   string
	statusID int
	err      error
	source   string

	compact      bool
	relativeTime bool
	siteURL      string
	title        string
	limit        int
	dates        card.DateFormatter

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	theme   tuitheme.Theme
	logger  *zap.Logger

	nowFn     func() time.Time
	openURLFn func(string) error
	copyURLFn func(string) error
}

type Option func(*Model)

func WithSiteURL(siteURL string) Option {
	return func(m *Model) { m.siteURL = siteURL }
}

func WithLimit(limit int) Option {
	return func(m *Model) {
		if limit > 0 {
			m.limit = limit
		}
	}
}

func WithDateFormatter(f card.DateFormatter) Option {
	return func(m *Model) { m.dates = f }
}

// WithCellWidth sets how many pixels one column counts for when measuring
// swipes.
func WithCellWidth(px float64) Option {
	return func(m *Model) { m.drag.CellWidth = px }
}

func WithPreferences(prefs app.UIPreferences) Option {
	return func(m *Model) {
		m.compact = prefs.Compact
		m.relativeTime = prefs.RelativeTime
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStandalone starts on a single post loaded by slug instead of the deck.
func WithStandalone(slug string) Option {
	return func(m *Model) { m.standalone = strings.TrimSpace(slug) }
}

func NewModel(service actions.Service, posts []card.Post, opts ...Option) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	m := Model{
		service:   service,
		posts:     posts,
		sessions:  make(map[string]*card.Session),
		source:    "cache",
		title:     "Postdeck",
		limit:     app.DefaultCacheLimit,
		dates:     card.DefaultDateFormatter(),
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   spin,
		theme:     tuitheme.Default(),
		logger:    zap.NewNop(),
		nowFn:     time.Now,
		openURLFn: platform.OpenURLInBrowser,
		copyURLFn: platform.CopyToClipboard,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.standalone != "" {
		m.posts = nil
	}
	m.loading = service != nil
	return m
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	if m.standalone != "" {
		return tea.Batch(m.spinner.Tick, actions.LoadPostCmd(m.service, m.standalone))
	}
	return tea.Batch(m.spinner.Tick, actions.RefreshCmd(m.service, m.limit, "init"))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureCursorVisible()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case slideTickMsg:
		s := m.activeSession()
		if s == nil || msg.key != m.slideKey || m.slide == 0 {
			return m, nil
		}
		switch {
		case m.slide > 0:
			m.slide = max(0, m.slide-slideStep)
		case m.slide < 0:
			m.slide = min(0, m.slide+slideStep)
		}
		if m.slide == 0 {
			return m, nil
		}
		return m, slideTickCmd(msg.key)
	case actions.RefreshSuccessMsg:
		m.loading = false
		m.err = nil
		m.source = "directus"
		m.setPosts(msg.Posts)
		m.logger.Debug("posts refreshed",
			zap.Int("count", len(msg.Posts)),
			zap.Duration("duration", msg.Duration),
			zap.String("source", msg.Source))
		if msg.Source == "manual" {
			m.status = fmt.Sprintf("Loaded %d posts in %dms", len(msg.Posts), msg.Duration.Milliseconds())
			m.statusID++
			return m, clearStatusCmd(m.statusID, 3*time.Second)
		}
		return m, nil
	case actions.RefreshErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.Err
		m.logger.Warn("refresh failed", zap.Error(msg.Err), zap.String("source", msg.Source))
		return m, nil
	case actions.LoadPostSuccessMsg:
		m.loading = false
		m.err = nil
		m.source = "directus"
		m.posts = []card.Post{msg.Post}
		s := card.NewSession(msg.Post, nil, m.sessionOptions()...)
		m.sessions = map[string]*card.Session{msg.Post.Slug: s}
		m.cursor = 0
		m.openSession(msg.Post.Slug)
		return m, nil
	case actions.LoadPostErrorMsg:
		m.loading = false
		m.status = ""
		m.err = fmt.Errorf("load %q: %w", msg.Slug, msg.Err)
		m.logger.Warn("load post failed", zap.String("slug", msg.Slug), zap.Error(msg.Err))
		return m, nil
	case actions.OpenURLSuccessMsg:
		m.err = nil
		m.status = msg.Status
		m.statusID++
		return m, clearStatusCmd(m.statusID, 3*time.Second)
	case actions.OpenURLErrorMsg:
		m.err = nil
		m.status = msg.Err.Error()
		m.statusID++
		return m, clearStatusCmd(m.statusID, 4*time.Second)
	case actions.PreferencesSavedMsg:
		return m, nil
	case actions.PreferencesErrorMsg:
		m.err = msg.Err
		m.status = "Could not persist UI preferences"
		m.logger.Warn("save preferences failed", zap.Error(msg.Err))
		return m, nil
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), msg.String() == "esc":
			m.showHelp = false
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	if s := m.activeSession(); s != nil {
		res := s.HandleKey(msg)
		switch {
		case res.Closed:
			return m.afterClose(s)
		case res.Navigated:
			return m.afterNavigate(s)
		case res.Handled:
			return m, nil
		}
		return m.handleReaderKey(msg, s)
	}

	size := len(m.posts)
	columns := m.deckLayout().Columns
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Up):
		m.cursor = tuistate.GridMove(m.cursor, size, columns, -1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = tuistate.GridMove(m.cursor, size, columns, 1, 0)
	case key.Matches(msg, m.keys.Left):
		m.cursor = tuistate.GridMove(m.cursor, size, columns, 0, -1)
	case key.Matches(msg, m.keys.Right):
		m.cursor = tuistate.GridMove(m.cursor, size, columns, 0, 1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = tuistate.ClampCursor(size-1, size)
	case key.Matches(msg, m.keys.Open):
		if size > 0 {
			m.openSession(m.posts[m.cursor].Slug)
		}
	case key.Matches(msg, m.keys.Compact):
		m.compact = !m.compact
		if m.compact {
			m.status = "Compact cards: on"
		} else {
			m.status = "Compact cards: off"
		}
		cmd := m.persistPreferences()
		return m, cmd
	case key.Matches(msg, m.keys.Time):
		m.relativeTime = !m.relativeTime
		if m.relativeTime {
			m.status = "Dates: relative"
		} else {
			m.status = "Dates: absolute"
		}
		cmd := m.persistPreferences()
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	}
	m.ensureCursorVisible()
	return m, nil
}

func (m Model) handleReaderKey(msg tea.KeyMsg, s *card.Session) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.ScrollUp):
		m.scrollReader(s, -1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.scrollReader(s, 1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollReader(s, -tuistate.PageStep(m.viewHeight(), m.status != "" || m.err != nil))
	case key.Matches(msg, m.keys.PageDown):
		m.scrollReader(s, tuistate.PageStep(m.viewHeight(), m.status != "" || m.err != nil))
	case key.Matches(msg, m.keys.OpenURL):
		return m.openPostURL(s, true)
	case key.Matches(msg, m.keys.CopyURL):
		return m.openPostURL(s, false)
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}
	now := m.nowFn()

	if s := m.activeSession(); s != nil {
		if m.drag.Active() {
			switch msg.Action {
			case tea.MouseActionMotion:
				m.drag.Move(msg.X, now)
			case tea.MouseActionRelease:
				offset, velocity, ok := m.drag.Release(msg.X, now)
				if !ok {
					return m, nil
				}
				g := card.Interpret(offset, velocity)
				m.logger.Debug("drag released",
					zap.Float64("offset_px", offset),
					zap.Float64("velocity_px_s", velocity),
					zap.Stringer("gesture", g))
				if s.ApplyGesture(g) {
					return m.afterNavigate(s)
				}
				return m, nil
			case tea.MouseActionPress:
				// The release of the previous drag never arrived.
				m.drag.Cancel()
			default:
				return m, nil
			}
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollReader(s, -wheelLines)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.scrollReader(s, wheelLines)
			return m, nil
		case tea.MouseButtonLeft:
			if msg.Action != tea.MouseActionPress {
				return m, nil
			}
		default:
			return m, nil
		}

		region := m.readerLayout().HitTest(msg.X, msg.Y)
		if m.standalone != "" && (region == view.RegionOlder || region == view.RegionNewer) {
			region = view.RegionCard
		}
		switch region {
		case view.RegionBackdrop, view.RegionClose:
			s.Close()
			return m.afterClose(s)
		case view.RegionOlder:
			if s.GoOlder() {
				return m.afterNavigate(s)
			}
		case view.RegionNewer:
			if s.GoNewer() {
				return m.afterNavigate(s)
			}
		case view.RegionCard:
			m.drag.Press(msg.X, now)
		}
		return m, nil
	}

	layout := m.deckLayout()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.cursor = tuistate.GridMove(m.cursor, len(m.posts), layout.Columns, -1, 0)
		m.ensureCursorVisible()
	case tea.MouseButtonWheelDown:
		m.cursor = tuistate.GridMove(m.cursor, len(m.posts), layout.Columns, 1, 0)
		m.ensureCursorVisible()
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if idx := layout.CardAt(msg.X, msg.Y); idx >= 0 {
			m.cursor = idx
			m.openSession(m.posts[idx].Slug)
		}
	}
	return m, nil
}

func (m Model) View() string {
	width, height := m.viewWidth(), m.viewHeight()
	var b strings.Builder
	if m.showHelp {
		b.WriteString(view.Header(m.title, len(m.posts), m.active != "", m.theme))
		b.WriteString("\n\n")
		h := m.help
		h.ShowAll = true
		b.WriteString(h.View(m.keys))
		b.WriteString("\n\n")
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		b.WriteString(m.footer())
		return b.String()
	}
	if s := m.activeSession(); s != nil {
		return view.RenderReader(m.readerInput(s), width, height, m.theme)
	}

	b.WriteString(view.Header(m.title, len(m.posts), false, m.theme))
	b.WriteString("\n")
	b.WriteString(m.theme.MetaLabel.Render(view.Toolbar(false)))
	b.WriteString("\n")

	used := view.HeaderLines
	if m.loading && len(m.posts) == 0 {
		b.WriteString(m.spinner.View() + " Loading posts...")
		used++
	} else {
		layout := m.deckLayout()
		start, end := layout.VisibleRange()
		cards := make([]view.DeckCard, 0, end-start)
		for i := start; i < end; i++ {
			p := m.cardPost(i)
			cards = append(cards, view.DeckCard{
				Post:   p,
				Date:   view.DateLabel(p, m.dates, m.relativeTime, m.nowFn()),
				Active: i == m.cursor,
			})
		}
		deck := view.RenderDeck(cards, layout, m.compact, m.theme)
		b.WriteString(deck)
		used += strings.Count(deck, "\n") + 1
	}
	for ; used < height-2; used++ {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) messagePanel() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	return view.Message(m.loading, m.err != nil, m.status, warning, m.spinner.View(), m.theme)
}

func (m Model) footer() string {
	return view.Footer(len(m.posts), m.compact, m.relativeTime, m.source, m.theme)
}

func (m Model) sessionOptions() []card.Option {
	return []card.Option{card.WithDateFormatter(m.dates), card.WithKeyMap(m.keys.Card)}
}

func (m *Model) sessionFor(slug string) *card.Session {
	if s, ok := m.sessions[slug]; ok {
		return s
	}
	idx := card.IndexOfSlug(m.posts, slug)
	if idx < 0 {
		return nil
	}
	s := card.NewSession(m.posts[idx], m.posts, m.sessionOptions()...)
	m.sessions[slug] = s
	return s
}

func (m Model) activeSession() *card.Session {
	if m.active == "" {
		return nil
	}
	s := m.sessions[m.active]
	if s == nil || !s.State().Open {
		return nil
	}
	return s
}

// cardPost is what the deck card at index currently shows: the post its
// reader was last left on, or its own post.
func (m Model) cardPost(index int) card.Post {
	own := m.posts[index]
	if s, ok := m.sessions[own.Slug]; ok {
		return s.State().Focused
	}
	return own
}

func (m *Model) openSession(slug string) {
	s := m.sessionFor(slug)
	if s == nil {
		return
	}
	s.Open()
	m.active = slug
	m.readerTop = 0
	m.slide = 0
	m.drag.Cancel()
	m.logger.Debug("card opened", zap.String("slug", slug), zap.String("focused", s.State().Focused.Slug))
}

func (m Model) afterClose(s *card.Session) (tea.Model, tea.Cmd) {
	m.logger.Debug("card closed", zap.String("slug", m.active), zap.String("focused", s.State().Focused.Slug))
	m.active = ""
	m.readerTop = 0
	m.slide = 0
	m.drag.Cancel()
	return m, nil
}

func (m Model) afterNavigate(s *card.Session) (tea.Model, tea.Cmd) {
	vm := s.View()
	m.readerTop = 0
	m.slideKey = vm.TransitionKey
	m.slide = slideDistance
	if vm.LastDirection == card.DirectionOlder {
		m.slide = -slideDistance
	}
	m.logger.Debug("card navigated",
		zap.String("slug", m.active),
		zap.String("focused", vm.Focused.Slug),
		zap.Stringer("direction", vm.LastDirection))
	return m, slideTickCmd(vm.TransitionKey)
}

func (m *Model) setPosts(posts []card.Post) {
	anchor := ""
	if m.cursor >= 0 && m.cursor < len(m.posts) {
		anchor = m.posts[m.cursor].Slug
	}
	m.posts = posts
	for slug, s := range m.sessions {
		if slug != m.active && card.IndexOfSlug(posts, slug) < 0 {
			delete(m.sessions, slug)
			continue
		}
		s.Rebase(posts)
	}
	if idx := card.IndexOfSlug(posts, anchor); idx >= 0 {
		m.cursor = idx
	}
	m.cursor = tuistate.ClampCursor(m.cursor, len(posts))
	m.ensureCursorVisible()
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	m.loading = true
	m.status = ""
	if m.standalone != "" {
		return m, tea.Batch(m.spinner.Tick, actions.LoadPostCmd(m.service, m.standalone))
	}
	return m, tea.Batch(m.spinner.Tick, actions.RefreshCmd(m.service, m.limit, "manual"))
}

func (m *Model) persistPreferences() tea.Cmd {
	m.statusID++
	clearCmd := clearStatusCmd(m.statusID, 2*time.Second)
	if m.service == nil {
		return clearCmd
	}
	prefs := app.UIPreferences{Compact: m.compact, RelativeTime: m.relativeTime}
	return tea.Batch(clearCmd, actions.SavePreferencesCmd(m.service, prefs))
}

func (m Model) openPostURL(s *card.Session, browser bool) (tea.Model, tea.Cmd) {
	url, err := platform.PostURL(m.siteURL, s.State().Focused.Slug)
	if err != nil {
		m.err = nil
		m.status = err.Error()
		m.statusID++
		return m, clearStatusCmd(m.statusID, 4*time.Second)
	}
	if browser {
		return m, actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
	}
	return m, actions.CopyURLCmd(url, m.copyURLFn)
}

func (m *Model) scrollReader(s *card.Session, delta int) {
	maxTop := view.ReaderMaxScroll(m.readerInput(s), m.theme)
	m.readerTop = tuistate.ClampScroll(m.readerTop+delta, maxTop, 0)
}

func (m Model) readerInput(s *card.Session) view.ReaderInput {
	vm := s.View()
	date := vm.DisplayDate
	if m.relativeTime {
		date = view.DateLabel(vm.Focused, m.dates, true, m.nowFn())
	}
	link, _ := platform.PostURL(m.siteURL, vm.Focused.Slug)
	return view.ReaderInput{
		Post:       vm.Focused,
		View:       vm,
		Date:       date,
		Link:       link,
		Layout:     m.readerLayout(),
		Shift:      view.ElasticShift(m.drag.Offset()) + m.slide,
		Scroll:     m.readerTop,
		Standalone: m.standalone != "",
	}
}

func (m Model) readerLayout() view.ReaderLayout {
	return view.NewReaderLayout(m.viewWidth(), m.viewHeight())
}

func (m Model) deckLayout() view.DeckLayout {
	l := view.NewDeckLayout(m.viewWidth(), m.viewHeight(), len(m.posts), m.compact)
	l.FirstRow = m.deckRow
	return l
}

func (m *Model) ensureCursorVisible() {
	m.cursor = tuistate.ClampCursor(m.cursor, len(m.posts))
	m.deckRow = m.deckLayout().ScrollTo(m.cursor).FirstRow
}

func (m Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) viewHeight() int {
	if m.height <= 0 {
		return defaultHeight
	}
	return m.height
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func slideTickCmd(key int) tea.Cmd {
	return tea.Tick(slideInterval, func(time.Time) tea.Msg {
		return slideTickMsg{key: key}
	})
}
