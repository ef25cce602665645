package card

// ViewModel is everything the presentation layer needs to draw a card's
// reader. TransitionKey changes on every page turn so the slide animation
// can be replayed for the same (slug, direction) pair.
type ViewModel struct {
	Focused       Post
	Open          bool
	CanGoOlder    bool
	CanGoNewer    bool
	LastDirection Direction
	DisplayDate   string
	TransitionKey int
}

// Session owns the navigation state of a single card. It is the only thing
// that mutates that state and it never mutates the post list it was given.
type Session struct {
	posts      []Post
	state      State
	keyMap     KeyMap
	listener   *keyListener
	dates      DateFormatter
	transition int
}

type Option func(*Session)

// WithKeyMap replaces the default reader key bindings.
func WithKeyMap(km KeyMap) Option {
	return func(s *Session) { s.keyMap = km }
}

// WithDateFormatter sets how the focused post's date is displayed.
func WithDateFormatter(f DateFormatter) Option {
	return func(s *Session) { s.dates = f }
}

// NewSession seeds a closed session with the card's own post. posts is the
// newest-first list the reader pages through; it may be empty or may not
// contain own, in which case the reader shows own alone.
func NewSession(own Post, posts []Post, opts ...Option) *Session {
	s := &Session{
		posts:  posts,
		keyMap: DefaultKeyMap(),
		dates:  DefaultDateFormatter(),
		state: State{
			Index:   IndexOfSlug(posts, own.Slug),
			Focused: own,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current navigation state.
func (s *Session) State() State {
	return s.state
}

// Posts returns the list the session pages through.
func (s *Session) Posts() []Post {
	return s.posts
}

func (s *Session) CanGoOlder() bool {
	return canGoOlder(s.state.Index, len(s.posts))
}

func (s *Session) CanGoNewer() bool {
	return canGoNewer(s.state.Index)
}

// Open shows the reader on whatever post was focused last and starts
// listening for reader keys.
func (s *Session) Open() {
	if !s.state.Open {
		s.state.LastDirection = DirectionNone
	}
	s.state.Open = true
	if s.listener == nil {
		s.listener = &keyListener{keys: s.keyMap}
	}
}

// Close hides the reader and drops the key listener. Closing a closed
// session does nothing.
func (s *Session) Close() {
	s.state.Open = false
	s.listener = nil
}

// Navigate focuses posts[target]. Targets outside the list are ignored and
// reported as false.
func (s *Session) Navigate(target int, dir Direction) bool {
	if target < 0 || target >= len(s.posts) {
		return false
	}
	s.state.Focused = s.posts[target]
	s.state.Index = target
	s.state.LastDirection = dir
	s.transition++
	return true
}

func (s *Session) GoOlder() bool {
	if !s.CanGoOlder() {
		return false
	}
	return s.Navigate(s.state.Index+1, DirectionOlder)
}

func (s *Session) GoNewer() bool {
	if !s.CanGoNewer() {
		return false
	}
	return s.Navigate(s.state.Index-1, DirectionNewer)
}

// Rebase swaps in a fresh snapshot of the post list, keeping the focused
// post and re-resolving its position. A focused post that vanished from the
// list keeps being shown with paging disabled.
func (s *Session) Rebase(posts []Post) {
	s.posts = posts
	idx := IndexOfSlug(posts, s.state.Focused.Slug)
	s.state.Index = idx
	if idx >= 0 {
		s.state.Focused = posts[idx]
	}
}

func (s *Session) View() ViewModel {
	return ViewModel{
		Focused:       s.state.Focused,
		Open:          s.state.Open,
		CanGoOlder:    s.CanGoOlder(),
		CanGoNewer:    s.CanGoNewer(),
		LastDirection: s.state.LastDirection,
		DisplayDate:   s.dates.Format(s.state.Focused.PublishedAt),
		TransitionKey: s.transition,
	}
}
