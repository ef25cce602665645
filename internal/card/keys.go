package card

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap binds the reader's page-turn and close keys.
type KeyMap struct {
	Older key.Binding
	Newer key.Binding
	Close key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Older: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "older post"),
		),
		Newer: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "newer post"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// KeyResult tells the host whether a key was consumed. Unhandled keys keep
// their default meaning in the host.
type KeyResult struct {
	Handled   bool
	Navigated bool
	Closed    bool
}

type keyListener struct {
	keys KeyMap
}

// HandleKey maps a key press to a reader action. It only reacts while the
// reader is open; a page-turn key that cannot move is left unhandled.
func (s *Session) HandleKey(msg fmt.Stringer) KeyResult {
	if s.listener == nil {
		return KeyResult{}
	}
	keys := s.listener.keys
	switch {
	case key.Matches(msg, keys.Older):
		if !s.CanGoOlder() {
			return KeyResult{}
		}
		s.GoOlder()
		return KeyResult{Handled: true, Navigated: true}
	case key.Matches(msg, keys.Newer):
		if !s.CanGoNewer() {
			return KeyResult{}
		}
		s.GoNewer()
		return KeyResult{Handled: true, Navigated: true}
	case key.Matches(msg, keys.Close):
		s.Close()
		return KeyResult{Handled: true, Closed: true}
	}
	return KeyResult{}
}

// Listening reports whether the reader key listener is installed.
func (s *Session) Listening() bool {
	return s.listener != nil
}
