package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/glabrego/postdeck/internal/card"
)

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Open       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	OpenURL    key.Binding
	CopyURL    key.Binding
	Compact    key.Binding
	Time       key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding

	Card card.KeyMap
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first post")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last post")),
		Open:       key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand card")),
		ScrollUp:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "scroll down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+f", " "), key.WithHelp("pgdn", "page down")),
		OpenURL:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		CopyURL:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Compact:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compact cards")),
		Time:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "relative dates")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Card:       card.DefaultKeyMap(),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Card.Older, k.Card.Newer, k.Card.Close, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom, k.Open},
		{k.Card.Older, k.Card.Newer, k.Card.Close, k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown},
		{k.OpenURL, k.CopyURL, k.Compact, k.Time, k.Refresh, k.Help, k.Quit},
	}
}
