package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/postdeck/internal/app"
	"github.com/glabrego/postdeck/internal/card"
)

type Service interface {
	Refresh(ctx context.Context, limit int) ([]card.Post, error)
	LoadPost(ctx context.Context, slug string) (card.Post, error)
	SaveUIPreferences(ctx context.Context, prefs app.UIPreferences) error
}

type RefreshSuccessMsg struct {
	Posts    []card.Post
	Duration time.Duration
	Source   string
}

type RefreshErrorMsg struct {
	Err      error
	Duration time.Duration
	Source   string
}

type LoadPostSuccessMsg struct {
	Post card.Post
}

type LoadPostErrorMsg struct {
	Slug string
	Err  error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type PreferencesSavedMsg struct{}

type PreferencesErrorMsg struct {
	Err error
}

func RefreshCmd(service Service, limit int, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		start := time.Now()

		posts, err := service.Refresh(ctx, limit)
		if err != nil {
			return RefreshErrorMsg{Err: err, Duration: time.Since(start), Source: source}
		}
		return RefreshSuccessMsg{Posts: posts, Duration: time.Since(start), Source: source}
	}
}

func LoadPostCmd(service Service, slug string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		p, err := service.LoadPost(ctx, slug)
		if err != nil {
			return LoadPostErrorMsg{Slug: slug, Err: err}
		}
		return LoadPostSuccessMsg{Post: p}
	}
}

func SavePreferencesCmd(service Service, prefs app.UIPreferences) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := service.SaveUIPreferences(ctx, prefs); err != nil {
			return PreferencesErrorMsg{Err: err}
		}
		return PreferencesSavedMsg{}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened post in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
