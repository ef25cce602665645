package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/glabrego/postdeck/internal/card"
	"github.com/glabrego/postdeck/internal/directus"
	"github.com/glabrego/postdeck/internal/storage"
)

// DefaultCacheLimit is how many cached posts the deck shows before the first
// refresh completes.
const DefaultCacheLimit = directus.DefaultLimit

type DirectusClient interface {
	ListPosts(ctx context.Context, limit int) ([]directus.Post, error)
	GetPost(ctx context.Context, slug string) (directus.Post, error)
}

type Repository interface {
	SavePosts(ctx context.Context, posts []directus.Post) error
	ReplacePosts(ctx context.Context, posts []directus.Post) error
	ListPosts(ctx context.Context, limit int) ([]directus.Post, error)
	PostBySlug(ctx context.Context, slug string) (directus.Post, error)
	SaveSetting(ctx context.Context, key, value string) error
	LoadSetting(ctx context.Context, key string) (string, bool, error)
}

type UIPreferences struct {
	Compact      bool
	RelativeTime bool
}

const (
	settingCompact      = "ui.compact"
	settingRelativeTime = "ui.relative_time"
)

type Service struct {
	client DirectusClient
	repo   Repository
}

func NewService(client DirectusClient, repo Repository) *Service {
	return &Service{client: client, repo: repo}
}

// Refresh pulls the published posts, replaces the cached list with them and
// returns them in the order the content store delivered.
func (s *Service) Refresh(ctx context.Context, limit int) ([]card.Post, error) {
	posts, err := s.client.ListPosts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch posts from directus: %w", err)
	}
	if err := s.repo.ReplacePosts(ctx, posts); err != nil {
		return nil, fmt.Errorf("save posts to cache: %w", err)
	}
	return ToCardPosts(posts), nil
}

func (s *Service) ListCached(ctx context.Context, limit int) ([]card.Post, error) {
	posts, err := s.repo.ListPosts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load posts from cache: %w", err)
	}
	return ToCardPosts(posts), nil
}

// LoadPost looks a single post up in the cache and falls back to the
// content store.
func (s *Service) LoadPost(ctx context.Context, slug string) (card.Post, error) {
	post, err := s.repo.PostBySlug(ctx, slug)
	if err == nil {
		return ToCardPost(post), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return card.Post{}, fmt.Errorf("load post from cache: %w", err)
	}

	post, err = s.client.GetPost(ctx, slug)
	if err != nil {
		return card.Post{}, fmt.Errorf("fetch post from directus: %w", err)
	}
	if err := s.repo.SavePosts(ctx, []directus.Post{post}); err != nil {
		return card.Post{}, fmt.Errorf("save post to cache: %w", err)
	}
	return ToCardPost(post), nil
}

func (s *Service) LoadUIPreferences(ctx context.Context) (UIPreferences, error) {
	var prefs UIPreferences
	var err error
	if prefs.Compact, err = s.loadBool(ctx, settingCompact); err != nil {
		return UIPreferences{}, err
	}
	if prefs.RelativeTime, err = s.loadBool(ctx, settingRelativeTime); err != nil {
		return UIPreferences{}, err
	}
	return prefs, nil
}

func (s *Service) SaveUIPreferences(ctx context.Context, prefs UIPreferences) error {
	if err := s.repo.SaveSetting(ctx, settingCompact, strconv.FormatBool(prefs.Compact)); err != nil {
		return fmt.Errorf("save ui preferences: %w", err)
	}
	if err := s.repo.SaveSetting(ctx, settingRelativeTime, strconv.FormatBool(prefs.RelativeTime)); err != nil {
		return fmt.Errorf("save ui preferences: %w", err)
	}
	return nil
}

func (s *Service) loadBool(ctx context.Context, key string) (bool, error) {
	raw, ok, err := s.repo.LoadSetting(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load ui preferences: %w", err)
	}
	if !ok {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, nil
	}
	return v, nil
}

func ToCardPosts(posts []directus.Post) []card.Post {
	out := make([]card.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToCardPost(p))
	}
	return out
}

// ToCardPost maps a stored post onto the deck's view of it. Null columns
// become empty strings, which the deck treats as absent.
func ToCardPost(p directus.Post) card.Post {
	out := card.Post{
		ID:          string(p.ID),
		Slug:        p.Slug,
		Title:       p.Title,
		Summary:     deref(p.Summary),
		Content:     deref(p.Content),
		PublishedAt: deref(p.PublishedAt),
		Tags:        append([]string(nil), p.Tags...),
	}
	if p.Cover != nil {
		out.CoverID = p.Cover.ID
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
