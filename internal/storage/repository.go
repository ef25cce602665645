package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/postdeck/internal/directus"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	schema := []string{`
CREATE TABLE IF NOT EXISTS posts (
  slug TEXT PRIMARY KEY,
  id TEXT NOT NULL,
  title TEXT NOT NULL,
  summary TEXT,
  content TEXT,
  published_at TEXT,
  tags TEXT,
  cover_id TEXT,
  fetched_at TEXT NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
)`}
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// CheckWritable fails early when the cache file sits on a read-only path.
func (r *Repository) CheckWritable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('_probe', '1') ON CONFLICT(key) DO UPDATE SET value=excluded.value`); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = '_probe'`); err != nil {
		return fmt.Errorf("delete probe: %w", err)
	}
	return nil
}

// SavePosts upserts posts by slug and leaves other cached posts alone.
func (r *Repository) SavePosts(ctx context.Context, posts []directus.Post) error {
	return r.savePosts(ctx, posts, false)
}

// ReplacePosts upserts posts and drops every cached post whose slug is not
// among them, in one transaction.
func (r *Repository) ReplacePosts(ctx context.Context, posts []directus.Post) error {
	return r.savePosts(ctx, posts, true)
}

func (r *Repository) savePosts(ctx context.Context, posts []directus.Post, prune bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO posts (slug, id, title, summary, content, published_at, tags, cover_id, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET
  id=excluded.id,
  title=excluded.title,
  summary=excluded.summary,
  content=excluded.content,
  published_at=excluded.published_at,
  tags=excluded.tags,
  cover_id=excluded.cover_id,
  fetched_at=excluded.fetched_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, post := range posts {
		if post.Slug == "" {
			continue
		}
		tags, err := encodeTags(post.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for %s: %w", post.Slug, err)
		}
		var coverID sql.NullString
		if post.Cover != nil && post.Cover.ID != "" {
			coverID = sql.NullString{String: post.Cover.ID, Valid: true}
		}
		_, err = stmt.ExecContext(
			ctx,
			post.Slug,
			string(post.ID),
			post.Title,
			nullable(post.Summary),
			nullable(post.Content),
			nullable(post.PublishedAt),
			tags,
			coverID,
			now,
		)
		if err != nil {
			return fmt.Errorf("save post %s: %w", post.Slug, err)
		}
	}

	if prune {
		if err := pruneStale(ctx, tx, posts); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func pruneStale(ctx context.Context, tx *sql.Tx, keep []directus.Post) error {
	slugs := make([]any, 0, len(keep))
	for _, post := range keep {
		if post.Slug != "" {
			slugs = append(slugs, post.Slug)
		}
	}
	query := `DELETE FROM posts`
	if len(slugs) > 0 {
		query += ` WHERE slug NOT IN (?` + strings.Repeat(`, ?`, len(slugs)-1) + `)`
	}
	if _, err := tx.ExecContext(ctx, query, slugs...); err != nil {
		return fmt.Errorf("prune stale posts: %w", err)
	}
	return nil
}

const postColumns = `slug, id, title, summary, content, published_at, tags, cover_id`

func (r *Repository) ListPosts(ctx context.Context, limit int) ([]directus.Post, error) {
	if limit < 1 {
		limit = directus.DefaultLimit
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+postColumns+`
FROM posts
ORDER BY published_at IS NULL, published_at DESC, slug
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]directus.Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return posts, nil
}

func (r *Repository) PostBySlug(ctx context.Context, slug string) (directus.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return directus.Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return directus.Post{}, err
	}
	return post, nil
}

func (r *Repository) SaveSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, key, value)
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// LoadSetting returns ok=false when the key was never saved.
func (r *Repository) LoadSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load setting %s: %w", key, err)
	}
	return value, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (directus.Post, error) {
	var (
		post                                 directus.Post
		id                                   string
		summary, content, publishedAt, cover sql.NullString
		tags                                 sql.NullString
	)
	if err := s.Scan(&post.Slug, &id, &post.Title, &summary, &content, &publishedAt, &tags, &cover); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return directus.Post{}, err
		}
		return directus.Post{}, fmt.Errorf("scan post: %w", err)
	}
	post.ID = directus.ID(id)
	post.Summary = pointer(summary)
	post.Content = pointer(content)
	post.PublishedAt = pointer(publishedAt)
	if cover.Valid {
		post.Cover = &directus.File{ID: cover.String}
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &post.Tags); err != nil {
			return directus.Post{}, fmt.Errorf("decode tags for %s: %w", post.Slug, err)
		}
	}
	return post, nil
}

func encodeTags(tags []string) (sql.NullString, error) {
	if tags == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func pointer(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
