package directus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultLimit matches the page size of the blog's post listing.
const DefaultLimit = 30

var ErrNotFound = errors.New("post not found")

var postFields = []string{
	"id",
	"title",
	"slug",
	"summary",
	"content",
	"published_at",
	"tags",
	"cover.id",
}

// Post is the subset of Directus post fields required by the app. Nullable
// columns stay pointers so absent and empty can be told apart.
type Post struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Summary     *string  `json:"summary"`
	Content     *string  `json:"content"`
	PublishedAt *string  `json:"published_at"`
	Tags        []string `json:"tags"`
	Cover       *File    `json:"cover"`
}

type File struct {
	ID string `json:"id"`
}

// ID accepts both integer and UUID primary keys.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, token string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		logger:  logger,
	}
}

// ListPosts returns published posts, newest first.
func (c *Client) ListPosts(ctx context.Context, limit int) ([]Post, error) {
	if limit < 1 {
		limit = DefaultLimit
	}
	q := fieldsQuery()
	q.Set("filter[status][_eq]", "published")
	q.Add("sort[]", "-published_at")
	q.Set("limit", strconv.Itoa(limit))

	posts, err := c.queryPosts(ctx, q, "list posts")
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns the published post with the given slug.
func (c *Client) GetPost(ctx context.Context, slug string) (Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Post{}, fmt.Errorf("get post: empty slug")
	}
	q := fieldsQuery()
	q.Set("filter[slug][_eq]", slug)
	q.Set("filter[status][_eq]", "published")
	q.Set("limit", "1")

	posts, err := c.queryPosts(ctx, q, "get post")
	if err != nil {
		return Post{}, err
	}
	if len(posts) == 0 {
		return Post{}, fmt.Errorf("get post %q: %w", slug, ErrNotFound)
	}
	return posts[0], nil
}

func (c *Client) queryPosts(ctx context.Context, q url.Values, op string) ([]Post, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/items/posts?"+q.Encode())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("directus request", zap.String("op", op), zap.String("url", req.URL.String()))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%s failed with status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}
	c.logger.Debug("directus response", zap.String("op", op), zap.Int("bytes", len(raw)))

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '[' {
		return []Post{}, nil
	}
	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", op, err)
	}
	return posts, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func fieldsQuery() url.Values {
	q := make(url.Values)
	for _, f := range postFields {
		q.Add("fields[]", f)
	}
	return q
}
