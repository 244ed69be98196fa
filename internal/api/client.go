// Package api is the remote data client behind the landing page sections.
//
// A Client issues plain GET requests against one fixed base address and
// decodes the JSON array in the response. It keeps no state between calls:
// every fetch is exactly one round trip, nothing is cached and nothing is
// retried. Failures are logged where they happen and returned to the caller
// as *errors.NetworkError.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	lerrors "github.com/conneroisu/landing/internal/errors"
	"github.com/conneroisu/landing/internal/logging"
)

const (
	// DefaultBaseURL is the public service the page reads from.
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"

	// DefaultTimeout bounds every request, uniformly for all resources.
	DefaultTimeout = 10 * time.Second

	// DefaultArticlesLimit is the article count shown by the articles section.
	DefaultArticlesLimit = 6

	// DefaultUsersLimit is the user count shown by the users section.
	DefaultUsersLimit = 8
)

// Resource paths on the remote service.
const (
	ResourcePosts    = "posts"
	ResourceUsers    = "users"
	ResourceComments = "comments"
	ResourcePhotos   = "photos"
)

// Client fetches records from the remote API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is used as is.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for baseURL. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("api")

	return c
}

// BaseURL returns the address every request is issued against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchArticles returns up to limit articles. The limit is sent as is.
func (c *Client) FetchArticles(ctx context.Context, limit int) ([]Article, error) {
	return getList[Article](ctx, c, ResourcePosts, limitQuery(limit))
}

// FetchUsers returns up to limit users. The limit is sent as is.
func (c *Client) FetchUsers(ctx context.Context, limit int) ([]User, error) {
	return getList[User](ctx, c, ResourceUsers, limitQuery(limit))
}

// FetchComments returns every comment.
func (c *Client) FetchComments(ctx context.Context) ([]Comment, error) {
	return getList[Comment](ctx, c, ResourceComments, "")
}

// FetchPhotos returns every photo.
func (c *Client) FetchPhotos(ctx context.Context) ([]Photo, error) {
	return getList[Photo](ctx, c, ResourcePhotos, "")
}

func limitQuery(limit int) string {
	return "_limit=" + strconv.Itoa(limit)
}

// URL builds the request address for a resource and raw query.
func (c *Client) URL(resource, rawQuery string) string {
	u := c.baseURL + "/" + resource
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

func getList[T any](ctx context.Context, c *Client, resource, rawQuery string) ([]T, error) {
	url := c.URL(resource, rawQuery)

	items, err := doGet[T](ctx, c, resource, url)
	if err != nil {
		c.logger.Error(ctx, err, fmt.Sprintf("Error fetching %s", resource),
			"resource", resource,
			"url", url,
			"kind", string(lerrors.KindOf(err)),
		)
		return nil, err
	}

	c.logger.Debug(ctx, "Fetched resource", "resource", resource, "count", len(items))
	return items, nil
}

func doGet[T any](ctx context.Context, c *Client, resource, url string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, lerrors.NewTransportError(resource, url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, lerrors.NewTransportError(resource, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, lerrors.NewStatusError(resource, url, resp.StatusCode)
	}

	var items []T
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		if ctx.Err() != nil || lerrors.IsTimeoutCause(err) {
			return nil, lerrors.NewTransportError(resource, url, err)
		}
		return nil, lerrors.NewDecodeError(resource, url, err)
	}
	if items == nil {
		items = []T{}
	}

	return items, nil
}
