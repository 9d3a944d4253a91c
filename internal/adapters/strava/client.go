package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/runseob/paceboard/internal/domain/model"
	"github.com/runseob/paceboard/pkg/metrics"
)

// Pagination defaults. The page cap bounds a full fetch to about 20k
// records even when the endpoint never returns a short page.
const (
	defaultPerPage  = 200
	defaultMaxPages = 100
)

// ClientOption applies a configuration option to the Client.
type ClientOption func(*Client)

// WithActivitiesURL overrides the listing endpoint.
func WithActivitiesURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.activitiesURL = u
		}
	}
}

// WithPerPage sets the page size (API max 200).
func WithPerPage(n int) ClientOption {
	return func(c *Client) {
		if n > 0 && n <= defaultPerPage {
			c.perPage = n
		}
	}
}

// WithMaxPages sets the pagination cap.
func WithMaxPages(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// Client fetches the full activity history, one page at a time.
type Client struct {
	activitiesURL string
	perPage       int
	maxPages      int
	client        *http.Client
}

// NewClient constructs a Client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		activitiesURL: "https://www.strava.com/api/v3/athlete/activities",
		perPage:       defaultPerPage,
		maxPages:      defaultMaxPages,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll drains the paginated listing with the given bearer token.
// It stops on an empty page, a short page, or the page cap. Any failure
// aborts the whole fetch with ErrTransport and returns no partial
// result; the caller's cached dataset stays authoritative.
func (c *Client) FetchAll(ctx context.Context, token string) ([]model.RawActivity, error) {
	all := make([]model.RawActivity, 0, c.perPage)
	for p := c.pages(token); ; {
		page, done, err := p.next(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if done {
			return all, nil
		}
	}
}

// pages returns a bounded page iterator, keeping the termination rules
// in one place.
func (c *Client) pages(token string) *pager {
	return &pager{client: c, token: token, page: 1}
}

// pager is a finite, restartable sequence of activity pages.
type pager struct {
	client *Client
	token  string
	page   int
}

// next fetches the current page and reports whether pagination is
// complete. done is true on a short or empty page and when the next
// page would exceed the cap.
func (p *pager) next(ctx context.Context) ([]model.RawActivity, bool, error) {
	batch, err := p.client.fetchPage(ctx, p.token, p.page)
	if err != nil {
		return nil, false, err
	}
	metrics.RecordPageFetched(len(batch))

	if len(batch) < p.client.perPage {
		return batch, true, nil
	}
	p.page++
	if p.page > p.client.maxPages {
		return batch, true, nil
	}
	return batch, false, nil
}

func (c *Client) fetchPage(ctx context.Context, token string, page int) ([]model.RawActivity, error) {
	q := url.Values{
		"per_page": {strconv.Itoa(c.perPage)},
		"page":     {strconv.Itoa(page)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.activitiesURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrTransport, page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: page %d: unexpected status %d", ErrTransport, page, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrTransport, page, err)
	}

	var batch []model.RawActivity
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("%w: page %d: malformed body: %w", ErrTransport, page, err)
	}
	return batch, nil
}
