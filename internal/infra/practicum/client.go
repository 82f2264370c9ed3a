// internal/infra/practicum/client.go
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/homework"
)

// DefaultEndpoint is the homework statuses endpoint of the Practicum user API.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const defaultTimeout = 30 * time.Second

// Client requests homework statuses. It never retries; the caller decides what to do on failure.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	now        func() time.Time
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock replaces time.Now, used when the cursor is zero.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(endpoint, token string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		endpoint:   endpoint,
		token:      token,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the decoded JSON body for events since cursor (unix seconds).
// Any failure is a *homework.APIError.
func (c *Client) Fetch(ctx context.Context, cursor int64) (any, error) {
	if cursor == 0 {
		cursor = c.now().Unix()
	}
	params := url.Values{"from_date": {strconv.FormatInt(cursor, 10)}}
	apiErr := func(status int, err error) error {
		return &homework.APIError{
			Endpoint:   c.endpoint,
			Headers:    map[string]string{"Authorization": "OAuth ***"},
			Params:     params,
			StatusCode: status,
			Err:        err,
		}
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, apiErr(0, fmt.Errorf("invalid endpoint: %w", err))
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apiErr(0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apiErr(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain body for connection reuse
		return nil, apiErr(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apiErr(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return payload, nil
}
