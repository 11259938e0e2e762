package cheeseapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// Sort orders supported by the match listing endpoint.
const (
	SortNewest  = "newest"
	SortFastest = "fastest"
)

// ListOptions narrows a match listing request.
type ListOptions struct {
	Category string
	Limit    int
	Sort     string
	Before   string // cursor: match id of the last entry of the previous page
}

type Client struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithMaxConnsPerHost(n int) Option {
	return func(c *Client) { c.http.MaxConnsPerHost = n }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		defaultTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetProfile resolves a display name to its stable identity token.
// The token must be a well-formed UUID; anything else is a malformed payload.
func (c *Client) GetProfile(ctx context.Context, name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty player name")
	}
	var p Profile
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(name), &p); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(strings.TrimSpace(p.UserID)); err != nil {
		return nil, fmt.Errorf("profile %s: bad identity token %q: %w", name, p.UserID, err)
	}
	p.UserID = strings.TrimSpace(p.UserID)
	return &p, nil
}

// ListMatches fetches one page of a user's match history. The user key may be
// an identity token or a display name; the API accepts both.
func (c *Client) ListMatches(ctx context.Context, user string, opt ListOptions) ([]Match, error) {
	if strings.TrimSpace(user) == "" {
		return nil, fmt.Errorf("empty user key")
	}
	q := url.Values{}
	if opt.Category != "" {
		q.Set("type", opt.Category)
	}
	if opt.Limit > 0 {
		q.Set("limit", strconv.Itoa(opt.Limit))
	}
	if opt.Sort != "" {
		q.Set("sort", opt.Sort)
	}
	if opt.Before != "" {
		q.Set("before", opt.Before)
	}
	path := "/users/" + url.PathEscape(strings.TrimSpace(user)) + "/matches"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var out []Match
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NewestMatch returns the single most recent match for a user, or nil when
// the user has no matches yet.
func (c *Client) NewestMatch(ctx context.Context, user string) (*Match, error) {
	list, err := c.ListMatches(ctx, user, ListOptions{Limit: 1, Sort: SortNewest})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	m := list[0]
	return &m, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(c.baseURL + path)
	req.Header.Set("Accept", "application/json")

	if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
		return fmt.Errorf("cheese api request: %w", err)
	}
	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return fmt.Errorf("cheese api error: status=%d body=%s", status, truncate(string(resp.Body()), 256))
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("decode cheese api response: %w", err)
		}
	}
	return nil
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
