package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the Nugget backend. All payloads are JSON over HTTPS
// with a bearer token. A base URL of "mock://" (or the token "mock")
// switches every call to canned in-memory fixtures so the TUI runs
// without a backend and tests need no network.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	mock *mockBackend
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "https://api.nuggetapp.io/v1"
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
	if baseURL == "mock://" || token == "mock" {
		c.mock = newMockBackend()
	}
	return c
}

// StartSession asks the backend to select and process a batch of
// nuggets for review. The returned session may still be processing.
func (c *Client) StartSession(ctx context.Context, size int) (*Session, error) {
	if c.mock != nil {
		return c.mock.startSession(size)
	}
	var sess Session
	err := c.do(ctx, http.MethodPost, "/sessions", map[string]any{"size": size}, &sess)
	if err != nil {
		return nil, err
	}
	sess.LocalID = uuid.NewString()
	return &sess, nil
}

// CreateSmartSession builds a session from a free-text query ("catch me
// up on AI this week") instead of a plain batch.
func (c *Client) CreateSmartSession(ctx context.Context, query string) (*Session, error) {
	if c.mock != nil {
		return c.mock.startSession(3)
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("smart session query is required")
	}
	var sess Session
	err := c.do(ctx, http.MethodPost, "/sessions/smart", map[string]any{"query": query}, &sess)
	if err != nil {
		return nil, err
	}
	sess.LocalID = uuid.NewString()
	return &sess, nil
}

// GetSessionStatus fetches the current nugget list for an in-flight
// session. The poller calls this; the response replaces the session's
// nuggets wholesale.
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if c.mock != nil {
		return c.mock.sessionStatus(sessionID)
	}
	var st SessionStatus
	err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID)+"/status", nil, &st)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// CompleteSession records which nuggets the user finished reviewing.
func (c *Client) CompleteSession(ctx context.Context, sessionID string, completedNuggetIDs []string) error {
	if c.mock != nil {
		return nil
	}
	body := map[string]any{"completedNuggetIds": completedNuggetIDs}
	return c.do(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/complete", body, nil)
}

// MarkNuggetsRead is the completion path for ad-hoc sessions that never
// got a server session id.
func (c *Client) MarkNuggetsRead(ctx context.Context, nuggetIDs []string) error {
	if c.mock != nil {
		return nil
	}
	if len(nuggetIDs) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/nuggets/read", map[string]any{"nuggetIds": nuggetIDs}, nil)
}

// SaveNugget submits a link for scraping and summarization.
func (c *Client) SaveNugget(ctx context.Context, sourceURL string) (*Nugget, error) {
	if c.mock != nil {
		return c.mock.saveNugget(sourceURL)
	}
	if _, err := url.ParseRequestURI(sourceURL); err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", sourceURL, err)
	}
	var n Nugget
	if err := c.do(ctx, http.MethodPost, "/nuggets", map[string]any{"url": sourceURL}, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNuggets returns the user's saved nuggets, newest first.
func (c *Client) ListNuggets(ctx context.Context) ([]Nugget, error) {
	if c.mock != nil {
		return c.mock.listNuggets()
	}
	var out struct {
		Nuggets []Nugget `json:"nuggets"`
	}
	if err := c.do(ctx, http.MethodGet, "/nuggets", nil, &out); err != nil {
		return nil, err
	}
	return out.Nuggets, nil
}

func (c *Client) DeleteNugget(ctx context.Context, nuggetID string) error {
	if c.mock != nil {
		return c.mock.deleteNugget(nuggetID)
	}
	return c.do(ctx, http.MethodDelete, "/nuggets/"+url.PathEscape(nuggetID), nil, nil)
}

func (c *Client) ListFeeds(ctx context.Context) ([]Feed, error) {
	if c.mock != nil {
		return c.mock.listFeeds()
	}
	var out struct {
		Feeds []Feed `json:"feeds"`
	}
	if err := c.do(ctx, http.MethodGet, "/feeds", nil, &out); err != nil {
		return nil, err
	}
	return out.Feeds, nil
}

func (c *Client) AddFeed(ctx context.Context, feedURL, title string) (*Feed, error) {
	if c.mock != nil {
		return c.mock.addFeed(feedURL, title)
	}
	var f Feed
	body := map[string]any{"url": feedURL, "title": title}
	if err := c.do(ctx, http.MethodPost, "/feeds", body, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) RemoveFeed(ctx context.Context, feedID string) error {
	if c.mock != nil {
		return c.mock.removeFeed(feedID)
	}
	return c.do(ctx, http.MethodDelete, "/feeds/"+url.PathEscape(feedID), nil, nil)
}

func (c *Client) GetDigestSettings(ctx context.Context) (*DigestSettings, error) {
	if c.mock != nil {
		return c.mock.digestSettings(), nil
	}
	var ds DigestSettings
	if err := c.do(ctx, http.MethodGet, "/digest/settings", nil, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (c *Client) UpdateDigestSettings(ctx context.Context, ds DigestSettings) error {
	if c.mock != nil {
		c.mock.setDigestSettings(ds)
		return nil
	}
	return c.do(ctx, http.MethodPut, "/digest/settings", ds, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.Token == "" {
		return errors.New("api token is required; set api_token in config or NUGGET_API_TOKEN")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var wire struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(data, &wire) == nil {
			apiErr.Message = wire.Message
			if apiErr.Message == "" {
				apiErr.Message = wire.Error
			}
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
