package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/reelcheck/movie"
)

// DefaultBaseURL is the public OMDb endpoint.
const DefaultBaseURL = "https://www.omdbapi.com/"

const maxBodySize = 2 << 20

// Client represents an OMDb API client
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new OMDb client. An empty apiKey is accepted: every
// call then fails with ErrConfig without touching the network.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		apiKey:    strings.TrimSpace(apiKey),
		userAgent: "reelcheck",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With().Str("component", "omdb").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search returns the movies whose title matches query. A response without
// matches yields ErrNotFound.
func (c *Client) Search(ctx context.Context, query string) ([]movie.Summary, error) {
	params := url.Values{}
	params.Set("s", query)
	params.Set("type", "movie")

	var resp SearchResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	// Drop items without an id and duplicates
	results := make([]movie.Summary, 0, len(resp.Search))
	seen := make(map[string]bool, len(resp.Search))
	for _, item := range resp.Search {
		summary, ok := item.Summary()
		if !ok || seen[summary.ExternalID] {
			continue
		}
		seen[summary.ExternalID] = true
		results = append(results, summary)
	}

	c.logger.Debug().
		Str("query", query).
		Int("count", len(results)).
		Str("total", resp.TotalResults.value()).
		Msg("Retrieved search results from OMDb")

	return results, nil
}

// LookupByID returns the full record for an IMDb id.
func (c *Client) LookupByID(ctx context.Context, id string) (*movie.Raw, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	params := url.Values{}
	params.Set("i", id)
	params.Set("plot", "full")

	var resp TitleResponse
	if err := c.get(ctx, "lookup", params, &resp); err != nil {
		return nil, err
	}

	raw := resp.Raw()
	if raw.ExternalID == "" {
		raw.ExternalID = id
	}
	return raw, nil
}

// requestURL builds the request URL. Values are percent-encoded with %20
// for spaces.
func (c *Client) requestURL(params url.Values) string {
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + strings.ReplaceAll(params.Encode(), "+", "%20")
}

// get performs the request and decodes the body into out after validating
// the envelope.
func (c *Client) get(ctx context.Context, op string, params url.Values, out any) error {
	if !c.Configured() {
		return ErrConfig
	}

	// Build the URL twice, the key only goes into the one that is sent
	redacted := c.requestURL(params)
	params.Set("apikey", c.apiKey)
	requestURL := c.requestURL(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("op", op).
		Str("url", redacted).
		Msg("Making OMDb API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: redactURL(err, redacted)}
	}
	defer resp.Body.Close()

	// Read the body before checking the status, error responses carry JSON too
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(env.Error)
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.logger.Debug().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("error", msg).
			Msg("OMDb returned non-success status")
		return classify(&APIError{StatusCode: resp.StatusCode, Message: msg})
	}

	if decodeErr != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "invalid response from OMDb"}
	}

	// Response "False" or an Error field is terminal for this call
	if env.failed() {
		msg := string(env.Error)
		if msg == "" {
			msg = "unknown error"
		}
		return classify(&APIError{Message: msg})
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "invalid response from OMDb"}
	}

	return nil
}

// redactURL swaps the request URL inside a *url.Error for its redacted form
// so the API key never reaches logs or the user.
func redactURL(err error, redacted string) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	return &url.Error{Op: uerr.Op, URL: redacted, Err: uerr.Err}
}
