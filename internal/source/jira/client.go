package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/nhle/blocked-report/internal/source"
)

// Client is a thin HTTP client for the Jira Cloud REST API v3.
// It authenticates every request with the credentials passed to it and
// makes exactly one attempt per request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Jira HTTP client. The baseURL should be the
// root URL of the Jira site (e.g., https://example.atlassian.net).
// A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the Jira root URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs an authenticated HTTP GET request and unmarshals the JSON
// response into result.
func (c *Client) Get(
	ctx context.Context,
	creds source.Credentials,
	path string,
	query url.Values,
	result interface{},
) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(creds.Email, creds.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPError(resp.StatusCode, http.MethodGet, path, respBody)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from GET %s: %w", path, err)
	}

	return nil
}

// maxErrorMessage bounds the length, in characters, of HTTP error messages.
const maxErrorMessage = 300

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// newHTTPError builds a source.HTTPError, preferring Jira's structured
// error messages over the raw body.
func newHTTPError(status int, method, path string, body []byte) *source.HTTPError {
	msg := strings.TrimSpace(string(body))

	var jiraErr ErrorResponse
	if json.Unmarshal(body, &jiraErr) == nil &&
		(len(jiraErr.ErrorMessages) > 0 || len(jiraErr.Errors) > 0) {
		parts := append([]string{}, jiraErr.ErrorMessages...)
		fields := make([]string, 0, len(jiraErr.Errors))
		for field := range jiraErr.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			parts = append(parts, field+": "+jiraErr.Errors[field])
		}
		msg = strings.Join(parts, "; ")
	}

	if status == http.StatusUnauthorized {
		msg = "authentication failed: check your Jira email and API token"
	}

	msg = truncate(msg, maxErrorMessage)

	return &source.HTTPError{
		StatusCode: status,
		Method:     method,
		Path:       path,
		Message:    msg,
	}
}
