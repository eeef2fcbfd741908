package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nhle/blocked-report/internal/source"
)

// DefaultPageSize is the number of issues requested per search page.
const DefaultPageSize = 50

// DefaultSearchPath is the Jira Cloud search endpoint.
const DefaultSearchPath = "/rest/api/3/search"

// Searcher walks every page of a JQL search, expanding each issue's
// changelog.
type Searcher struct {
	client   *Client
	path     string
	pageSize int
	log      zerolog.Logger
}

// NewSearcher creates a Searcher. Non-positive page sizes and an empty
// path fall back to the defaults.
func NewSearcher(
	client *Client,
	path string,
	pageSize int,
	log zerolog.Logger,
) *Searcher {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if path == "" {
		path = DefaultSearchPath
	}
	return &Searcher{
		client:   client,
		path:     path,
		pageSize: pageSize,
		log:      log,
	}
}

// BaseURL returns the Jira root URL the searcher talks to.
func (s *Searcher) BaseURL() string {
	return s.client.BaseURL()
}

// SearchAll fetches every issue matching jql. Pages are requested in
// order from offset 0 until offset+pageSize reaches the reported total.
// The first failing page aborts the search and nothing is returned.
func (s *Searcher) SearchAll(
	ctx context.Context,
	creds source.Credentials,
	jql string,
) ([]Issue, error) {
	var issues []Issue
	startAt := 0

	for {
		page, err := s.searchPage(ctx, creds, jql, startAt)
		if err != nil {
			return nil, fmt.Errorf("searching Jira issues at offset %d: %w", startAt, err)
		}

		decoded, skipped := page.DecodeIssues()
		if skipped > 0 {
			s.log.Warn().
				Int("start_at", startAt).
				Int("skipped", skipped).
				Msg("skipped malformed issues")
		}
		issues = append(issues, decoded...)
		s.log.Debug().
			Int("start_at", startAt).
			Int("received", len(decoded)).
			Int("total", page.Total).
			Msg("fetched search page")

		if startAt+s.pageSize >= page.Total {
			break
		}
		startAt += s.pageSize
	}

	return issues, nil
}

// searchPage requests a single page of results.
func (s *Searcher) searchPage(
	ctx context.Context,
	creds source.Credentials,
	jql string,
	startAt int,
) (*SearchResponse, error) {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("startAt", strconv.Itoa(startAt))
	query.Set("maxResults", strconv.Itoa(s.pageSize))
	query.Set("fields", strings.Join(SearchFields, ","))
	query.Set("expand", "changelog")

	var resp SearchResponse
	if err := s.client.Get(ctx, creds, s.path, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
