package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/blocked-report/internal/source"
	"github.com/nhle/blocked-report/internal/source/jira"
	"github.com/nhle/blocked-report/internal/team"
	"github.com/nhle/blocked-report/tests/testutil"
)

var (
	goodCreds = source.Credentials{Email: "me@example.com", Token: "secret"}
	fixedNow  = time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)
)

// stubSearcher records the queries it receives and returns canned data.
type stubSearcher struct {
	issues []jira.Issue
	err    error
	calls  int
	jql    string
}

func (s *stubSearcher) BaseURL() string { return "https://tracker.example.com" }

func (s *stubSearcher) SearchAll(
	_ context.Context,
	_ source.Credentials,
	jql string,
) ([]jira.Issue, error) {
	s.calls++
	s.jql = jql
	if s.err != nil {
		return nil, s.err
	}
	return s.issues, nil
}

func newTestGenerator(s Searcher, opts ...Option) *Generator {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewGenerator(s, team.MustDefault(), zerolog.Nop(), opts...)
}

func mustIssue(t *testing.T, raw string) jira.Issue {
	t.Helper()
	var issue jira.Issue
	require.NoError(t, json.Unmarshal([]byte(raw), &issue))
	return issue
}

func TestGenerate_MissingCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds source.Credentials
	}{
		{"no email", source.Credentials{Token: "t"}},
		{"no token", source.Credentials{Email: "e"}},
		{"blank", source.Credentials{Email: "  ", Token: " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSearcher{}
			g := newTestGenerator(stub)

			res, err := g.Generate(context.Background(), "Reliance", tt.creds)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrMissingCredentials)
			assert.Equal(t, FailureValidation, Classify(err))
			assert.Zero(t, stub.calls, "no fetch without credentials")
		})
	}
}

func TestGenerate_Success(t *testing.T) {
	stub := &stubSearcher{issues: []jira.Issue{
		mustIssue(t, `{"key": "OPS-1", "fields": {"summary": "one"},
			"changelog": {"histories": [{"created": "2024-03-11T08:00:00.000+0000",
			"items": [{"field": "status", "toString": "Blocked Internal"}]}]}}`),
		mustIssue(t, `{"key": "OPS-2", "fields": {"summary": "two"}}`),
	}}
	g := newTestGenerator(stub)

	res, err := g.Generate(context.Background(), "TbM Ocean", goodCreds)
	require.NoError(t, err)

	assert.Equal(t, team.MustDefault().JQL("TbM Ocean"), stub.jql)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, fixedNow, res.GeneratedAt)
	assert.NotEmpty(t, res.XLSX)

	require.Equal(t, 2, res.Table.Len())
	first := res.Table.Records[0]
	assert.Equal(t, "OPS-1", first.Key)
	assert.Equal(t, "https://tracker.example.com/browse/OPS-1", first.Link)
	require.NotNil(t, first.BusinessDaysBlocked)
	assert.Equal(t, 2, *first.BusinessDaysBlocked)
	assert.Nil(t, res.Table.Records[1].BusinessDaysBlocked)
	assert.Equal(t, "", res.Table.Records[1].Team)
}

func TestGenerate_UnknownTeamUsesDefaultFilter(t *testing.T) {
	stub := &stubSearcher{}
	g := newTestGenerator(stub)

	_, err := g.Generate(context.Background(), "Nonexistent", goodCreds)
	require.NoError(t, err)
	assert.Equal(t, team.MustDefault().JQL(team.Default), stub.jql)
}

func TestGenerate_TeamFallback(t *testing.T) {
	stub := &stubSearcher{issues: []jira.Issue{mustIssue(t, `{"key": "A-1"}`)}}
	g := newTestGenerator(stub, WithTeamFallback(true))

	res, err := g.Generate(context.Background(), "Abbey Road", goodCreds)
	require.NoError(t, err)
	assert.Equal(t, "Abbey Road", res.Table.Records[0].Team)
}

func TestGenerate_OtherFailure(t *testing.T) {
	stub := &stubSearcher{err: errors.New("connection reset")}
	g := newTestGenerator(stub)

	res, err := g.Generate(context.Background(), "Reliance", goodCreds)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, FailureOther, Classify(err))
	assert.Equal(t, "An error occurred: fetching issues: connection reset", Describe(err))
}

func TestGenerate_HTTP500OnSecondPage(t *testing.T) {
	issues := make([]string, 120)
	for i := range issues {
		issues[i] = fmt.Sprintf(`{"key":"OPS-%d"}`, i+1)
	}
	server := testutil.NewJiraServer(t, issues...)
	server.FailOn = 2

	searcher := jira.NewSearcher(jira.NewClient(server.URL, 5*time.Second), "", 50, zerolog.Nop())
	g := newTestGenerator(searcher)

	res, err := g.Generate(context.Background(), "Reliance", goodCreds)
	assert.Nil(t, res, "no table and no export")
	require.Error(t, err)
	assert.Equal(t, FailureHTTP, Classify(err))
	assert.Contains(t, Describe(err), "HTTP error: ")
	assert.Equal(t, []int{0, 50}, server.Offsets())
}

func TestGenerate_MalformedIssueKeepsBatch(t *testing.T) {
	server := testutil.NewJiraServer(t,
		`{"key":"OPS-1","fields":{"summary":"ok","assignee":{"displayName":"Ana"}}}`,
		`{"key":"OPS-2","fields":"oops"}`,
	)
	searcher := jira.NewSearcher(jira.NewClient(server.URL, 5*time.Second), "", 50, zerolog.Nop())
	g := newTestGenerator(searcher)

	res, err := g.Generate(context.Background(), "Reliance", goodCreds)
	require.NoError(t, err)
	require.Equal(t, 2, res.Table.Len())

	assert.Equal(t, "ok", res.Table.Records[0].Summary)
	assert.Equal(t, "Ana", res.Table.Records[0].Assignee)

	bad := res.Table.Records[1]
	assert.Equal(t, "OPS-2", bad.Key)
	assert.Equal(t, "", bad.Summary)
	assert.Equal(t, "Unassigned", bad.Assignee)
	assert.Nil(t, bad.BusinessDaysBlocked)
	assert.NotEmpty(t, res.XLSX)
}

func TestClassify(t *testing.T) {
	httpErr := fmt.Errorf("wrapped: %w", &source.HTTPError{StatusCode: 503})

	assert.Equal(t, FailureNone, Classify(nil))
	assert.Equal(t, FailureValidation, Classify(ErrMissingCredentials))
	assert.Equal(t, FailureHTTP, Classify(httpErr))
	assert.Equal(t, FailureOther, Classify(errors.New("x")))

	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "Please enter both Jira email and API token.", Describe(ErrMissingCredentials))
	assert.Equal(t, "http", FailureHTTP.String())
}
