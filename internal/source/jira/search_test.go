package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/blocked-report/internal/source"
)

// fakeJira serves a fixed number of issues through the search endpoint and
// records the startAt of every request.
type fakeJira struct {
	mu       sync.Mutex
	total    int
	failOn   int // 1-based request number that returns 500; 0 disables
	offsets  []int
	requests []*http.Request
}

func (f *fakeJira) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	n := len(f.requests)
	f.mu.Unlock()

	if r.URL.Path != DefaultSearchPath {
		http.NotFound(w, r)
		return
	}

	startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
	maxResults, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))

	f.mu.Lock()
	f.offsets = append(f.offsets, startAt)
	f.mu.Unlock()

	if f.failOn == n {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errorMessages":["boom"]}`))
		return
	}

	var issues []map[string]any
	for i := startAt; i < startAt+maxResults && i < f.total; i++ {
		issues = append(issues, map[string]any{
			"key":    fmt.Sprintf("ABC-%d", i+1),
			"fields": map[string]any{"summary": fmt.Sprintf("issue %d", i+1)},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"startAt":    startAt,
		"maxResults": maxResults,
		"total":      f.total,
		"issues":     issues,
	})
}

func newTestSearcher(t *testing.T, h http.Handler) *Searcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewSearcher(NewClient(srv.URL, 5*time.Second), "", 50, zerolog.Nop())
}

var testCreds = source.Credentials{Email: "me@example.com", Token: "secret"}

func TestSearchAll_Paginates(t *testing.T) {
	fake := &fakeJira{total: 120}
	s := newTestSearcher(t, fake)

	issues, err := s.SearchAll(context.Background(), testCreds, "project = ABC")
	require.NoError(t, err)

	assert.Equal(t, []int{0, 50, 100}, fake.offsets)
	require.Len(t, issues, 120)
	assert.Equal(t, "ABC-1", issues[0].Key)
	assert.Equal(t, "ABC-120", issues[119].Key)
}

func TestSearchAll_SinglePage(t *testing.T) {
	tests := []struct {
		name  string
		total int
	}{
		{name: "empty result", total: 0},
		{name: "partial page", total: 7},
		{name: "exact page", total: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeJira{total: tt.total}
			s := newTestSearcher(t, fake)

			issues, err := s.SearchAll(context.Background(), testCreds, "x")
			require.NoError(t, err)
			assert.Len(t, issues, tt.total)
			assert.Equal(t, []int{0}, fake.offsets)
		})
	}
}

func TestSearchAll_RequestShape(t *testing.T) {
	fake := &fakeJira{total: 1}
	s := newTestSearcher(t, fake)

	_, err := s.SearchAll(context.Background(), testCreds, `status = "Blocked Internal"`)
	require.NoError(t, err)
	require.Len(t, fake.requests, 1)

	r := fake.requests[0]
	q := r.URL.Query()
	assert.Equal(t, http.MethodGet, r.Method)
	assert.Equal(t, `status = "Blocked Internal"`, q.Get("jql"))
	assert.Equal(t, "50", q.Get("maxResults"))
	assert.Equal(t, "changelog", q.Get("expand"))
	assert.Equal(t,
		"summary,assignee,status,customfield_12220,customfield_12221,created",
		q.Get("fields"))
	assert.Equal(t, "application/json", r.Header.Get("Accept"))

	user, pass, ok := r.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "me@example.com", user)
	assert.Equal(t, "secret", pass)
}

func TestSearchAll_FailureOnSecondPageDiscardsEverything(t *testing.T) {
	fake := &fakeJira{total: 120, failOn: 2}
	s := newTestSearcher(t, fake)

	issues, err := s.SearchAll(context.Background(), testCreds, "x")
	require.Error(t, err)
	assert.Nil(t, issues)
	assert.True(t, source.IsHTTPError(err))
	assert.Equal(t, []int{0, 50}, fake.offsets, "no retry and no further pages")

	var httpErr *source.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "boom", httpErr.Message)
}

func TestSearchAll_Unauthorized(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	s := newTestSearcher(t, h)

	_, err := s.SearchAll(context.Background(), testCreds, "x")
	require.Error(t, err)
	assert.True(t, source.IsHTTPError(err))
	assert.Contains(t, err.Error(), "authentication failed")
}

func TestSearchAll_MalformedBodyIsNotHTTPError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"issues": "nope"`))
	})
	s := newTestSearcher(t, h)

	_, err := s.SearchAll(context.Background(), testCreds, "x")
	require.Error(t, err)
	assert.False(t, source.IsHTTPError(err))
}
