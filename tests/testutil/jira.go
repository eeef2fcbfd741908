package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// JiraServer is an in-process stand-in for the Jira search endpoint. It
// pages through Issues the way the real API does and records every
// requested offset.
type JiraServer struct {
	URL string

	// Issues are served in order. Each entry is a raw issue object.
	Issues []json.RawMessage

	// FailOn is the 1-based request number answered with Status; 0 disables.
	FailOn int
	Status int

	mu      sync.Mutex
	offsets []int
	auth    []string
}

// NewJiraServer starts a JiraServer serving issues. It automatically shuts
// down when the test completes.
func NewJiraServer(t *testing.T, issues ...string) *JiraServer {
	t.Helper()

	s := &JiraServer{Status: http.StatusInternalServerError}
	for _, raw := range issues {
		s.Issues = append(s.Issues, json.RawMessage(raw))
	}

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	s.URL = srv.URL

	return s
}

// Offsets returns the startAt of every request received so far.
func (s *JiraServer) Offsets() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.offsets...)
}

// Requests returns the number of requests received so far.
func (s *JiraServer) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.offsets)
}

func (s *JiraServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startAt, _ := strconv.Atoi(q.Get("startAt"))
	maxResults, err := strconv.Atoi(q.Get("maxResults"))
	if err != nil || maxResults < 1 {
		maxResults = 50
	}

	s.mu.Lock()
	s.offsets = append(s.offsets, startAt)
	n := len(s.offsets)
	s.mu.Unlock()

	if s.FailOn == n {
		w.WriteHeader(s.Status)
		_, _ = w.Write([]byte(`{"errorMessages":["simulated failure"]}`))
		return
	}

	end := min(startAt+maxResults, len(s.Issues))
	page := []json.RawMessage{}
	if startAt < end {
		page = s.Issues[startAt:end]
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"startAt":    startAt,
		"maxResults": maxResults,
		"total":      len(s.Issues),
		"issues":     page,
	})
}
