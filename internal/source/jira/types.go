package jira

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"
)

// Field identifiers requested during a blocked-issue search.
const (
	FieldSummary  = "summary"
	FieldAssignee = "assignee"
	FieldStatus   = "status"
	FieldFunction = "customfield_12220"
	FieldTeam     = "customfield_12221"
	FieldCreated  = "created"
)

// SearchFields is the field projection sent with every search request.
var SearchFields = []string{
	FieldSummary, FieldAssignee, FieldStatus,
	FieldFunction, FieldTeam, FieldCreated,
}

// SearchResponse is the response from GET /rest/api/3/search. Issues
// stay raw so that one malformed issue cannot fail the whole page.
type SearchResponse struct {
	StartAt    int               `json:"startAt"`
	MaxResults int               `json:"maxResults"`
	Total      int               `json:"total"`
	Issues     []json.RawMessage `json:"issues"`
}

// DecodeIssues decodes every issue of the page. Entries that are not JSON
// objects are skipped and counted.
func (r *SearchResponse) DecodeIssues() (issues []Issue, skipped int) {
	issues = make([]Issue, 0, len(r.Issues))
	for _, raw := range r.Issues {
		var issue Issue
		if err := json.Unmarshal(raw, &issue); err != nil {
			skipped++
			continue
		}
		issues = append(issues, issue)
	}
	return issues, skipped
}

// Issue is a single Jira issue as returned by the search endpoint.
// Fields and Changelog are kept raw so that a malformed nested value
// only affects the accessor that reads it.
type Issue struct {
	ID        string
	Key       string
	Fields    json.RawMessage
	Changelog json.RawMessage
}

// UnmarshalJSON accepts any JSON object. A key or id of the wrong type
// decodes to its raw text; other shape problems surface in the accessors.
func (i *Issue) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return errors.New("issue is null")
	}

	*i = Issue{
		ID:        scalarString(obj["id"]),
		Key:       scalarString(obj["key"]),
		Fields:    obj["fields"],
		Changelog: obj["changelog"],
	}
	return nil
}

// scalarString returns a JSON string's value, or the raw text of any other
// scalar. Objects, arrays and null yield "".
func scalarString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" || strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return ""
	}
	return text
}

// fields decodes the field map. A missing or non-object value yields nil.
func (i Issue) fields() map[string]json.RawMessage {
	if len(i.Fields) == 0 {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(i.Fields, &m); err != nil {
		return nil
	}
	return m
}

// History is one entry of an issue changelog.
type History struct {
	ID      string        `json:"id"`
	Created string        `json:"created"`
	Items   []HistoryItem `json:"items"`
}

// HistoryItem is a single field change inside a History entry.
type HistoryItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// StringField returns a top-level string field, or "" when it is absent
// or not a string.
func (i Issue) StringField(name string) string {
	raw, ok := i.fields()[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// NestedString reads obj[key] from an object-valued field. ok is false
// when the field is missing, null, not an object, or key is not a string.
func (i Issue) NestedString(name, key string) (string, bool) {
	raw, ok := i.fields()[name]
	if !ok {
		return "", false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return "", false
	}
	inner, ok := obj[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(inner, &s); err != nil {
		return "", false
	}
	return s, true
}

// Histories decodes the changelog leniently and returns its entries sorted
// ascending by creation time. Entries that cannot be decoded are dropped.
func (i Issue) Histories() []History {
	if len(i.Changelog) == 0 {
		return nil
	}

	var page struct {
		Histories []json.RawMessage `json:"histories"`
	}
	if err := json.Unmarshal(i.Changelog, &page); err != nil {
		return nil
	}

	out := make([]History, 0, len(page.Histories))
	for _, raw := range page.Histories {
		var h History
		if err := json.Unmarshal(raw, &h); err != nil {
			continue
		}
		out = append(out, h)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return ParseTime(out[a].Created).Before(ParseTime(out[b].Created))
	})
	return out
}

// BrowseURL returns the web link for an issue key.
func BrowseURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/browse/" + key
}

// ParseTime parses a Jira timestamp string. Jira uses the format
// "2006-01-02T15:04:05.000-0700". Unparseable input yields the zero time.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	layouts := []string{
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05-0700",
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
