package team

import (
	"fmt"
	"sort"
	"strings"
)

// Default is the team whose filter is used for unrecognized names.
const Default = "Reliance"

// BlockedStatuses are the workflow states that count as blocked.
var BlockedStatuses = []string{"Blocked Internal", "Blocked External"}

// IssueTypes are the issue types included in the report.
var IssueTypes = []string{"Story", "Support"}

// DefaultIDs is the built-in team to identifier mapping.
func DefaultIDs() map[string][]string {
	return map[string][]string{
		"Reliance": {
			"92aa14a1-a594-471e-9b9f-162d0d038010-554",
		},
		"Abbey Road": {
			"abbey-road-team-id",
		},
		"Team Tigers": {
			"team-tigers-team-id",
		},
		"TbM Ocean": {
			"92aa14a1-a594-471e-9b9f-162d0d038010-554",
			"92aa14a1-a594-471e-9b9f-162d0d038010-298",
			"b4d52324-fe3a-451f-ab59-89efbbbcd2ee",
		},
	}
}

// DefaultOrder is the order teams are offered in the selector.
func DefaultOrder() []string {
	return []string{"Reliance", "Abbey Road", "Team Tigers", "TbM Ocean"}
}

// Filter is one team's query fragment source.
type Filter struct {
	Name string
	IDs  []string
}

// Registry is an immutable lookup of team filters.
type Registry struct {
	filters     map[string]Filter
	names       []string
	defaultName string
}

// NewRegistry validates the mapping and builds a Registry. Teams listed
// in order come first; any remaining teams follow alphabetically.
func NewRegistry(
	ids map[string][]string,
	order []string,
	defaultName string,
) (*Registry, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no teams configured")
	}

	filters := make(map[string]Filter, len(ids))
	for name, teamIDs := range ids {
		cleaned := make([]string, 0, len(teamIDs))
		for _, id := range teamIDs {
			if id = strings.TrimSpace(id); id != "" {
				cleaned = append(cleaned, id)
			}
		}
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("team %q has no identifiers", name)
		}
		filters[name] = Filter{Name: name, IDs: cleaned}
	}

	if _, ok := filters[defaultName]; !ok {
		return nil, fmt.Errorf("default team %q is not configured", defaultName)
	}

	names := make([]string, 0, len(filters))
	seen := make(map[string]bool, len(filters))
	for _, name := range order {
		if _, ok := filters[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range filters {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	return &Registry{
		filters:     filters,
		names:       names,
		defaultName: defaultName,
	}, nil
}

// MustDefault returns the built-in registry.
func MustDefault() *Registry {
	r, err := NewRegistry(DefaultIDs(), DefaultOrder(), Default)
	if err != nil {
		panic(err)
	}
	return r
}

// Names returns the recognized team names in selector order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// DefaultName returns the fallback team name.
func (r *Registry) DefaultName() string {
	return r.defaultName
}

// Lookup returns the filter for name, falling back to the default team.
// ok is false when the fallback was used.
func (r *Registry) Lookup(name string) (Filter, bool) {
	if f, ok := r.filters[name]; ok {
		return f, true
	}
	return r.filters[r.defaultName], false
}

// JQL builds the blocked-issue search for the named team.
func (r *Registry) JQL(name string) string {
	f, _ := r.Lookup(name)
	return f.JQL()
}

// JQL renders the filter as a search expression.
func (f Filter) JQL() string {
	return fmt.Sprintf(
		`"Team[Team]" in (%s) AND issuetype in (%s) AND status in (%s) ORDER BY created ASC`,
		strings.Join(f.IDs, ", "),
		strings.Join(IssueTypes, ", "),
		quoteAll(BlockedStatuses),
	)
}

// quoteAll joins values as a comma-separated list of quoted strings.
func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}
