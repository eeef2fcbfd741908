package blocked

import (
	"time"

	"github.com/nhle/blocked-report/internal/source/jira"
	"github.com/nhle/blocked-report/internal/team"
)

// Unassigned is shown when an issue has no usable assignee.
const Unassigned = "Unassigned"

// Record is the per-issue row of the blocked report.
type Record struct {
	Key      string
	Summary  string
	Assignee string
	Status   string
	Function string
	Team     string
	Created  string

	// BusinessDaysBlocked is nil when the history holds no transition
	// into a blocked state.
	BusinessDaysBlocked *int

	Link string
}

// Options control record derivation.
type Options struct {
	// BaseURL is the tracker root used to build detail links.
	BaseURL string

	// Now is the report time; business days are counted up to its date.
	Now time.Time

	// TeamFallback replaces a missing team tag when non-empty.
	TeamFallback string
}

// Extract derives the report record for one issue.
func Extract(issue jira.Issue, opts Options) Record {
	rec := Record{
		Key:      issue.Key,
		Summary:  issue.StringField(jira.FieldSummary),
		Assignee: Unassigned,
		Created:  issue.StringField(jira.FieldCreated),
		Link:     jira.BrowseURL(opts.BaseURL, issue.Key),
	}

	if name, ok := issue.NestedString(jira.FieldAssignee, "displayName"); ok {
		rec.Assignee = name
	}
	rec.Status, _ = issue.NestedString(jira.FieldStatus, "name")
	rec.Function, _ = issue.NestedString(jira.FieldFunction, "value")
	rec.Team, _ = issue.NestedString(jira.FieldTeam, "value")
	if rec.Team == "" {
		rec.Team = opts.TeamFallback
	}

	if since, ok := LastBlockedAt(issue.Histories()); ok {
		days := BusinessDays(since, opts.Now)
		rec.BusinessDaysBlocked = &days
	}

	return rec
}

// LastBlockedAt returns the time of the most recent status change into a
// blocked state. histories must be sorted ascending. Entries without a
// parseable timestamp are ignored.
func LastBlockedAt(histories []jira.History) (time.Time, bool) {
	var (
		last  time.Time
		found bool
	)
	for _, h := range histories {
		at := jira.ParseTime(h.Created)
		if at.IsZero() {
			continue
		}
		for _, item := range h.Items {
			if item.Field == "status" && isBlocked(item.ToString) {
				last = at
				found = true
			}
		}
	}
	return last, found
}

func isBlocked(status string) bool {
	for _, s := range team.BlockedStatuses {
		if status == s {
			return true
		}
	}
	return false
}
