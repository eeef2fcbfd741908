package report

import (
	"strconv"

	"github.com/nhle/blocked-report/internal/blocked"
)

// Column names, in report order.
const (
	ColKey      = "Key"
	ColSummary  = "Summary"
	ColAssignee = "Assignee"
	ColStatus   = "Status"
	ColFunction = "Function"
	ColTeam     = "Team"
	ColCreated  = "Created"
	ColDays     = "Business Days in Blocked"
	ColLink     = "Link"
)

// Columns is the fixed column set of every report.
var Columns = []string{
	ColKey, ColSummary, ColAssignee, ColStatus, ColFunction,
	ColTeam, ColCreated, ColDays, ColLink,
}

// Table is an assembled report. Records keep query order.
type Table struct {
	Team    string
	Records []blocked.Record
}

// Assemble collects records into a Table without reordering or filtering.
func Assemble(teamName string, records []blocked.Record) *Table {
	return &Table{
		Team:    teamName,
		Records: append([]blocked.Record(nil), records...),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Records)
}

// DisplayColumns returns every column except the raw link.
func (t *Table) DisplayColumns() []string {
	return DisplayColumns()
}

// DisplayColumns returns every report column except the raw link.
func DisplayColumns() []string {
	return append([]string(nil), Columns[:len(Columns)-1]...)
}

// DisplayRows returns the rows for DisplayColumns as strings.
func (t *Table) DisplayRows() [][]string {
	rows := make([][]string, 0, len(t.Records))
	for _, r := range t.Records {
		rows = append(rows, []string{
			r.Key, r.Summary, r.Assignee, r.Status, r.Function,
			r.Team, r.Created, FormatDays(r.BusinessDaysBlocked),
		})
	}
	return rows
}

// FormatDays renders a business-day count; unknown counts are blank.
func FormatDays(days *int) string {
	if days == nil {
		return ""
	}
	return strconv.Itoa(*days)
}
