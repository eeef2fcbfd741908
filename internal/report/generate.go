package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nhle/blocked-report/internal/blocked"
	"github.com/nhle/blocked-report/internal/source"
	"github.com/nhle/blocked-report/internal/source/jira"
	"github.com/nhle/blocked-report/internal/team"
)

// ErrMissingCredentials is returned before any request is made when the
// email or API token is empty.
var ErrMissingCredentials = errors.New("please enter both Jira email and API token")

// Searcher fetches every issue matching a query.
type Searcher interface {
	BaseURL() string
	SearchAll(ctx context.Context, creds source.Credentials, jql string) ([]jira.Issue, error)
}

// Result is the outcome of one successful report run.
type Result struct {
	RunID       string
	Team        string
	GeneratedAt time.Time
	Table       *Table
	XLSX        []byte
}

// Generator runs the fetch, extract, assemble and render pipeline.
type Generator struct {
	searcher     Searcher
	teams        *team.Registry
	teamFallback bool
	now          func() time.Time
	log          zerolog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the report time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithTeamFallback fills missing team tags with the requested team name.
func WithTeamFallback(enabled bool) Option {
	return func(g *Generator) { g.teamFallback = enabled }
}

// NewGenerator creates a Generator.
func NewGenerator(
	s Searcher,
	teams *team.Registry,
	log zerolog.Logger,
	opts ...Option,
) *Generator {
	g := &Generator{
		searcher: s,
		teams:    teams,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Teams returns the registry used to build queries.
func (g *Generator) Teams() *team.Registry {
	return g.teams
}

// Generate produces the report for teamName. Either a complete Result or
// an error is returned, never both.
func (g *Generator) Generate(
	ctx context.Context,
	teamName string,
	creds source.Credentials,
) (*Result, error) {
	if !creds.Complete() {
		return nil, ErrMissingCredentials
	}

	runID := uuid.NewString()
	log := g.log.With().Str("run_id", runID).Str("team", teamName).Logger()

	filter, known := g.teams.Lookup(teamName)
	if !known {
		log.Warn().Str("fallback", filter.Name).Msg("unknown team, using default filter")
	}

	started := g.now()
	log.Info().Msg("fetching blocked issues")

	issues, err := g.searcher.SearchAll(ctx, creds, filter.JQL())
	if err != nil {
		log.Error().Err(err).Str("failure", Classify(err).String()).Msg("report failed")
		return nil, fmt.Errorf("fetching issues: %w", err)
	}

	opts := blocked.Options{
		BaseURL: g.searcher.BaseURL(),
		Now:     started,
	}
	if g.teamFallback {
		opts.TeamFallback = teamName
	}

	records := make([]blocked.Record, 0, len(issues))
	for _, issue := range issues {
		records = append(records, blocked.Extract(issue, opts))
	}

	table := Assemble(teamName, records)

	data, err := RenderXLSX(table)
	if err != nil {
		log.Error().Err(err).Msg("rendering export failed")
		return nil, fmt.Errorf("rendering export: %w", err)
	}

	log.Info().
		Int("issues", table.Len()).
		Int("export_bytes", len(data)).
		Dur("elapsed", g.now().Sub(started)).
		Msg("report generated")

	return &Result{
		RunID:       runID,
		Team:        teamName,
		GeneratedAt: started,
		Table:       table,
		XLSX:        data,
	}, nil
}
