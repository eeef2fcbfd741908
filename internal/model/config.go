package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nhle/blocked-report/internal/source/jira"
	"github.com/nhle/blocked-report/internal/team"
)

// DefaultBaseURL is the Jira site queried when none is configured.
const DefaultBaseURL = "https://maersk-tools.atlassian.net"

// JiraConfig holds connection settings for the tracker.
type JiraConfig struct {
	// BaseURL is the root URL of the Jira site.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// SearchPath is the REST search endpoint.
	SearchPath string `mapstructure:"search_path" yaml:"search_path"`

	// PageSize is the number of issues requested per page.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// Timeout bounds each HTTP request. Zero disables the limit.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// TeamEntry maps one team name to its Jira team identifiers.
type TeamEntry struct {
	Name string   `mapstructure:"name" yaml:"name"`
	IDs  []string `mapstructure:"ids" yaml:"ids"`
}

// TeamsConfig holds the team table. List is a slice rather than a map
// because Viper lowercases map keys and team names are case-sensitive.
type TeamsConfig struct {
	Default string      `mapstructure:"default" yaml:"default"`
	List    []TeamEntry `mapstructure:"list" yaml:"list"`
}

// ReportConfig holds record derivation preferences.
type ReportConfig struct {
	// TeamFallback shows the selected team when an issue has no team tag.
	TeamFallback bool `mapstructure:"team_fallback" yaml:"team_fallback"`
}

// ExportConfig holds spreadsheet output settings.
type ExportConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Jira   JiraConfig   `mapstructure:"jira" yaml:"jira"`
	Teams  TeamsConfig  `mapstructure:"teams" yaml:"teams"`
	Report ReportConfig `mapstructure:"report" yaml:"report"`
	Export ExportConfig `mapstructure:"export" yaml:"export"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// envKeys are the settings that can be overridden from the environment.
var envKeys = []string{"jira.base_url", "log.file", "log.level"}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/blockedreport/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "blockedreport", "config.yaml")
}

// DefaultAppConfig returns the built-in configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Jira: JiraConfig{
			BaseURL:    DefaultBaseURL,
			SearchPath: jira.DefaultSearchPath,
			PageSize:   jira.DefaultPageSize,
			Timeout:    60 * time.Second,
		},
		Teams: TeamsConfig{
			Default: team.Default,
			List:    defaultTeamEntries(),
		},
		Export: ExportConfig{Dir: "."},
		Log:    LogConfig{Level: "info"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns the default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := DefaultAppConfig()
	v.SetDefault("jira.base_url", def.Jira.BaseURL)
	v.SetDefault("jira.search_path", def.Jira.SearchPath)
	v.SetDefault("jira.page_size", def.Jira.PageSize)
	v.SetDefault("jira.timeout", def.Jira.Timeout)
	v.SetDefault("teams.default", def.Teams.Default)
	v.SetDefault("report.team_fallback", false)
	v.SetDefault("export.dir", def.Export.Dir)
	v.SetDefault("log.level", def.Log.Level)

	// BLOCKEDREPORT_JIRA_BASE_URL, BLOCKEDREPORT_LOG_FILE, BLOCKEDREPORT_LOG_LEVEL
	v.SetEnvPrefix("BLOCKEDREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", k, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// A configured team table replaces the built-in one entirely.
	if len(cfg.Teams.List) == 0 {
		cfg.Teams.List = def.Teams.List
	}
	if cfg.Jira.PageSize < 1 {
		cfg.Jira.PageSize = def.Jira.PageSize
	}

	return cfg, nil
}

// TeamRegistry builds the immutable team lookup from the configuration.
// Teams are offered in the order they are listed.
func (c *AppConfig) TeamRegistry() (*team.Registry, error) {
	ids := make(map[string][]string, len(c.Teams.List))
	order := make([]string, 0, len(c.Teams.List))
	for _, t := range c.Teams.List {
		if _, dup := ids[t.Name]; dup {
			return nil, fmt.Errorf("invalid team configuration: team %q listed twice", t.Name)
		}
		ids[t.Name] = t.IDs
		order = append(order, t.Name)
	}

	r, err := team.NewRegistry(ids, order, c.Teams.Default)
	if err != nil {
		return nil, fmt.Errorf("invalid team configuration: %w", err)
	}
	return r, nil
}

// defaultTeamEntries lists the built-in teams in selector order.
func defaultTeamEntries() []TeamEntry {
	ids := team.DefaultIDs()
	entries := make([]TeamEntry, 0, len(ids))
	for _, name := range team.DefaultOrder() {
		entries = append(entries, TeamEntry{Name: name, IDs: ids[name]})
	}
	return entries
}
