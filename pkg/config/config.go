// Package config defines core configuration types for lifespan.
// These types are pure data structures with no dependency on how they are loaded.
package config

// Extractor names accepted in configuration.
const (
	ExtractorMarkdown = "markdown"
	ExtractorBlocks   = "blocks"
)

// DefaultTabSize is the tab width used for column computation.
const DefaultTabSize = 4

// Flavor specifies the Markdown flavor used by the markdown extractor.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat specifies the output format for reports.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// HistoryConfig bounds the part of the history that is walked.
type HistoryConfig struct {
	// From is the oldest revision to visit. Empty means the root commit.
	From string `mapstructure:"from" yaml:"from,omitempty"`

	// To is the newest revision to visit. Empty means HEAD.
	To string `mapstructure:"to" yaml:"to,omitempty"`

	// MaxSteps stops the walk after this many steps (0 = unlimited).
	MaxSteps int `mapstructure:"max_steps" yaml:"max_steps,omitempty"`
}

// ReportConfig controls what is reported and how.
type ReportConfig struct {
	// Format is the output format.
	Format OutputFormat `mapstructure:"format" yaml:"format,omitempty"`

	// SortBy is one of changes, age, alpha, created.
	SortBy string `mapstructure:"sort_by" yaml:"sort_by,omitempty"`

	// MinChanges hides lifespans that changed fewer times.
	MinChanges int `mapstructure:"min_changes" yaml:"min_changes,omitempty"`

	// AliveOnly hides lifespans that ended before the last step.
	AliveOnly bool `mapstructure:"alive_only" yaml:"alive_only,omitempty"`

	// ShowSteps includes per-step summaries.
	ShowSteps bool `mapstructure:"show_steps" yaml:"show_steps,omitempty"`

	// ShowLocations lists every range in text output.
	ShowLocations bool `mapstructure:"show_locations" yaml:"show_locations,omitempty"`
}

// Config is the root configuration structure for lifespan.
type Config struct {
	// Extractor selects how entities are found in files.
	Extractor string `mapstructure:"extractor" yaml:"extractor"`

	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `mapstructure:"flavor" yaml:"flavor,omitempty"`

	// TabSize is the tab width used for column computation.
	TabSize int `mapstructure:"tab_size" yaml:"tab_size"`

	// MinLines is the smallest block the blocks extractor reports.
	MinLines int `mapstructure:"min_lines" yaml:"min_lines,omitempty"`

	// Include contains glob patterns for files to track. Empty means all.
	Include []string `mapstructure:"include" yaml:"include,omitempty"`

	// Exclude contains glob patterns for files to ignore.
	Exclude []string `mapstructure:"exclude" yaml:"exclude,omitempty"`

	// SkipVendor skips vendored, generated and binary files.
	// Nil means the default (true).
	SkipVendor *bool `mapstructure:"skip_vendor" yaml:"skip_vendor,omitempty"`

	// Languages restricts tracking to files of these languages.
	Languages []string `mapstructure:"languages" yaml:"languages,omitempty"`

	// History bounds the walk.
	History HistoryConfig `mapstructure:"history" yaml:"history,omitempty"`

	// Report controls output.
	Report ReportConfig `mapstructure:"report" yaml:"report,omitempty"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel extraction workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// Color is "auto", "always" or "never".
	Color string `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	skipVendor := true
	return &Config{
		Extractor:  ExtractorMarkdown,
		Flavor:     FlavorCommonMark,
		TabSize:    DefaultTabSize,
		MinLines:   1,
		SkipVendor: &skipVendor,
		Report: ReportConfig{
			Format: FormatText,
			SortBy: "changes",
		},
		Jobs:  0, // 0 means use GOMAXPROCS
		Color: "auto",
	}
}

// SkipsVendor reports whether vendored files are skipped.
func (c *Config) SkipsVendor() bool {
	return c.SkipVendor == nil || *c.SkipVendor
}
