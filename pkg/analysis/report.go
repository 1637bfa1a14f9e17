package analysis

import (
	"time"

	"github.com/yaklabco/lifespan/pkg/runner"
	"github.com/yaklabco/lifespan/pkg/track"
)

// Report contains pre-computed views of a tracking run.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Lifespans is the flat list for detailed output.
	Lifespans []LifespanEntry `json:"lifespans,omitempty" yaml:"lifespans,omitempty"`

	// ByFile groups lifespans by the path they were last seen at.
	ByFile []FileAnalysis `json:"byFile,omitempty" yaml:"by_file,omitempty"`

	// Steps lists the per-step summaries.
	Steps []runner.Step `json:"steps,omitempty" yaml:"steps,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary" yaml:"summary"`

	// Version is the report format version.
	Version string `json:"version" yaml:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// LifespanEntry represents a single lifespan in the report.
type LifespanEntry struct {
	ID            int              `json:"id"            yaml:"id"`
	Signature     string           `json:"signature,omitempty" yaml:"signature,omitempty"`
	Path          string           `json:"path"          yaml:"path"`
	FirstOrdinal  int              `json:"firstOrdinal"  yaml:"first_ordinal"`
	LastOrdinal   int              `json:"lastOrdinal"   yaml:"last_ordinal"`
	FirstRevision string           `json:"firstRevision" yaml:"first_revision"`
	LastRevision  string           `json:"lastRevision"  yaml:"last_revision"`
	Snapshots     int              `json:"snapshots"     yaml:"snapshots"`
	Changes       int              `json:"changes"       yaml:"changes"`
	Alive         bool             `json:"alive"         yaml:"alive"`
	Locations     []track.Location `json:"locations"     yaml:"locations"`
}

// Age returns the number of steps from birth to the last snapshot, inclusive.
func (e LifespanEntry) Age() int {
	return e.LastOrdinal - e.FirstOrdinal + 1
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Steps           int `json:"steps"           yaml:"steps"`
	Entities        int `json:"entities"        yaml:"entities"`
	Lifespans       int `json:"lifespans"       yaml:"lifespans"`
	Alive           int `json:"alive"           yaml:"alive"`
	Ended           int `json:"ended"           yaml:"ended"`
	Changed         int `json:"changed"         yaml:"changed"`
	Changes         int `json:"changes"         yaml:"changes"`
	Reported        int `json:"reported"        yaml:"reported"`
	BySignature     int `json:"bySignature"     yaml:"by_signature"`
	ByRange         int `json:"byRange"         yaml:"by_range"`
	Inconsistencies int `json:"inconsistencies" yaml:"inconsistencies"`
}

// HasLifespans returns true if any lifespan was tracked.
func (t Totals) HasLifespans() bool {
	return t.Lifespans > 0
}

// HasInconsistencies returns true if the tracker saw links to unknown entries.
func (t Totals) HasInconsistencies() bool {
	return t.Inconsistencies > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path      string `json:"path"      yaml:"path"`
	Lifespans int    `json:"lifespans" yaml:"lifespans"`
	Alive     int    `json:"alive"     yaml:"alive"`
	Changes   int    `json:"changes"   yaml:"changes"`
}
