package runner

import (
	"github.com/yaklabco/lifespan/pkg/mapping"
	"github.com/yaklabco/lifespan/pkg/track"
)

// Step summarizes one tracked revision step.
type Step struct {
	// Ordinal is the step's position in the walk.
	Ordinal int `json:"ordinal" yaml:"ordinal"`

	// Revision is the revision the step ends at.
	Revision string `json:"revision" yaml:"revision"`

	// FilesChanged is the number of file changes leading to Revision.
	FilesChanged int `json:"files_changed" yaml:"files_changed"`

	// FilesScanned is the number of files handed to the extractor.
	FilesScanned int `json:"files_scanned" yaml:"files_scanned"`

	// Entities is the number of mappables extracted at Revision.
	Entities int `json:"entities" yaml:"entities"`

	// Links counts how the step's entities were matched to the previous step.
	Links mapping.Stats `json:"links" yaml:"links"`
}

// Stats captures aggregate information about a run.
type Stats struct {
	// Steps is the number of revision steps tracked.
	Steps int `json:"steps" yaml:"steps"`

	// FilesScanned is the total number of extracted files over all steps.
	FilesScanned int `json:"files_scanned" yaml:"files_scanned"`

	// FilesSkipped is the total number of files rejected by the filter.
	FilesSkipped int `json:"files_skipped" yaml:"files_skipped"`

	// Entities is the total number of extracted mappables over all steps.
	Entities int `json:"entities" yaml:"entities"`

	// BySignature and ByRange total the links made by each mapping stage.
	BySignature int `json:"by_signature" yaml:"by_signature"`
	ByRange     int `json:"by_range"     yaml:"by_range"`

	// Tracking holds the tracker's counters.
	Tracking track.Stats `json:"tracking" yaml:"tracking"`
}

// Result is the overall runner result.
type Result[T any] struct {
	// Lifespans are all lifespans in creation order.
	Lifespans []*track.Lifespan[T]

	// Steps summarizes each tracked step, in walk order.
	Steps []Step

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// LastOrdinal returns the ordinal of the last tracked step, or 0.
func (r *Result[T]) LastOrdinal() int {
	if r == nil || len(r.Steps) == 0 {
		return 0
	}
	return r.Steps[len(r.Steps)-1].Ordinal
}

// Alive returns the lifespans still present at the last tracked step.
func (r *Result[T]) Alive() []*track.Lifespan[T] {
	last := r.LastOrdinal()
	var out []*track.Lifespan[T]
	for _, l := range r.Lifespans {
		if l.Alive(last) {
			out = append(out, l)
		}
	}
	return out
}

func (r *Result[T]) accumulate(step Step, skipped int) {
	r.Steps = append(r.Steps, step)
	r.Stats.Steps++
	r.Stats.FilesScanned += step.FilesScanned
	r.Stats.FilesSkipped += skipped
	r.Stats.Entities += step.Entities
	r.Stats.BySignature += step.Links.BySignature
	r.Stats.ByRange += step.Links.ByRange
}
