// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Traversal fields.
	FieldRepository  = "repository"
	FieldRevision    = "revision"
	FieldPredecessor = "predecessor"
	FieldOrdinal     = "ordinal"
	FieldChanges     = "changes"
	FieldJobs        = "jobs"
	FieldExtractor   = "extractor"

	// Matching fields.
	FieldFrom        = "from"
	FieldTo          = "to"
	FieldSignature   = "signature"
	FieldBySignature = "by_signature"
	FieldByRange     = "by_range"
	FieldUnmatched   = "unmatched"

	// Tracking fields.
	FieldLifespans       = "lifespans"
	FieldCreated         = "created"
	FieldUpdated         = "updated"
	FieldChanged         = "changed"
	FieldInconsistencies = "inconsistencies"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
