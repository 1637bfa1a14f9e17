package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/lifespan/pkg/analysis"
	"github.com/yaklabco/lifespan/pkg/config"
	"github.com/yaklabco/lifespan/pkg/runner"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "report.sort_by").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownExtractors = map[string]bool{
	config.ExtractorMarkdown: true,
	config.ExtractorBlocks:   true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = map[config.Flavor]bool{
	config.FlavorCommonMark: true,
	config.FlavorGFM:        true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatTable:   true,
	config.FormatJSON:    true,
	config.FormatYAML:    true,
	config.FormatSummary: true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownColorModes = map[string]bool{
	"":       true,
	"auto":   true,
	"always": true,
	"never":  true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Extractor != "" && !knownExtractors[cfg.Extractor] {
		result.addError("extractor", cfg.Extractor,
			"invalid extractor %q; must be one of: markdown, blocks", cfg.Extractor)
	}

	if cfg.Flavor != "" && !knownFlavors[cfg.Flavor] {
		result.addError("flavor", cfg.Flavor,
			"invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}
	if cfg.Flavor == config.FlavorGFM && cfg.Extractor == config.ExtractorBlocks {
		result.addWarning("flavor", cfg.Flavor, "flavor has no effect with the blocks extractor")
	}

	if cfg.TabSize <= 0 {
		result.addError("tab_size", cfg.TabSize, "tab_size must be > 0")
	}
	if cfg.MinLines < 0 {
		result.addError("min_lines", cfg.MinLines, "min_lines must be >= 0")
	}
	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if !knownColorModes[cfg.Color] {
		result.addError("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}

	if cfg.History.MaxSteps < 0 {
		result.addError("history.max_steps", cfg.History.MaxSteps, "max_steps must be >= 0 (0 means unlimited)")
	}

	if cfg.Report.Format != "" && !knownFormats[cfg.Report.Format] {
		result.addError("report.format", cfg.Report.Format,
			"invalid format %q; must be one of: text, table, json, yaml, summary", cfg.Report.Format)
	}
	if cfg.Report.SortBy != "" && !analysis.SortField(cfg.Report.SortBy).IsValid() {
		result.addError("report.sort_by", cfg.Report.SortBy,
			"invalid sort order %q; must be one of: changes, age, alpha, created", cfg.Report.SortBy)
	}
	if cfg.Report.MinChanges < 0 {
		result.addError("report.min_changes", cfg.Report.MinChanges, "min_changes must be >= 0")
	}

	validatePatterns("include", cfg.Include, result)
	validatePatterns("exclude", cfg.Exclude, result)

	return result
}

// validatePatterns checks that every pattern compiles the way the runner
// will compile it.
func validatePatterns(field string, patterns []string, result *ValidationResult) {
	for i, pattern := range patterns {
		if _, err := runner.NewFilter(runner.Options{ExcludeGlobs: []string{pattern}}); err != nil {
			result.addError(fmt.Sprintf("%s[%d]", field, i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return knownFlavors[f]
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}

// IsValidExtractor returns true if name is a known extractor.
func IsValidExtractor(name string) bool {
	return knownExtractors[name]
}
