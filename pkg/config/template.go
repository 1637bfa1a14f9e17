package config

import (
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting uncommented.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return []byte(fullTemplate), nil
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = `# lifespan configuration
# See: https://github.com/yaklabco/lifespan

# Entity extractor: markdown or blocks
extractor: markdown

# Tab width used for column computation
tab_size: 4

# Files to ignore (glob patterns)
# exclude:
#   - "vendor/**"
#   - "CHANGELOG.md"

# Reporting
# report:
#   format: text
#   sort_by: changes
#   min_changes: 0
`

const fullTemplate = `# lifespan configuration - Full Template
# See: https://github.com/yaklabco/lifespan
#
# Uncomment and modify settings as needed.

# Entity extractor: markdown (sections) or blocks (blank-line separated)
extractor: markdown

# Markdown flavor used by the markdown extractor: commonmark or gfm
flavor: commonmark

# Tab width used for column computation
tab_size: 4

# Smallest block, in lines, reported by the blocks extractor
min_lines: 1

# Files to track (glob patterns, empty means all)
include: []

# Files to ignore (glob patterns)
exclude:
  - "vendor/**"

# Skip vendored, generated and binary files
skip_vendor: true

# Restrict tracking to these languages (empty means all)
languages: []

# History bounds
history:
  # Oldest revision to visit (empty = root commit)
  from: ""
  # Newest revision to visit (empty = HEAD)
  to: ""
  # Stop after this many steps (0 = unlimited)
  max_steps: 0

# Reporting
report:
  # Output format: text, table, json, yaml, or summary
  format: text
  # Sort order: changes, age, alpha, or created
  sort_by: changes
  # Hide lifespans with fewer changes
  min_changes: 0
  # Hide lifespans that ended before the last revision
  alive_only: false
  # Include per-revision summaries
  show_steps: false
  # List every location in text output
  show_locations: false
`

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	cfg.Exclude = []string{"vendor/**"}

	jsonBytes, err := json.MarshalIndent(map[string]any{
		"extractor":   cfg.Extractor,
		"flavor":      cfg.Flavor,
		"tab_size":    cfg.TabSize,
		"min_lines":   cfg.MinLines,
		"exclude":     cfg.Exclude,
		"skip_vendor": cfg.SkipsVendor(),
		"history": map[string]any{
			"max_steps": cfg.History.MaxSteps,
		},
		"report": map[string]any{
			"format":      cfg.Report.Format,
			"sort_by":     cfg.Report.SortBy,
			"min_changes": cfg.Report.MinChanges,
		},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# lifespan configuration
# See: https://github.com/yaklabco/lifespan`
}
