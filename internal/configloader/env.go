package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/lifespan/pkg/config"
)

// envVarPrefix is the prefix for all lifespan environment variables.
const envVarPrefix = "LIFESPAN_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"EXTRACTOR":   {field: "extractor", typ: envTypeString, description: "Entity extractor: markdown or blocks"},
	"FLAVOR":      {field: "flavor", typ: envTypeString, description: "Markdown flavor: commonmark or gfm"},
	"TAB_SIZE":    {field: "tab_size", typ: envTypeInt, description: "Tab width for column computation"},
	"MIN_LINES":   {field: "min_lines", typ: envTypeInt, description: "Smallest block reported by the blocks extractor"},
	"JOBS":        {field: "jobs", typ: envTypeInt, description: "Number of parallel extraction workers (0 = auto)"},
	"INCLUDE":     {field: "include", typ: envTypeSlice, description: "Comma-separated list of include patterns"},
	"EXCLUDE":     {field: "exclude", typ: envTypeSlice, description: "Comma-separated list of exclude patterns"},
	"LANGUAGES":   {field: "languages", typ: envTypeSlice, description: "Comma-separated list of languages to track"},
	"SKIP_VENDOR": {field: "skip_vendor", typ: envTypeBool, description: "Skip vendored and generated files: true or false"},
	"FROM":        {field: "history.from", typ: envTypeString, description: "Oldest revision to visit"},
	"TO":          {field: "history.to", typ: envTypeString, description: "Newest revision to visit"},
	"MAX_STEPS":   {field: "history.max_steps", typ: envTypeInt, description: "Stop after this many revisions (0 = unlimited)"},
	"FORMAT":      {field: "report.format", typ: envTypeString, description: "Output format: text, table, json, yaml, or summary"},
	"SORT_BY":     {field: "report.sort_by", typ: envTypeString, description: "Sort order: changes, age, alpha, or created"},
	"MIN_CHANGES": {field: "report.min_changes", typ: envTypeInt, description: "Hide lifespans with fewer changes"},
	"ALIVE_ONLY":  {field: "report.alive_only", typ: envTypeBool, description: "Hide ended lifespans: true or false"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with LIFESPAN_ (e.g., LIFESPAN_EXTRACTOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue splits a comma-separated string, trimming each element.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "extractor":
		cfg.Extractor = value
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "history.from":
		cfg.History.From = value
	case "history.to":
		cfg.History.To = value
	case "report.format":
		cfg.Report.Format = config.OutputFormat(value)
	case "report.sort_by":
		cfg.Report.SortBy = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "skip_vendor":
		cfg.SkipVendor = &value
	case "report.alive_only":
		cfg.Report.AliveOnly = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "tab_size":
		cfg.TabSize = value
	case "min_lines":
		cfg.MinLines = value
	case "jobs":
		cfg.Jobs = value
	case "history.max_steps":
		cfg.History.MaxSteps = value
	case "report.min_changes":
		cfg.Report.MinChanges = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "include":
		cfg.Include = value
	case "exclude":
		cfg.Exclude = value
	case "languages":
		cfg.Languages = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
