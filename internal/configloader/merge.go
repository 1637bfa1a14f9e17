package configloader

import "github.com/yaklabco/lifespan/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Nested sections are merged field by field
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Extractor != "" {
		result.Extractor = override.Extractor
	}
	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.TabSize != 0 {
		result.TabSize = override.TabSize
	}
	if override.MinLines != 0 {
		result.MinLines = override.MinLines
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	if override.SkipVendor != nil {
		skipVendor := *override.SkipVendor
		result.SkipVendor = &skipVendor
	}

	if override.Include != nil {
		result.Include = override.Include
	}
	if override.Exclude != nil {
		result.Exclude = override.Exclude
	}
	if override.Languages != nil {
		result.Languages = override.Languages
	}

	result.History = mergeHistory(base.History, override.History)
	result.Report = mergeReport(base.Report, override.Report)

	return &result
}

func mergeHistory(base, override config.HistoryConfig) config.HistoryConfig {
	result := base
	if override.From != "" {
		result.From = override.From
	}
	if override.To != "" {
		result.To = override.To
	}
	if override.MaxSteps != 0 {
		result.MaxSteps = override.MaxSteps
	}
	return result
}

// mergeReport merges report settings. Booleans can only be switched on,
// since false is indistinguishable from unset.
func mergeReport(base, override config.ReportConfig) config.ReportConfig {
	result := base
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.SortBy != "" {
		result.SortBy = override.SortBy
	}
	if override.MinChanges != 0 {
		result.MinChanges = override.MinChanges
	}
	if override.AliveOnly {
		result.AliveOnly = true
	}
	if override.ShowSteps {
		result.ShowSteps = true
	}
	if override.ShowLocations {
		result.ShowLocations = true
	}
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
