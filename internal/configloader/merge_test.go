package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/lifespan/pkg/config"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	off := false
	base := config.NewConfig()
	base.Include = []string{"docs/**"}

	override := &config.Config{
		Flavor:     config.FlavorGFM,
		SkipVendor: &off,
		Exclude:    []string{},
		History:    config.HistoryConfig{From: "v1"},
		Report:     config.ReportConfig{MinChanges: 2, ShowSteps: true},
	}

	got := merge(base, override)

	assert.Equal(t, config.FlavorGFM, got.Flavor)
	assert.Equal(t, config.ExtractorMarkdown, got.Extractor)
	assert.False(t, got.SkipsVendor())
	assert.True(t, base.SkipsVendor(), "base is not mutated")
	assert.Equal(t, []string{"docs/**"}, got.Include)
	assert.NotNil(t, got.Exclude)
	assert.Equal(t, "v1", got.History.From)
	assert.Equal(t, 2, got.Report.MinChanges)
	assert.True(t, got.Report.ShowSteps)
	assert.Equal(t, config.FormatText, got.Report.Format)
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, MergeAll())

	got := MergeAll(
		config.NewConfig(),
		&config.Config{TabSize: 2},
		nil,
		&config.Config{TabSize: 8, Languages: []string{"Go"}},
	)
	assert.Equal(t, 8, got.TabSize)
	assert.Equal(t, []string{"Go"}, got.Languages)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.True(t, Validate(nil).Valid())
	assert.True(t, Validate(config.NewConfig()).Valid())

	cfg := config.NewConfig()
	cfg.Color = "sometimes"
	cfg.Report.Format = "sarif"
	cfg.Include = []string{"ok/**", "bad/[x"}

	result := ValidateWithFile(cfg, ".lifespan.yml")
	assert.False(t, result.Valid())
	assert.Len(t, result.Errors, 3)
	assert.Equal(t, "include[1]", result.Errors[2].Field)
	assert.Contains(t, result.Errors[0].Error(), ".lifespan.yml: color:")
	assert.Len(t, result.AllMessages(), 3)
}
