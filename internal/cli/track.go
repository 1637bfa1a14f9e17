package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/lifespan/internal/configloader"
	"github.com/yaklabco/lifespan/internal/logging"
	"github.com/yaklabco/lifespan/pkg/analysis"
	"github.com/yaklabco/lifespan/pkg/config"
	"github.com/yaklabco/lifespan/pkg/extract"
	"github.com/yaklabco/lifespan/pkg/extract/blocks"
	"github.com/yaklabco/lifespan/pkg/extract/markdown"
	"github.com/yaklabco/lifespan/pkg/fsutil"
	"github.com/yaklabco/lifespan/pkg/reporter"
	"github.com/yaklabco/lifespan/pkg/runner"
	"github.com/yaklabco/lifespan/pkg/vcs"
	"github.com/yaklabco/lifespan/pkg/vcs/gitvcs"
)

type trackFlags struct {
	from       string
	to         string
	maxSteps   int
	extractor  string
	flavor     string
	tabSize    int
	minLines   int
	include    []string
	exclude    []string
	languages  []string
	skipVendor bool
	jobs       int
	format     string
	sortBy     string
	ascending  bool
	minChanges int
	aliveOnly  bool
	steps      bool
	locations  bool
	compact    bool
	strict     bool
	output     string
}

const trackLongDescription = `Walk the history of a git repository and report entity lifespans.

The repository is opened at PATH (default: current directory). Revisions are
visited oldest first along the first-parent chain between --from and --to.

Examples:
  lifespan track                          # Track Markdown sections in this repo
  lifespan track ../docs --to main        # Track another repository up to main
  lifespan track --extractor blocks       # Track blank-line separated blocks
  lifespan track --format table --alive-only
  lifespan track --format json -o lifespans.json
  lifespan track --strict                 # Fail on inconsistent links`

func newTrackCommand(global *globalFlags) *cobra.Command {
	flags := &trackFlags{}

	cmd := &cobra.Command{
		Use:   "track [path]",
		Short: "Track entity lifespans across the history of a repository",
		Long:  trackLongDescription,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd, args, global, flags)
		},
	}

	addTrackFlags(cmd, flags)

	return cmd
}

func addTrackFlags(cmd *cobra.Command, flags *trackFlags) {
	cmd.Flags().StringVar(&flags.from, "from", "", "oldest revision to visit (default: root commit)")
	cmd.Flags().StringVar(&flags.to, "to", "", "newest revision to visit (default: HEAD)")
	cmd.Flags().IntVar(&flags.maxSteps, "max-steps", 0, "stop after this many revisions (0 = unlimited)")
	cmd.Flags().StringVar(&flags.extractor, "extractor", config.ExtractorMarkdown, "entity extractor: markdown, blocks")
	cmd.Flags().StringVar(&flags.flavor, "flavor", string(config.FlavorCommonMark), "Markdown flavor: commonmark, gfm")
	cmd.Flags().IntVar(&flags.tabSize, "tab-size", config.DefaultTabSize, "tab width for column computation")
	cmd.Flags().IntVar(&flags.minLines, "min-lines", 1, "smallest block reported by the blocks extractor")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns of files to track")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns of files to ignore")
	cmd.Flags().StringSliceVar(&flags.languages, "languages", nil, "languages to track (e.g. Markdown,Go)")
	cmd.Flags().BoolVar(&flags.skipVendor, "skip-vendor", true, "skip vendored, generated and binary files")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel extraction workers (0 = auto)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, yaml, summary")
	cmd.Flags().StringVar(&flags.sortBy, "sort", "changes", "sort order: changes, age, alpha, created")
	cmd.Flags().BoolVar(&flags.ascending, "asc", false, "sort ascending instead of descending")
	cmd.Flags().IntVar(&flags.minChanges, "min-changes", 0, "hide lifespans with fewer changes")
	cmd.Flags().BoolVar(&flags.aliveOnly, "alive-only", false, "hide lifespans that ended before the last revision")
	cmd.Flags().BoolVar(&flags.steps, "steps", false, "include per-revision summaries")
	cmd.Flags().BoolVar(&flags.locations, "locations", false, "list every location in text output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero when links to untracked entities are found")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
}

// cliConfig converts explicitly set flags into a config layer.
func cliConfig(cmd *cobra.Command, global *globalFlags, flags *trackFlags) *config.Config {
	changed := cmd.Flags().Changed
	cfg := &config.Config{
		Include:   flags.include,
		Exclude:   flags.exclude,
		Languages: flags.languages,
		Jobs:      flags.jobs,
		History: config.HistoryConfig{
			From:     flags.from,
			To:       flags.to,
			MaxSteps: flags.maxSteps,
		},
		Report: config.ReportConfig{
			MinChanges:    flags.minChanges,
			AliveOnly:     flags.aliveOnly,
			ShowSteps:     flags.steps,
			ShowLocations: flags.locations,
		},
	}

	if changed("extractor") {
		cfg.Extractor = flags.extractor
	}
	if changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if changed("tab-size") {
		cfg.TabSize = flags.tabSize
	}
	if changed("min-lines") {
		cfg.MinLines = flags.minLines
	}
	if changed("skip-vendor") {
		skipVendor := flags.skipVendor
		cfg.SkipVendor = &skipVendor
	}
	if changed("format") {
		cfg.Report.Format = config.OutputFormat(flags.format)
	}
	if changed("sort") {
		cfg.Report.SortBy = flags.sortBy
	}
	if changed("color") {
		cfg.Color = global.color
	}

	return cfg
}

func runTrack(cmd *cobra.Command, args []string, global *globalFlags, flags *trackFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	loaded, err := loadConfig(ctx, global, absPath, cliConfig(cmd, global, flags))
	if err != nil {
		return err
	}
	cfg := loaded.Config

	repo, err := gitvcs.Open(absPath, gitvcs.Options{From: cfg.History.From, To: cfg.History.To})
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(cfg.Report.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	var buf bytes.Buffer
	reportOpts := reporter.Options{
		Writer:        cmd.OutOrStdout(),
		Format:        format,
		Color:         cfg.Color,
		ShowSummary:   true,
		ShowLocations: cfg.Report.ShowLocations,
		Compact:       flags.compact,
	}
	if flags.output != "" {
		reportOpts.Writer = &buf
		reportOpts.Color = "never"
	}

	renderer, err := reporter.New(reportOpts)
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	analysisOpts := analysis.Options{
		IncludeLifespans: true,
		IncludeByFile:    true,
		IncludeSteps:     cfg.Report.ShowSteps,
		SortBy:           analysis.SortField(cfg.Report.SortBy),
		SortDesc:         !flags.ascending,
		MinChanges:       cfg.Report.MinChanges,
		AliveOnly:        cfg.Report.AliveOnly,
	}

	runOpts := runnerOptions(ctx, cfg)

	logger.Debug("starting tracking run",
		logging.FieldRepository, absPath,
		logging.FieldFrom, cfg.History.From,
		logging.FieldTo, cfg.History.To,
		logging.FieldJobs, cfg.Jobs,
		"extractor", cfg.Extractor,
	)

	var inconsistencies int
	switch cfg.Extractor {
	case config.ExtractorBlocks:
		extractor := blocks.New(blocks.WithMinLines(cfg.MinLines), blocks.WithTabSize(cfg.TabSize))
		inconsistencies, err = trackWith[blocks.Block](ctx, repo, extractor, runOpts, renderer, analysisOpts)
	default:
		extractor := markdown.New(markdown.WithFlavor(string(cfg.Flavor)), markdown.WithTabSize(cfg.TabSize))
		inconsistencies, err = trackWith[markdown.Section](ctx, repo, extractor, runOpts, renderer, analysisOpts)
	}
	if err != nil {
		return err
	}

	if flags.output != "" {
		if err := fsutil.WriteAtomic(ctx, flags.output, buf.Bytes(), 0); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", logging.FieldOutput, flags.output)
	}

	if flags.strict && inconsistencies > 0 {
		return ErrInconsistenciesFound
	}
	return nil
}

// trackWith runs one extractor over repo and renders the result. It returns
// the number of inconsistent links the tracker saw.
func trackWith[T any](
	ctx context.Context,
	repo vcs.Repository,
	extractor extract.Extractor[T],
	runOpts runner.Options,
	renderer reporter.Renderer,
	opts analysis.Options,
) (int, error) {
	result, err := runner.New(repo, extractor).Run(ctx, runOpts)
	if err != nil {
		return 0, fmt.Errorf("track: %w", err)
	}

	if _, err := reporter.Report(ctx, renderer, result, opts); err != nil {
		return 0, fmt.Errorf("report results: %w", err)
	}

	return result.Stats.Tracking.Inconsistencies, nil
}

func runnerOptions(ctx context.Context, cfg *config.Config) runner.Options {
	logger := logging.FromContext(ctx)

	return runner.Options{
		IncludeGlobs: cfg.Include,
		ExcludeGlobs: append(runner.DefaultExcludeGlobs(), cfg.Exclude...),
		SkipVendor:   cfg.SkipsVendor(),
		Languages:    cfg.Languages,
		MaxSteps:     cfg.History.MaxSteps,
		Jobs:         cfg.Jobs,
		OnStep: func(step runner.Step) error {
			logger.Debug("revision tracked",
				logging.FieldOrdinal, step.Ordinal,
				logging.FieldRevision, step.Revision,
				logging.FieldFiles, step.FilesScanned,
				logging.FieldBySignature, step.Links.BySignature,
				logging.FieldByRange, step.Links.ByRange,
			)
			return nil
		},
	}
}

// loadConfig resolves configuration for workDir and logs loader warnings.
func loadConfig(
	ctx context.Context,
	global *globalFlags,
	workDir string,
	cliCfg *config.Config,
) (*configloader.LoadResult, error) {
	logger := logging.FromContext(ctx)

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: global.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, result.LoadedFrom)
	}

	return result, nil
}
