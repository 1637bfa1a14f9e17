package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/lifespan/internal/configloader"
	"github.com/yaklabco/lifespan/internal/ui/pretty"
)

func newConfigCommand(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect lifespan configuration",
		Long: `Inspect how lifespan resolves its configuration.

Configuration is merged from, in increasing precedence: built-in defaults,
the system config, the user config, the nearest .lifespan.yml, the file
given with --config, LIFESPAN_* environment variables, and command flags.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, global)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "paths",
		Short: "List the configuration files that were discovered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigPaths(cmd, global)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "List supported environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeEnvVars(cmd.OutOrStdout(), pretty.NewStyles(pretty.IsColorEnabled(global.color, cmd.OutOrStdout())))
		},
	})

	return cmd
}

func runConfigShow(cmd *cobra.Command, global *globalFlags) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loaded, err := loadConfig(cmd.Context(), global, workDir, nil)
	if err != nil {
		return err
	}

	data, err := loaded.Config.ToYAML()
	if err != nil {
		return err
	}

	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func runConfigPaths(cmd *cobra.Command, global *globalFlags) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	paths, err := configloader.DiscoverPaths(cmd.Context(), workDir)
	if err != nil {
		return err
	}
	paths.Explicit = global.configPath

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, out))

	for _, row := range []struct{ label, path string }{
		{"system", paths.System},
		{"user", paths.User},
		{"project", paths.Project},
		{"explicit", paths.Explicit},
	} {
		value := styles.Dim.Render("(none)")
		if row.path != "" {
			value = styles.FilePath.Render(row.path)
		}
		if _, err := fmt.Fprintf(out, "%-9s %s\n", row.label+":", value); err != nil {
			return fmt.Errorf("write paths: %w", err)
		}
	}
	return nil
}

func writeEnvVars(out io.Writer, styles *pretty.Styles) error {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	slices.Sort(names)

	for _, name := range names {
		padding := strings.Repeat(" ", width-len(name))
		if _, err := fmt.Fprintf(out, "%s%s  %s\n", styles.Bold.Render(name), padding, vars[name]); err != nil {
			return fmt.Errorf("write env vars: %w", err)
		}
	}
	return nil
}
