// speclinks checks the cross-reference macros in the specification
// sources against the entities declared in the API registry.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KhronosGroup/OpenXR-CTS/pkg/driver"
	"github.com/KhronosGroup/OpenXR-CTS/pkg/report"
)

const version = "1.0.0"

var (
	flagConfig   string
	flagRegistry string
	flagFamily   string
	flagDocs     []string
	flagExclude  []string
	flagEnable   []string
	flagDisable  []string
	flagJobs     int
	flagJSON     string
	flagColor    string
)

var rootCmd = &cobra.Command{
	Use:   "speclinks [flags]",
	Short: "Validate spec cross-reference macros against the API registry",
	Long: `speclinks scans the specification sources for custom macros referencing
API entities (types, commands, enumerants, flags) and validates each
reference against the registry. Exit status is 0 iff no enabled
error-level finding was emitted.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var listCmd = &cobra.Command{
	Use:   "messages",
	Short: "List the available message kinds and their defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		family := flagFamily
		if family == "" {
			family = "openxr"
		}
		for _, id := range report.AvailableIDs(family) {
			state := "enabled"
			if !id.EnabledByDefault() {
				state = "disabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-8s %s by default\n",
				id, id.DefaultSeverity(), state)
		}
		return nil
	},
}

func run(cmd *cobra.Command, args []string) error {
	cfg := &driver.Config{}
	if flagConfig != "" {
		loaded, err := driver.LoadConfig(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if flagRegistry != "" {
		cfg.Registry = flagRegistry
	}
	if flagFamily != "" {
		cfg.Family = flagFamily
	}
	if len(flagDocs) > 0 {
		cfg.Documents = flagDocs
	}
	cfg.Exclude = append(cfg.Exclude, flagExclude...)
	cfg.Enable = append(cfg.Enable, flagEnable...)
	cfg.Disable = append(cfg.Disable, flagDisable...)
	if flagJobs > 0 {
		cfg.Jobs = flagJobs
	}
	if cfg.Registry == "" {
		return fmt.Errorf("no registry given (use --registry or a config file)")
	}
	if len(cfg.Documents) == 0 {
		return fmt.Errorf("no document patterns given (use --docs or a config file)")
	}

	switch flagColor {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}

	r, err := driver.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	// Text output to stderr; JSON to stdout or a file for tool interop.
	r.WriteText(os.Stderr)
	if flagJSON != "" {
		if err := writeJSON(r, flagJSON); err != nil {
			return err
		}
	}

	if !r.IsClean() {
		os.Exit(1)
	}
	return nil
}

func writeJSON(r *report.Report, path string) error {
	if path == "-" {
		return r.WriteJSON(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.WriteJSON(f)
}

func main() {
	rootCmd.Version = version
	rootCmd.AddCommand(listCmd)

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagRegistry, "registry", "", "API registry XML file")
	rootCmd.PersistentFlags().StringVar(&flagFamily, "family", "", "registry family (default openxr)")
	rootCmd.PersistentFlags().StringSliceVar(&flagDocs, "docs", nil, "document glob patterns")
	rootCmd.PersistentFlags().StringSliceVar(&flagExclude, "exclude", nil, "glob patterns to exclude")
	rootCmd.PersistentFlags().StringArrayVar(&flagEnable, "enable", nil, "message kinds to enable")
	rootCmd.PersistentFlags().StringArrayVar(&flagDisable, "disable", nil, "message kinds to disable")
	rootCmd.PersistentFlags().IntVar(&flagJobs, "jobs", 0, "concurrent document scans (default: one per CPU)")
	rootCmd.PersistentFlags().StringVar(&flagJSON, "json", "", "write JSON report to a file, or - for stdout")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(2)
	}
}
