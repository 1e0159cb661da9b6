package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/formfill/internal/output"
	"github.com/mj1618/formfill/internal/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formfill",
	Short: "Fill form fields of other apps from XML configuration profiles",
	Long: `formfill offers candidate values for the form fields of other apps.
Candidates come from an XML configuration grouped by field id and profile,
with variables such as device details or random names substituted on use.`,
	SilenceUsage: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides FORMFILL_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("prefs", "", "Preferences file (default $XDG_CONFIG_HOME/formfill/prefs.yaml)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f

		pretty, _ := rootCmd.PersistentFlags().GetBool("pretty")
		output.PrettyOutput = pretty

		if lvl, _ := rootCmd.PersistentFlags().GetString("log-level"); lvl != "" {
			level, err := zerolog.ParseLevel(lvl)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", lvl, err)
			}
			zerolog.SetGlobalLevel(level)
		}
		return nil
	}
}
