package cmd

import (
	"github.com/mj1618/formfill/internal/config"
	"github.com/mj1618/formfill/internal/output"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Parse a configuration file and print its fields",
	Long: `Parse an XML configuration and print the package list, the profiles and
the candidates of every field id.

Examples:
  formfill load ./config.xml
  formfill load sample_app_config.xml --source assets
  formfill load https://example.com/config.xml --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	addSourceFlags(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	src, err := getSource(cmd, args[0])
	if err != nil {
		return err
	}
	store := config.NewStore(config.NewXMLReader(getOpener(cmd), log.Logger))
	if err := store.Load(cmd.Context(), src); err != nil {
		return err
	}
	return output.Print(store.Summary())
}
