package cmd

import (
	"github.com/mj1618/formfill/internal/output"
	"github.com/mj1618/formfill/internal/server"
	"github.com/mj1618/formfill/internal/variables"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var varsCmd = &cobra.Command{
	Use:   "vars [key...]",
	Short: "List or resolve variable keys",
	Long: `Resolve variable keys the way configuration values are resolved. Without
arguments every known key is listed with a sample value.

Examples:
  formfill vars
  formfill vars device_model random_email`,
	RunE: runVars,
}

func init() {
	rootCmd.AddCommand(varsCmd)
	varsCmd.Flags().Uint64("seed", 0, "Seed for random values (0 = random)")
}

func runVars(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetUint64("seed")
	p := variables.New(variables.Options{Seed: seed}, log.Logger)

	keys := args
	if len(keys) == 0 {
		keys = p.Keys()
	}
	values := make([]server.VariableValue, 0, len(keys))
	for _, k := range keys {
		v, ok := p.Value(k)
		values = append(values, server.VariableValue{Key: k, Value: v, Found: ok})
	}
	return output.Print(values)
}
