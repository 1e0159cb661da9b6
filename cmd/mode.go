package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/formfill/internal/output"
	"github.com/mj1618/formfill/internal/prefs"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode [fast|normal]",
	Short: "Show or set the fill mode",
	Long: `In fast mode the first candidate is filled in as soon as a field is
clicked. In normal mode candidates are only filled on a long click or when
picked from the dialog. Without an argument the current mode is printed.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"fast", "normal"},
	RunE:      runMode,
}

func init() {
	rootCmd.AddCommand(modeCmd)
}

func modeName(fast bool) string {
	if fast {
		return "fast"
	}
	return "normal"
}

func runMode(cmd *cobra.Command, args []string) error {
	store, err := openPrefs()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		p, err := store.Load()
		if err != nil {
			return err
		}
		return output.Print(output.Result{OK: true, Action: "mode", TS: time.Now().Unix(), Message: modeName(p.FastMode)})
	}

	var fast bool
	switch args[0] {
	case "fast":
		fast = true
	case "normal":
	default:
		return fmt.Errorf("unknown mode %q (expected fast or normal)", args[0])
	}
	if err := prefs.Update(store, func(p *prefs.Prefs) { p.FastMode = fast }); err != nil {
		return err
	}
	return output.Print(output.Result{OK: true, Action: "mode", TS: time.Now().Unix(), Message: modeName(fast)})
}
