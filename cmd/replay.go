package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mj1618/formfill/internal/config"
	"github.com/mj1618/formfill/internal/engine"
	"github.com/mj1618/formfill/internal/output"
	"github.com/mj1618/formfill/internal/platform/headless"
	"github.com/mj1618/formfill/internal/prefs"
	"github.com/mj1618/formfill/internal/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ReplayResult is the output of a replay run.
type ReplayResult struct {
	OK        bool                `yaml:"ok"               json:"ok"`
	Action    string              `yaml:"action"           json:"action"`
	Steps     int                 `yaml:"steps"            json:"steps"`
	Completed int                 `yaml:"completed"        json:"completed"`
	Error     string              `yaml:"error,omitempty"  json:"error,omitempty"`
	Results   []server.StepResult `yaml:"results"          json:"results"`
	Status    *engine.Status      `yaml:"status,omitempty" json:"status,omitempty"`
}

var replayCmd = &cobra.Command{
	Use:   "replay [steps.yaml]",
	Short: "Run a scripted session against a recording platform",
	Long: `Run a sequence of steps from a YAML list (a file or stdin) against an
engine whose platform only records what it is asked to do. Every step
reports the dialog state and the recorded platform effects.

Each step is a step name with its parameters as a map. Steps execute
sequentially, and by default execution stops on the first error.

Supported steps: ` + server.StepNames + `

Example:
  formfill replay --config ./config.xml <<'EOF'
  - event: { package: com.example.shop, field: first_name, kind: long-click, bbox: "40,300,600,80" }
  - select: { index: 1 }
  - next-profile: {}
  - paste: { index: 0 }
  - status: {}
  EOF`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().String("config", "", "Configuration loaded before the first step")
	replayCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error (default: true)")
	replayCmd.Flags().Bool("fast", false, "Start in fast mode")
	addSourceFlags(replayCmd)
	addEngineFlags(replayCmd)
}

// replayOptions configure a replay run.
type replayOptions struct {
	Config      *config.Source
	StopOnError bool
	FastMode    bool
	LegacyInput bool
	Engine      engine.Options
}

func runReplay(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read steps: %w", err)
	}
	steps, err := parseSteps(data)
	if err != nil {
		return err
	}

	opts := replayOptions{Engine: getEngineOptions(cmd)}
	opts.StopOnError, _ = cmd.Flags().GetBool("stop-on-error")
	opts.FastMode, _ = cmd.Flags().GetBool("fast")
	opts.LegacyInput, _ = cmd.Flags().GetBool("legacy-input")
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		src, err := getSource(cmd, path)
		if err != nil {
			return err
		}
		opts.Config = &src
	}

	result := replay(cmd.Context(), steps, opts, log.Logger)
	if err := output.Print(result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("replay failed: %s", result.Error)
	}
	return nil
}

func parseSteps(data []byte) ([]map[string]map[string]any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no steps provided: pipe a YAML list of steps")
	}
	var steps []map[string]map[string]any
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps provided: expected a YAML list of steps")
	}
	return steps, nil
}

// replay runs steps on a fresh engine with a recording platform and
// in-memory preferences.
func replay(ctx context.Context, steps []map[string]map[string]any, opts replayOptions, logger zerolog.Logger) ReplayResult {
	rec := headless.New()
	p := rec.Provider(&headless.Clipboard{})
	p.LegacyInput = opts.LegacyInput

	st := &prefs.MemoryStore{}
	if opts.FastMode {
		_ = st.Save(prefs.Prefs{FastMode: true})
	}

	reports := &server.ReportLog{}
	e := engine.New(p, st, opts.Engine, logger)
	e.SetReportFunc(reports.Record)
	stop := startEngine(ctx, e)
	defer stop()

	runner := server.NewRunner(e, p, reports)
	res := ReplayResult{Action: "replay", Steps: len(steps)}

	if opts.Config != nil {
		params := map[string]any{"path": opts.Config.Path, "kind": string(opts.Config.Kind), "show-success": false}
		if _, err := runner.Execute(ctx, "load", params); err != nil {
			res.Error = fmt.Sprintf("config: %s", err)
			return res
		}
	}

	hasFailure := false
	for i, step := range steps {
		stepNum := i + 1

		if len(step) != 1 {
			errMsg := fmt.Sprintf("step %d: expected exactly one step key, got %d", stepNum, len(step))
			res.Results = append(res.Results, server.StepResult{Step: stepNum, Error: errMsg})
			hasFailure = true
			if opts.StopOnError {
				res.Error = errMsg
				break
			}
			continue
		}

		var stopped bool
		for action, params := range step {
			result, err := runner.Execute(ctx, action, params)
			result.Step = stepNum
			if err != nil {
				result.OK = false
				result.Error = err.Error()
				hasFailure = true
				if opts.StopOnError {
					res.Error = fmt.Sprintf("step %d: %s", stepNum, err)
					stopped = true
				}
			} else {
				result.OK = true
				res.Completed++
			}
			res.Results = append(res.Results, result)
		}
		if stopped {
			break
		}
	}

	if st, err := e.Status(ctx); err == nil {
		res.Status = &st
	}
	res.OK = !hasFailure
	return res
}
