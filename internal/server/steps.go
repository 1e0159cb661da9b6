package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mj1618/formfill/internal/config"
	"github.com/mj1618/formfill/internal/engine"
	"github.com/mj1618/formfill/internal/model"
	"github.com/mj1618/formfill/internal/platform"
	"github.com/mj1618/formfill/internal/platform/headless"
	"github.com/mj1618/formfill/internal/resolver"
	"gopkg.in/yaml.v3"
)

// StepResult is the output for a single step.
type StepResult struct {
	Step    int                 `yaml:"step,omitempty"    json:"step,omitempty"`
	OK      bool                `yaml:"ok"                json:"ok"`
	Action  string              `yaml:"action"            json:"action"`
	Error   string              `yaml:"error,omitempty"   json:"error,omitempty"`
	State   string              `yaml:"state,omitempty"   json:"state,omitempty"`
	Text    string              `yaml:"text,omitempty"    json:"text,omitempty"`
	Nodes   []model.FlatElement `yaml:"nodes,omitempty"   json:"nodes,omitempty"`
	Effects []headless.Action   `yaml:"effects,omitempty" json:"effects,omitempty"`
	Reports []engine.Report     `yaml:"reports,omitempty" json:"reports,omitempty"`
	Status  *engine.Status      `yaml:"status,omitempty"  json:"status,omitempty"`
}

// StepNames lists the supported step types.
const StepNames = "load, event, select, paste, remove, next-profile, fast-mode, close, minimize, open-app, " +
	"tap, drag, touch-down, touch-move, touch-up, resend-packages, profiles, status, sleep"

// ReportLog collects engine reports until they are drained.
type ReportLog struct {
	mu      sync.Mutex
	reports []engine.Report
}

// Record implements engine.ReportFunc.
func (l *ReportLog) Record(r engine.Report) {
	l.mu.Lock()
	l.reports = append(l.reports, r)
	l.mu.Unlock()
}

// Drain returns and forgets the collected reports.
func (l *ReportLog) Drain() []engine.Report {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.reports
	l.reports = nil
	return out
}

// Runner executes named steps against a running engine.
type Runner struct {
	Engine *engine.Engine
	// Recorder, when set, supplies the platform effects of each step.
	Recorder *headless.Recorder
	Reports  *ReportLog
	// Timeout bounds the wait for the engine to go idle after a step.
	Timeout time.Duration
}

// NewRunner returns a Runner for e. Platform effects are reported when p
// is backed by a headless recorder.
func NewRunner(e *engine.Engine, p *platform.Provider, reports *ReportLog) *Runner {
	r := &Runner{Engine: e, Reports: reports, Timeout: 10 * time.Second}
	if p != nil {
		if rec, ok := p.NodeActor.(*headless.Recorder); ok {
			r.Recorder = rec
		}
	}
	return r
}

// Execute runs one step and waits for the engine to settle.
func (r *Runner) Execute(ctx context.Context, action string, params map[string]any) (StepResult, error) {
	if params == nil {
		params = map[string]any{}
	}
	result := StepResult{Action: action}
	if err := r.dispatch(ctx, action, params, &result); err != nil {
		return result, err
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := r.Engine.WaitIdle(waitCtx); err != nil {
		return result, fmt.Errorf("waiting for %s: %w", action, err)
	}

	st, err := r.Engine.Status(waitCtx)
	if err != nil {
		return result, err
	}
	result.State = st.Dialog.State.String()
	if action == "status" {
		result.Status = &st
	}
	if action == "load" {
		result.Text = st.LastMessage
		if !st.Loaded {
			r.collect(&result)
			return result, fmt.Errorf("configuration not loaded: %s", st.LastMessage)
		}
	}
	r.collect(&result)
	return result, nil
}

func (r *Runner) collect(result *StepResult) {
	if r.Recorder != nil {
		result.Effects = r.Recorder.Drain()
	}
	result.Reports = r.Reports.Drain()
}

func (r *Runner) dispatch(ctx context.Context, action string, params map[string]any, result *StepResult) error {
	e := r.Engine
	switch action {
	case "load":
		return r.load(params)
	case "event":
		ev, err := eventFromParams(params)
		if err != nil {
			return err
		}
		if el, ok := ev.Source.(*model.Element); ok && len(el.Children) > 0 {
			result.Nodes = model.FlattenElements([]model.Element{*el})
		}
		e.HandleEvent(ev)
	case "select", "paste":
		idx, err := indexParam(params)
		if err != nil {
			return err
		}
		if action == "paste" || BoolParam(params, "paste", false) {
			e.SelectCandidateForPaste(idx)
		} else {
			e.SelectCandidate(idx)
		}
	case "remove":
		idx, err := indexParam(params)
		if err != nil {
			return err
		}
		e.RemoveCandidate(idx)
	case "next-profile":
		e.SelectNextProfile()
	case "fast-mode":
		if HasParam(params, "enabled") {
			e.SetFastMode(BoolParam(params, "enabled", false))
		} else {
			e.ToggleFastMode()
		}
	case "hide", "close":
		e.HideDialog()
	case "minimize":
		e.Minimize()
	case "open-app":
		e.LaunchApp()
	case "touch-down":
		e.TouchDown(FloatParam(params, "x", 0), FloatParam(params, "y", 0))
	case "touch-move":
		e.TouchMove(FloatParam(params, "x", 0), FloatParam(params, "y", 0))
	case "touch-up":
		e.TouchUp()
	case "tap":
		x, y := FloatParam(params, "x", 0), FloatParam(params, "y", 0)
		e.TouchDown(x, y)
		e.TouchUp()
	case "drag":
		e.TouchDown(FloatParam(params, "from-x", 0), FloatParam(params, "from-y", 0))
		e.TouchMove(FloatParam(params, "to-x", 0), FloatParam(params, "to-y", 0))
		e.TouchUp()
	case "resend-packages":
		e.ResendPackages()
	case "profiles":
		e.RequestNumberOfProfiles()
	case "status":
	case "sleep":
		ms := IntParam(params, "ms", 0)
		if ms <= 0 {
			return fmt.Errorf("ms must be > 0")
		}
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
		result.Text = fmt.Sprintf("%dms", ms)
	default:
		return fmt.Errorf("unknown step type %q (supported: %s)", action, StepNames)
	}
	return nil
}

func (r *Runner) load(params map[string]any) error {
	path := StringParam(params, "path", "")
	if path == "" {
		return fmt.Errorf("path is required")
	}
	kind, err := config.ParseSourceKind(StringParam(params, "kind", ""))
	if err != nil {
		return err
	}
	r.Engine.LoadConfiguration(config.Source{Kind: kind, Path: path}, BoolParam(params, "show-success", true))
	return nil
}

func indexParam(params map[string]any) (int, error) {
	if !HasParam(params, "index") {
		return 0, fmt.Errorf("index is required")
	}
	return IntParam(params, "index", 0), nil
}

// eventFromParams builds a UI event. The source node is either a single
// element whose view id is given directly or built from package and field,
// or a node tree. For a tree the focused element is the source, falling
// back to a root holding the whole tree.
func eventFromParams(params map[string]any) (resolver.Event, error) {
	pkg := StringParam(params, "package", "")
	kind, err := resolver.ParseKind(StringParam(params, "kind", "click"))
	if err != nil {
		return resolver.Event{}, err
	}

	if raw, ok := params["tree"]; ok {
		tree, err := decodeTree(raw)
		if err != nil {
			return resolver.Event{}, err
		}
		src := model.FindFocused(tree)
		if src == nil {
			src = &model.Element{Children: tree}
		}
		return resolver.Event{PackageName: pkg, Kind: kind, Source: src}, nil
	}

	viewID := StringParam(params, "view-id", "")
	if field := StringParam(params, "field", ""); viewID == "" && field != "" {
		viewID = resolver.ViewID(pkg, field)
	}
	if viewID == "" {
		return resolver.Event{}, fmt.Errorf("view-id, field or tree is required")
	}

	el := &model.Element{
		ResourceID: viewID,
		Text:       StringParam(params, "text", ""),
		Focused:    true,
	}
	if bbox := StringParam(params, "bbox", ""); bbox != "" {
		b, err := platform.ParseBBox(bbox)
		if err != nil {
			return resolver.Event{}, err
		}
		el.Bounds = b.Array()
	}
	return resolver.Event{PackageName: pkg, Kind: kind, Source: el}, nil
}

// decodeTree converts a decoded YAML or JSON value into elements.
func decodeTree(raw any) ([]model.Element, error) {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	var tree []model.Element
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	if len(tree) == 0 {
		return nil, fmt.Errorf("invalid tree: no elements")
	}
	return tree, nil
}
