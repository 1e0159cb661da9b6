package headless

import (
	"errors"
	"sync"

	"github.com/mj1618/formfill/internal/model"
	"github.com/mj1618/formfill/internal/platform"
)

// Action kinds.
const (
	ActionSetText = "set_text"
	ActionPaste   = "paste"
	ActionOverlay = "overlay"
	ActionLaunch  = "launch_app"
	ActionNotify  = "notify"
)

// Action is one recorded platform call.
type Action struct {
	Kind    string           `yaml:"kind"              json:"kind"`
	ViewID  string           `yaml:"view_id,omitempty" json:"view_id,omitempty"`
	Text    string           `yaml:"text,omitempty"    json:"text,omitempty"`
	Bounds  *platform.Bounds `yaml:"bounds,omitempty"  json:"bounds,omitempty"`
	Visible *bool            `yaml:"visible,omitempty" json:"visible,omitempty"`
}

// Recorder implements every platform interface in memory.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
	clip    platform.ClipboardManager

	Width     int
	Height    int
	StatusBar int
}

// Default screen metrics of a Recorder.
const (
	DefaultWidth     = 1080
	DefaultHeight    = 1776
	DefaultStatusBar = 72
)

// New returns a Recorder with the default screen metrics.
func New() *Recorder {
	return &Recorder{
		clip:      &Clipboard{},
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		StatusBar: DefaultStatusBar,
	}
}

// Provider bundles the recorder into a platform.Provider. A nil clipboard
// keeps clipboard contents in memory.
func (r *Recorder) Provider(cb platform.ClipboardManager) *platform.Provider {
	if cb != nil {
		r.clip = cb
	}
	return &platform.Provider{
		NodeActor:        r,
		ClipboardManager: r.clip,
		OverlayPlacer:    r,
		AppLauncher:      r,
		Notifier:         r,
		Screen:           r,
	}
}

func (r *Recorder) record(a Action) {
	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()
}

// Actions returns everything recorded so far.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Drain returns and forgets everything recorded so far.
func (r *Recorder) Drain() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.actions
	r.actions = nil
	return out
}

var errNilNode = errors.New("no target node")

// SetText implements platform.NodeActor.
func (r *Recorder) SetText(node model.Node, text string) error {
	if node == nil {
		return errNilNode
	}
	r.record(Action{Kind: ActionSetText, ViewID: node.ViewID(), Text: text})
	return nil
}

// Paste implements platform.NodeActor. The pasted text is whatever the
// clipboard holds.
func (r *Recorder) Paste(node model.Node) error {
	if node == nil {
		return errNilNode
	}
	text, err := r.clip.GetText()
	if err != nil {
		return err
	}
	r.record(Action{Kind: ActionPaste, ViewID: node.ViewID(), Text: text})
	return nil
}

// PlaceOverlay implements platform.OverlayPlacer.
func (r *Recorder) PlaceOverlay(b platform.Bounds, visible bool) error {
	r.record(Action{Kind: ActionOverlay, Bounds: &b, Visible: &visible})
	return nil
}

// LaunchApp implements platform.AppLauncher.
func (r *Recorder) LaunchApp(packageName string) error {
	r.record(Action{Kind: ActionLaunch, Text: packageName})
	return nil
}

// Notify implements platform.Notifier.
func (r *Recorder) Notify(message string) error {
	r.record(Action{Kind: ActionNotify, Text: message})
	return nil
}

// ScreenSize implements platform.Screen.
func (r *Recorder) ScreenSize() (int, int, error) {
	return r.Width, r.Height, nil
}

// StatusBarHeight implements platform.Screen.
func (r *Recorder) StatusBarHeight() int {
	return r.StatusBar
}
