package engine

import (
	"context"

	"github.com/mj1618/formfill/internal/dialog"
	"github.com/mj1618/formfill/internal/resolver"
)

// HandleEvent resolves a host UI event. Matching events show the dialog.
func (e *Engine) HandleEvent(ev resolver.Event) {
	e.Post(func() {
		res := e.resolver.Resolve(ev)
		e.metrics.Event(res.String())
	})
}

// TouchDown starts a drag or tap on the collapsed dialog.
func (e *Engine) TouchDown(x, y float64) {
	e.Post(func() {
		e.refreshScreen()
		e.dialog.TouchDown(x, y)
	})
}

// TouchMove drags the dialog.
func (e *Engine) TouchMove(x, y float64) {
	e.Post(func() { e.dialog.TouchMove(x, y) })
}

// TouchUp ends a drag. A short tap expands the dialog.
func (e *Engine) TouchUp() {
	e.Post(e.dialog.TouchUp)
}

// SelectCandidate commits candidate i by setting the field text.
func (e *Engine) SelectCandidate(i int) {
	e.Post(func() { e.dialog.SelectCandidate(i) })
}

// SelectCandidateForPaste commits candidate i through the clipboard.
func (e *Engine) SelectCandidateForPaste(i int) {
	e.Post(func() { e.dialog.SelectCandidateForPaste(i) })
}

// RemoveCandidate forgets the remembered entry at i.
func (e *Engine) RemoveCandidate(i int) {
	e.Post(func() { e.dialog.RemoveRememberedCandidate(i) })
}

// SelectNextProfile advances the active profile.
func (e *Engine) SelectNextProfile() {
	e.Post(e.dialog.SelectNextProfile)
}

// SetFastMode switches fast mode on or off.
func (e *Engine) SetFastMode(enabled bool) {
	e.Post(func() { e.dialog.SetFastMode(enabled) })
}

// ToggleFastMode flips fast mode.
func (e *Engine) ToggleFastMode() {
	e.Post(e.dialog.ToggleFastMode)
}

// HideDialog closes the dialog.
func (e *Engine) HideDialog() {
	e.Post(e.dialog.Close)
}

// Minimize collapses the expanded dialog.
func (e *Engine) Minimize() {
	e.Post(e.dialog.Minimize)
}

// LaunchApp closes the dialog and opens the companion app.
func (e *Engine) LaunchApp() {
	e.Post(e.dialog.OpenApp)
}

// RequestNumberOfProfiles answers with a ReportNumberOfProfiles report.
func (e *Engine) RequestNumberOfProfiles() {
	e.Post(func() {
		e.send(Report{Kind: ReportNumberOfProfiles, Profiles: e.store.NumberOfProfiles()})
	})
}

// ResendPackages republishes the loaded package names.
func (e *Engine) ResendPackages() {
	e.Post(e.store.ResendConfigurationData)
}

// Status is a printable view of the engine.
type Status struct {
	Loaded      bool            `yaml:"loaded"                 json:"loaded"`
	Packages    []string        `yaml:"packages,omitempty"     json:"packages,omitempty"`
	Profiles    int             `yaml:"profiles"               json:"profiles"`
	Focused     string          `yaml:"focused,omitempty"      json:"focused,omitempty"`
	LastMessage string          `yaml:"last_message,omitempty" json:"last_message,omitempty"`
	Dialog      dialog.Snapshot `yaml:"dialog"                 json:"dialog"`
}

// Status returns the engine state once pending work has run.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	var st Status
	err := e.Call(ctx, func() {
		st = Status{
			Loaded:      e.finished.Load() && e.succeeded.Load(),
			Packages:    e.store.Packages(),
			Profiles:    e.store.NumberOfProfiles(),
			LastMessage: e.lastMessage,
			Dialog:      e.dialog.Snapshot(),
		}
		if e.focused != nil {
			st.Focused = e.focused.ViewID()
		}
	})
	return st, err
}
