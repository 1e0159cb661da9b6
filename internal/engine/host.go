package engine

import (
	"github.com/mj1618/formfill/internal/dialog"
	"github.com/mj1618/formfill/internal/model"
	"github.com/mj1618/formfill/internal/platform"
	"github.com/mj1618/formfill/internal/prefs"
	"github.com/mj1618/formfill/internal/resolver"
)

// OnDataAvailable implements resolver.Listener.
func (e *Engine) OnDataAvailable(node model.Node, kind resolver.Kind, items []*model.Item) {
	e.focused = node
	e.dialog.Show(kind, items)
}

// OnDataNotAvailable implements resolver.Listener.
func (e *Engine) OnDataNotAvailable(node model.Node) {
	e.logger.Debug().Str("view_id", node.ViewID()).Msg("No configuration for node")
}

// OnPropertyChanged implements dialog.Observer. It keeps the overlay
// window in step with the dialog.
func (e *Engine) OnPropertyChanged(p dialog.Property) {
	switch p {
	case dialog.DialogInitialPosition:
		if e.dialog.IsExpanded() || e.focused == nil {
			return
		}
		b := platform.BoundsOf(e.focused.ScreenBounds())
		e.dialog.SetDialogPosition(b.Right()-e.opts.OverlayOffset, b.Y)
	case dialog.DialogPosition, dialog.DialogVisibility, dialog.DialogExpanded:
		e.placeOverlay()
	}
}

func (e *Engine) placeOverlay() {
	if e.platform == nil || e.platform.OverlayPlacer == nil {
		return
	}
	pos := e.dialog.Position()
	size := e.dialog.CurrentSize()
	b := platform.Bounds{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
	if err := e.platform.OverlayPlacer.PlaceOverlay(b, e.dialog.Visible()); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to place overlay")
	}
}

// SetText implements dialog.Actions.
func (e *Engine) SetText(text string) {
	if e.platform == nil || e.focused == nil {
		return
	}
	if err := e.platform.InjectText(e.focused, text); err != nil {
		e.logger.Warn().Err(err).Str("view_id", e.focused.ViewID()).Msg("Failed to set text")
		return
	}
	e.metrics.Commit("set_text")
}

// PasteText implements dialog.Actions.
func (e *Engine) PasteText(text string) {
	if e.platform == nil || e.focused == nil {
		return
	}
	if err := e.platform.PasteText(e.focused, text); err != nil {
		e.logger.Warn().Err(err).Str("view_id", e.focused.ViewID()).Msg("Failed to paste text")
		return
	}
	e.metrics.Commit("paste")
}

// OpenApp implements dialog.Actions.
func (e *Engine) OpenApp() {
	if e.platform == nil || e.platform.AppLauncher == nil {
		return
	}
	if err := e.platform.AppLauncher.LaunchApp(e.opts.SelfPackage); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to open app")
	}
}

// SaveFastModeState implements dialog.Actions.
func (e *Engine) SaveFastModeState(enabled bool) {
	err := prefs.Update(e.prefs, func(p *prefs.Prefs) { p.FastMode = enabled })
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to save fast mode")
	}
}

var (
	_ resolver.Listener = (*Engine)(nil)
	_ dialog.Observer   = (*Engine)(nil)
	_ dialog.Actions    = (*Engine)(nil)
)
