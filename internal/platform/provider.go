package platform

import (
	"fmt"
	"runtime"

	"github.com/mj1618/formfill/internal/model"
)

// Provider bundles all platform backends for the current host.
type Provider struct {
	NodeActor        NodeActor
	ClipboardManager ClipboardManager
	OverlayPlacer    OverlayPlacer
	AppLauncher      AppLauncher
	Notifier         Notifier
	Screen           Screen

	// LegacyInput makes text injection go through the clipboard and the
	// paste action, for hosts that cannot set node text directly.
	LegacyInput bool
}

// ErrUnsupported is returned when no backend registered itself.
var ErrUnsupported = fmt.Errorf("formfill has no platform backend for %s/%s", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by backend packages via init().
// See internal/platform/headless/init.go for the headless registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns the registered Provider.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}

// InjectText writes text into node. With LegacyInput, or when the node
// rejects direct text, the text is copied to the clipboard and pasted.
func (p *Provider) InjectText(node model.Node, text string) error {
	if !p.LegacyInput {
		err := p.NodeActor.SetText(node, text)
		if err == nil || p.ClipboardManager == nil {
			return err
		}
	}
	return p.PasteText(node, text)
}

// PasteText copies text to the clipboard and pastes it into node.
func (p *Provider) PasteText(node model.Node, text string) error {
	if p.ClipboardManager == nil {
		return fmt.Errorf("paste into %s: no clipboard", node.ViewID())
	}
	if err := p.ClipboardManager.SetText(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	if err := p.NodeActor.Paste(node); err != nil {
		return fmt.Errorf("paste into %s: %w", node.ViewID(), err)
	}
	return nil
}
