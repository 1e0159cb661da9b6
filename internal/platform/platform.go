package platform

import "github.com/mj1618/formfill/internal/model"

// NodeActor writes into UI nodes of the host app.
type NodeActor interface {
	// SetText replaces the text of an editable node.
	SetText(node model.Node, text string) error
	// Paste triggers the paste action on a node.
	Paste(node model.Node) error
}

// ClipboardManager reads and writes the system clipboard.
type ClipboardManager interface {
	GetText() (string, error)
	SetText(text string) error
	Clear() error
}

// OverlayPlacer positions the floating dialog window.
type OverlayPlacer interface {
	// PlaceOverlay moves and resizes the overlay. A hidden overlay keeps
	// its bounds.
	PlaceOverlay(b Bounds, visible bool) error
}

// AppLauncher starts apps by package name.
type AppLauncher interface {
	LaunchApp(packageName string) error
}

// Notifier shows short user-facing messages.
type Notifier interface {
	Notify(message string) error
}

// Screen describes the display the overlay lives on.
type Screen interface {
	// ScreenSize returns the full display size in pixels.
	ScreenSize() (width, height int, err error)
	// StatusBarHeight returns the height reserved by the system status bar.
	StatusBarHeight() int
}
