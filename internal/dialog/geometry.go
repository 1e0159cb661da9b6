package dialog

import "time"

// MaxClickDuration is the longest press that still counts as a tap.
const MaxClickDuration = 200 * time.Millisecond

// Size is a width and height in pixels.
type Size struct {
	Width  int `yaml:"width"  json:"width"  validate:"gte=0"`
	Height int `yaml:"height" json:"height" validate:"gte=0"`
}

// Point is a screen position in pixels.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

type geometry struct {
	screen          Size
	statusBarHeight int
	normal          Size
	expanded        Size

	position Point

	touchStartPosition Point
	touchX, touchY     float64
	touchTime          time.Time
}

// SetStatusBarHeight sets the height subtracted from the screen height.
// Call it before SetScreenDimensions.
func (m *Model) SetStatusBarHeight(h int) {
	m.geo.statusBarHeight = h
}

// SetScreenDimensions sets the usable screen area.
func (m *Model) SetScreenDimensions(width, height int) {
	m.geo.screen = Size{Width: width, Height: height - m.geo.statusBarHeight}
}

// SetNormalDialogDimensions sets the collapsed dialog size.
func (m *Model) SetNormalDialogDimensions(width, height int) {
	m.geo.normal = Size{Width: width, Height: height}
}

// SetExpandedDialogDimensions sets the expanded dialog size.
func (m *Model) SetExpandedDialogDimensions(width, height int) {
	m.geo.expanded = Size{Width: width, Height: height}
}

// NormalSize returns the collapsed dialog size.
func (m *Model) NormalSize() Size { return m.geo.normal }

// ExpandedSize returns the expanded dialog size.
func (m *Model) ExpandedSize() Size { return m.geo.expanded }

// ScreenSize returns the usable screen area.
func (m *Model) ScreenSize() Size { return m.geo.screen }

// CurrentSize returns the dialog size for the current state.
func (m *Model) CurrentSize() Size {
	if m.expanded {
		return m.geo.expanded
	}
	return m.geo.normal
}

// Position returns the dialog's top-left corner.
func (m *Model) Position() Point {
	return m.geo.position
}

// SetDialogPosition moves the dialog.
func (m *Model) SetDialogPosition(x, y int) {
	m.geo.position = Point{X: x, Y: y}
	m.notify(DialogPosition)
}

// TouchDown records the start of a drag or tap on the dialog.
func (m *Model) TouchDown(x, y float64) {
	m.geo.touchStartPosition = m.geo.position
	m.geo.touchX, m.geo.touchY = x, y
	m.geo.touchTime = m.now()
	m.notify(DialogPosition)
}

// TouchMove drags the dialog, keeping it inside the screen.
func (m *Model) TouchMove(x, y float64) {
	size := m.CurrentSize()
	nx := m.geo.touchStartPosition.X + int(x-m.geo.touchX)
	ny := m.geo.touchStartPosition.Y + int(y-m.geo.touchY)
	nx = clamp(nx, m.geo.screen.Width-size.Width)
	ny = clamp(ny, m.geo.screen.Height-size.Height)
	m.SetDialogPosition(nx, ny)
}

// TouchUp ends a touch. A tap on the collapsed dialog expands it and
// pulls it back inside the screen.
func (m *Model) TouchUp() {
	if m.now().Sub(m.geo.touchTime) >= MaxClickDuration || m.expanded {
		return
	}
	m.setExpanded(true)
	if maxX := m.geo.screen.Width - m.geo.expanded.Width; m.geo.position.X > maxX {
		m.geo.position.X = maxX
	}
	if maxY := m.geo.screen.Height - m.geo.expanded.Height; m.geo.position.Y > maxY {
		m.geo.position.Y = maxY
	}
	m.notify(DialogPosition)
}

// clamp limits v to [0, hi]. When hi is negative the result is hi.
func clamp(v, hi int) int {
	if v < 0 {
		v = 0
	}
	if v > hi {
		v = hi
	}
	return v
}
