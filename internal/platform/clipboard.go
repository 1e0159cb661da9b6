package platform

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard is returned when the host has no usable clipboard utility.
var ErrNoClipboard = errors.New("system clipboard is not available")

// SystemClipboard implements ClipboardManager on the desktop clipboard.
type SystemClipboard struct{}

// SystemClipboardAvailable reports whether a clipboard utility was found.
func SystemClipboardAvailable() bool {
	return !clipboard.Unsupported
}

// GetText reads the current text content from the system clipboard.
func (SystemClipboard) GetText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrNoClipboard
	}
	return clipboard.ReadAll()
}

// SetText writes text to the system clipboard.
func (SystemClipboard) SetText(text string) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	return clipboard.WriteAll(text)
}

// Clear empties the system clipboard.
func (c SystemClipboard) Clear() error {
	return c.SetText("")
}
