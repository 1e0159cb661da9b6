package headless

import "sync"

// Clipboard is an in-memory platform.ClipboardManager.
type Clipboard struct {
	mu   sync.Mutex
	text string
}

// GetText returns the stored text.
func (c *Clipboard) GetText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

// SetText stores text.
func (c *Clipboard) SetText(text string) error {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
	return nil
}

// Clear empties the clipboard.
func (c *Clipboard) Clear() error {
	return c.SetText("")
}
