package headless

import "github.com/mj1618/formfill/internal/platform"

// UseSystemClipboard routes clipboard access of registered providers to
// the desktop clipboard when one is available. Off by default, so pastes
// into a simulated host leave the user's clipboard alone.
var UseSystemClipboard bool

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		var cb platform.ClipboardManager
		if UseSystemClipboard && platform.SystemClipboardAvailable() {
			cb = platform.SystemClipboard{}
		}
		return New().Provider(cb), nil
	}
}
