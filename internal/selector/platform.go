package selector

import "github.com/atotto/clipboard"

// copyToClipboardFn is replaced in tests to avoid touching the system clipboard.
var copyToClipboardFn = clipboard.WriteAll

// StubClipboard replaces clipboard writes with fn and returns a restore function.
func StubClipboard(fn func(string) error) (restore func()) {
	orig := copyToClipboardFn
	copyToClipboardFn = fn
	return func() { copyToClipboardFn = orig }
}
