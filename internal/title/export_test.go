package title

import "context"

// SetIdleHook installs fn to run each time a scan loop exits.
func (w *Watcher) SetIdleHook(fn func()) { w.idle = fn }

// Navigate records addr and fires immediately, skipping the debounce.
func (w *Watcher) Navigate(ctx context.Context, addr string) {
	if w.changed(addr) {
		w.fire(ctx)
	}
}
