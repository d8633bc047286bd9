package app

import (
	"fmt"

	"github.com/quilledit/quill/internal/buffer"
)

// OnFocusIn reconciles every open buffer against the file system. The
// UI calls it when the window regains focus, the moment external edits
// become observable.
func (w *Workbench) OnFocusIn() {
	for _, b := range w.registry.All() {
		w.reconcile(b)
	}
}

// OnBufferActivated reconciles a single buffer when its tab is
// brought to the front.
func (w *Workbench) OnBufferActivated(b *buffer.Buffer) {
	if b != nil {
		w.reconcile(b)
	}
}

// reconcile folds one external-state observation into the buffer. A
// clean buffer follows the disk silently; a dirty one must not lose
// edits, so the user is told instead. Deletion and restoration are
// observed and reported, never acted on.
func (w *Workbench) reconcile(b *buffer.Buffer) {
	switch w.registry.CheckExternalState(b) {
	case buffer.Modified:
		if b.AtSavePoint() {
			if err := w.registry.Reload(b); err != nil {
				w.notifier.Notify(fmt.Sprintf("Could not reload %s: %v", b.Name(), err))
			} else {
				w.logger.Debug("reloaded %s after external change", b.Path())
			}
		} else {
			w.notifier.Notify(fmt.Sprintf(
				"%s changed on disk; your unsaved changes are preserved", b.Name()))
		}
	case buffer.Deleted:
		w.notifier.Notify(fmt.Sprintf("%s was deleted on disk", b.Name()))
	case buffer.Restored:
		w.notifier.Notify(fmt.Sprintf("%s reappeared on disk", b.Name()))
	}
}
