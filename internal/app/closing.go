package app

import (
	"errors"

	"github.com/quilledit/quill/internal/buffer"
)

// CloseFile closes the buffer in tab i.
func (w *Workbench) CloseFile(i int) error {
	b := w.tabs.At(i)
	if b == nil {
		return ErrBufferNotFound
	}
	return w.CloseBuffer(b)
}

// CloseCurrent closes the buffer in the selected tab.
func (w *Workbench) CloseCurrent() error {
	return w.CloseBuffer(w.tabs.Current())
}

// CloseBuffer closes one buffer. Closing the pristine placeholder of
// an initial-state window is a silent no-op. A dirty buffer is brought
// into view and prompts save/discard/cancel; cancel (or a failed save)
// leaves it open.
func (w *Workbench) CloseBuffer(b *buffer.Buffer) error {
	if b == nil {
		return ErrNoActiveBuffer
	}
	if w.InInitialState() && w.tabs.Current() == b {
		return nil
	}

	if !b.AtSavePoint() {
		w.tabs.SwitchToBuffer(b)
		switch w.confirm.ConfirmSave(b.Name()) {
		case ChoiceCancel:
			return ErrUserCancelled
		case ChoiceSave:
			if err := w.Save(b); err != nil {
				// An unsaved buffer never closes; a failed or
				// abandoned save cancels the close.
				return err
			}
		case ChoiceDiscard:
		}
	}

	w.registry.Close(b)
	return nil
}

// CloseAll closes every tab. Emptying the strip respawns a fresh
// placeholder buffer.
func (w *Workbench) CloseAll() error {
	return w.closeBuffers(w.tabs.Buffers())
}

// CloseAllExceptCurrent closes every tab but the selected one.
func (w *Workbench) CloseAllExceptCurrent() error {
	current := w.tabs.Current()
	var targets []*buffer.Buffer
	for _, b := range w.tabs.Buffers() {
		if b != current {
			targets = append(targets, b)
		}
	}
	return w.closeBuffers(targets)
}

// CloseAllToLeft closes every tab left of the selected one.
func (w *Workbench) CloseAllToLeft() error {
	return w.closeBuffers(w.tabs.Buffers()[:w.tabs.CurrentIndex()])
}

// CloseAllToRight closes every tab right of the selected one.
func (w *Workbench) CloseAllToRight() error {
	return w.closeBuffers(w.tabs.Buffers()[w.tabs.CurrentIndex()+1:])
}

// CloseAllForExit runs the checking pass over every buffer, then tears
// the window down: all buffers close without the placeholder respawn,
// and the settings document is written out. After a cancel the window
// is intact and the exit is off.
func (w *Workbench) CloseAllForExit() error {
	if err := w.checkBeforeClose(w.tabs.Buffers()); err != nil {
		return err
	}

	w.suspendRecreate = true
	w.destroyReverse(w.tabs.Buffers())
	w.persistSession()
	return nil
}

// closeBuffers runs the batch-close protocol over targets: a checking
// pass that settles every dirty buffer, then a destructive pass. Any
// cancellation aborts before anything is closed.
func (w *Workbench) closeBuffers(targets []*buffer.Buffer) error {
	if err := w.checkBeforeClose(targets); err != nil {
		return err
	}
	w.destroyReverse(targets)
	return nil
}

// checkBeforeClose is the non-destructive pass. Each dirty buffer is
// switched into view before its prompt, in tab order. Cancel aborts
// the batch; so does a failed save or an abandoned save-as chooser.
// Buffers saved before a later cancel stay saved.
func (w *Workbench) checkBeforeClose(targets []*buffer.Buffer) error {
	for _, b := range targets {
		if b.AtSavePoint() {
			continue
		}

		w.tabs.SwitchToBuffer(b)
		switch w.confirm.ConfirmSave(b.Name()) {
		case ChoiceCancel:
			return ErrUserCancelled
		case ChoiceSave:
			if err := w.Save(b); err != nil {
				if errors.Is(err, ErrUserCancelled) {
					return ErrUserCancelled
				}
				w.logger.Error("close check: %v", err)
				return err
			}
		case ChoiceDiscard:
		}
	}
	return nil
}

// destroyReverse closes targets back to front so tab indices stay
// stable while the strip shrinks.
func (w *Workbench) destroyReverse(targets []*buffer.Buffer) {
	for i := len(targets) - 1; i >= 0; i-- {
		w.registry.Close(targets[i])
	}
}

// persistSession flushes the settings document (recent files, window
// geometry) to disk.
func (w *Workbench) persistSession() {
	if w.store == nil {
		return
	}
	if err := w.store.Save(); err != nil {
		w.logger.Error("persist session: %v", err)
	}
}
