package app

import (
	"errors"
	"fmt"

	"github.com/quilledit/quill/internal/buffer"
	"github.com/quilledit/quill/internal/event"
	"github.com/quilledit/quill/internal/lang"
	"github.com/quilledit/quill/internal/settings"
	"github.com/quilledit/quill/internal/tabs"
	"github.com/quilledit/quill/internal/vfs"
)

// Workbench is the window-level controller. It owns no buffer state of
// its own: every intent is a composition of registry and tab-strip
// operations, gated by the confirmation policy for unsaved changes.
//
// The workbench runs on one logical thread. Confirmer and PathChooser
// calls block it; Notifier calls must not.
type Workbench struct {
	fs       vfs.FS
	bus      *event.Bus
	registry *buffer.Registry
	tabs     *tabs.Controller
	langs    *lang.Registry
	recent   *settings.RecentFiles
	store    *settings.Store

	confirm  Confirmer
	chooser  PathChooser
	notifier Notifier
	logger   *Logger

	createOnOpen bool

	// Set during exit so emptying the tab strip does not respawn a
	// placeholder buffer.
	suspendRecreate bool
}

// Options wires the workbench's collaborators. FS, Bus, Registry,
// Tabs, Confirmer, and Chooser are required; the rest are optional.
type Options struct {
	FS        vfs.FS
	Bus       *event.Bus
	Registry  *buffer.Registry
	Tabs      *tabs.Controller
	Languages *lang.Registry
	Recent    *settings.RecentFiles
	Settings  *settings.Store
	Confirmer Confirmer
	Chooser   PathChooser
	Notifier  Notifier
	Logger    *Logger

	// CreateOnOpen enables the "file doesn't exist, create it?" prompt
	// when opening a missing path.
	CreateOnOpen bool
}

// New creates a workbench and registers its bus subscriptions. The tab
// strip mirrors the registry from this point on.
func New(opts Options) *Workbench {
	w := &Workbench{
		fs:           opts.FS,
		bus:          opts.Bus,
		registry:     opts.Registry,
		tabs:         opts.Tabs,
		langs:        opts.Languages,
		recent:       opts.Recent,
		store:        opts.Settings,
		confirm:      opts.Confirmer,
		chooser:      opts.Chooser,
		notifier:     opts.Notifier,
		logger:       opts.Logger,
		createOnOpen: opts.CreateOnOpen,
	}
	if w.notifier == nil {
		w.notifier = NullNotifier{}
	}
	if w.logger == nil {
		w.logger = NullLogger
	}
	w.subscribe()
	return w
}

// Start puts the window into its initial state: a single pristine
// untitled buffer.
func (w *Workbench) Start() {
	if w.tabs.Count() == 0 {
		w.NewFile()
	}
}

// Registry returns the buffer registry.
func (w *Workbench) Registry() *buffer.Registry { return w.registry }

// Tabs returns the tab strip controller.
func (w *Workbench) Tabs() *tabs.Controller { return w.tabs }

// Current returns the buffer in the selected tab.
func (w *Workbench) Current() *buffer.Buffer { return w.tabs.Current() }

// NewFile creates an untitled buffer and switches to it.
func (w *Workbench) NewFile() *buffer.Buffer {
	b := w.registry.NewEmpty()
	w.tabs.SwitchToBuffer(b)
	w.logger.Debug("new buffer %s", b.Name())
	return b
}

// OpenFiles opens each path in order and switches to the last success.
// A path that is already open counts as a success (the existing buffer
// is reused). A missing file triggers the create prompt when enabled;
// declining drops the path from the recent list. Opening real files out
// of a pristine initial window closes the placeholder buffer.
//
// Failures are joined into the returned error; successes stand
// regardless.
func (w *Workbench) OpenFiles(paths []string) ([]*buffer.Buffer, error) {
	var placeholder *buffer.Buffer
	if w.InInitialState() {
		placeholder = w.tabs.Current()
	}

	var opened []*buffer.Buffer
	var errs []error
	for _, path := range paths {
		b, err := w.openOne(path)
		if err != nil {
			if !errors.Is(err, ErrUserCancelled) {
				errs = append(errs, err)
				w.notifier.Notify(fmt.Sprintf("Could not open %s: %v", path, err))
			}
			continue
		}
		if b != nil {
			opened = append(opened, b)
		}
	}

	if len(opened) > 0 {
		last := opened[len(opened)-1]
		if placeholder != nil && placeholder != last && placeholder.AtSavePoint() {
			w.registry.Close(placeholder)
		}
		w.tabs.SwitchToBuffer(last)
	}
	return opened, errors.Join(errs...)
}

// openOne opens a single path, applying the missing-file policy.
// A nil buffer with a nil or ErrUserCancelled error means the path was
// skipped by user choice.
func (w *Workbench) openOne(path string) (*buffer.Buffer, error) {
	b, err := w.registry.OpenFile(path)
	if err == nil {
		return b, nil
	}

	if buffer.IsNotFound(err) {
		if !w.createOnOpen || !w.confirm.ConfirmYesNo("Create file",
			fmt.Sprintf("%s doesn't exist. Create it?", path)) {
			w.forgetRecent(path)
			return nil, ErrUserCancelled
		}
		if werr := w.fs.WriteFile(path, nil, 0644); werr != nil {
			return nil, NewOperationError("open", path, werr)
		}
		if b, err = w.registry.OpenFile(path); err == nil {
			return b, nil
		}
	}
	return nil, NewOperationError("open", path, err)
}

// Save persists b. An untitled buffer runs the save-as flow to acquire
// a path first.
func (w *Workbench) Save(b *buffer.Buffer) error {
	if b == nil {
		return ErrNoActiveBuffer
	}
	if !b.IsFileBacked() {
		return w.SaveAs(b)
	}

	if err := w.registry.Save(b); err != nil {
		w.logger.Error("save %s: %v", b.Path(), err)
		return NewOperationError("save", b.Path(), err)
	}
	return nil
}

// SaveCurrent saves the buffer in the selected tab.
func (w *Workbench) SaveCurrent() error {
	return w.Save(w.tabs.Current())
}

// SaveAs asks for a destination and writes b there, re-associating the
// buffer with the new path. If another open buffer held the chosen
// path, that buffer is closed: one path, one buffer.
func (w *Workbench) SaveAs(b *buffer.Buffer) error {
	if b == nil {
		return ErrNoActiveBuffer
	}

	path, ok := w.chooser.ChooseSavePath(b)
	if !ok {
		return ErrUserCancelled
	}
	return w.saveAsTo(b, path)
}

func (w *Workbench) saveAsTo(b *buffer.Buffer, path string) error {
	displaced, err := w.registry.SaveAs(b, path)
	if err != nil {
		w.logger.Error("save-as %s: %v", path, err)
		return NewOperationError("save-as", path, err)
	}
	if displaced != nil {
		w.registry.Close(displaced)
	}
	return nil
}

// SaveCopyAs asks for a destination and writes a copy of b there
// without re-associating the buffer.
func (w *Workbench) SaveCopyAs(b *buffer.Buffer) error {
	if b == nil {
		return ErrNoActiveBuffer
	}

	path, ok := w.chooser.ChooseSavePath(b)
	if !ok {
		return ErrUserCancelled
	}
	if err := w.registry.SaveCopyAs(b, path); err != nil {
		return NewOperationError("save-copy", path, err)
	}
	return nil
}

// SaveAll saves every buffer with unsaved changes. Untitled buffers
// prompt for a path; dismissing that chooser skips the buffer and the
// sweep continues.
func (w *Workbench) SaveAll() error {
	var errs []error
	for _, b := range w.registry.DirtyBuffers() {
		if err := w.Save(b); err != nil && !errors.Is(err, ErrUserCancelled) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RenameFile asks for a new path and moves b's file there. If another
// open buffer held the chosen path, that buffer is closed.
func (w *Workbench) RenameFile(b *buffer.Buffer) error {
	if b == nil {
		return ErrNoActiveBuffer
	}
	if !b.IsFileBacked() {
		return NewOperationError("rename", b.Name(), ErrInvalidOperation)
	}

	path, ok := w.chooser.ChooseSavePath(b)
	if !ok {
		return ErrUserCancelled
	}

	oldPath := b.Path()
	displaced, err := w.registry.Rename(b, path)
	if err != nil {
		w.logger.Error("rename %s: %v", path, err)
		return NewOperationError("rename", path, err)
	}
	if displaced != nil {
		w.registry.Close(displaced)
	}
	// The old path no longer exists on disk; a stale recently-closed
	// entry would reopen nothing.
	w.forgetRecent(oldPath)
	return nil
}

// ReloadFile re-reads b from disk. Unsaved changes require an explicit
// confirmation; a buffer at its save-point reloads without a prompt.
func (w *Workbench) ReloadFile(b *buffer.Buffer) error {
	if b == nil {
		return ErrNoActiveBuffer
	}
	if !b.IsFileBacked() {
		return NewOperationError("reload", b.Name(), ErrInvalidOperation)
	}

	if !b.AtSavePoint() {
		if !w.confirm.ConfirmYesNo("Reload file",
			fmt.Sprintf("Reload %s and discard your changes?", b.Name())) {
			return ErrUserCancelled
		}
	}

	if err := w.registry.Reload(b); err != nil {
		w.notifier.Notify(fmt.Sprintf("Could not reload %s: %v", b.Name(), err))
		return NewOperationError("reload", b.Path(), err)
	}
	return nil
}

// InInitialState reports whether the window still holds only its
// pristine placeholder: one untitled buffer at its save-point.
func (w *Workbench) InInitialState() bool {
	if w.tabs.Count() != 1 {
		return false
	}
	b := w.tabs.Current()
	return b != nil && !b.IsFileBacked() && b.AtSavePoint()
}

// CanSave reports whether b has anything to save.
func (w *Workbench) CanSave(b *buffer.Buffer) bool {
	return b != nil && !b.IsClosed() && !b.AtSavePoint()
}

// CanReload reports whether b can be re-read from disk.
func (w *Workbench) CanReload(b *buffer.Buffer) bool {
	return b != nil && !b.IsClosed() && b.IsFileBacked()
}

// CanRename reports whether b's file can be moved.
func (w *Workbench) CanRename(b *buffer.Buffer) bool {
	return b != nil && !b.IsClosed() && b.IsFileBacked()
}

// CanClose reports whether a close intent would do anything.
func (w *Workbench) CanClose() bool {
	return !w.InInitialState()
}

// IsAnyUnsaved reports whether any open buffer has unsaved changes.
func (w *Workbench) IsAnyUnsaved() bool {
	return len(w.registry.DirtyBuffers()) > 0
}

// RecentlyClosed returns the recently-closed file paths, most recent
// first.
func (w *Workbench) RecentlyClosed() []string {
	if w.recent == nil {
		return nil
	}
	return w.recent.List()
}

// RestoreLastClosed reopens the most recently closed file and switches
// to it. Reopening removes the path from the recently-closed list. With
// nothing to restore it returns a nil buffer.
func (w *Workbench) RestoreLastClosed() (*buffer.Buffer, error) {
	list := w.RecentlyClosed()
	if len(list) == 0 {
		return nil, nil
	}

	opened, err := w.OpenFiles(list[:1])
	if err != nil {
		return nil, err
	}
	if len(opened) == 0 {
		return nil, nil
	}
	return opened[0], nil
}

// rememberRecent records a canonical path in the recently-closed list.
func (w *Workbench) rememberRecent(path string) {
	if w.recent == nil || path == "" {
		return
	}
	if err := w.recent.Add(path); err != nil {
		w.logger.Warn("recently closed: %v", err)
	}
}

// forgetRecent drops a path from the recently-closed list.
func (w *Workbench) forgetRecent(path string) {
	if w.recent == nil || path == "" {
		return
	}
	if err := w.recent.Remove(path); err != nil {
		w.logger.Warn("recently closed: %v", err)
	}
}
