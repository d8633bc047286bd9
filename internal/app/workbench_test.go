package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/quilledit/quill/internal/buffer"
	"github.com/quilledit/quill/internal/event"
	"github.com/quilledit/quill/internal/lang"
	"github.com/quilledit/quill/internal/settings"
	"github.com/quilledit/quill/internal/tabs"
	"github.com/quilledit/quill/internal/vfs"
)

// fakeConfirmer answers prompts from scripted queues. An exhausted
// queue answers Cancel / no, which fails tests that over-prompt.
type fakeConfirmer struct {
	saves    []Choice
	yesNo    []bool
	prompted []string
}

func (f *fakeConfirmer) ConfirmSave(name string) Choice {
	f.prompted = append(f.prompted, name)
	if len(f.saves) == 0 {
		return ChoiceCancel
	}
	c := f.saves[0]
	f.saves = f.saves[1:]
	return c
}

func (f *fakeConfirmer) ConfirmYesNo(title, message string) bool {
	if len(f.yesNo) == 0 {
		return false
	}
	v := f.yesNo[0]
	f.yesNo = f.yesNo[1:]
	return v
}

// fakeChooser hands out scripted paths; an exhausted queue means the
// user dismissed the dialog.
type fakeChooser struct {
	savePaths []string
	openPaths [][]string
}

func (f *fakeChooser) ChooseSavePath(*buffer.Buffer) (string, bool) {
	if len(f.savePaths) == 0 {
		return "", false
	}
	p := f.savePaths[0]
	f.savePaths = f.savePaths[1:]
	return p, true
}

func (f *fakeChooser) ChooseOpenPaths() ([]string, bool) {
	if len(f.openPaths) == 0 {
		return nil, false
	}
	p := f.openPaths[0]
	f.openPaths = f.openPaths[1:]
	return p, true
}

type fakeNotifier struct {
	notes []string
}

func (f *fakeNotifier) Notify(message string) {
	f.notes = append(f.notes, message)
}

func (f *fakeNotifier) contains(substr string) bool {
	for _, n := range f.notes {
		if strings.Contains(n, substr) {
			return true
		}
	}
	return false
}

type fixture struct {
	w       *Workbench
	fs      *vfs.MemFS
	bus     *event.Bus
	reg     *buffer.Registry
	tabs    *tabs.Controller
	confirm *fakeConfirmer
	chooser *fakeChooser
	notes   *fakeNotifier
	store   *settings.Store
}

func setup(t *testing.T) *fixture {
	t.Helper()

	memfs := vfs.NewMemFS()
	bus := event.NewBus()
	reg := buffer.NewRegistry(memfs, bus)
	strip := tabs.NewController(bus)
	store := settings.NewStore(memfs, "/settings.json")

	f := &fixture{
		fs:      memfs,
		bus:     bus,
		reg:     reg,
		tabs:    strip,
		confirm: &fakeConfirmer{},
		chooser: &fakeChooser{},
		notes:   &fakeNotifier{},
		store:   store,
	}
	f.w = New(Options{
		FS:           memfs,
		Bus:          bus,
		Registry:     reg,
		Tabs:         strip,
		Recent:       settings.NewRecentFiles(store, 10),
		Settings:     store,
		Confirmer:    f.confirm,
		Chooser:      f.chooser,
		Notifier:     f.notes,
		Logger:       NullLogger,
		CreateOnOpen: true,
	})
	f.w.Start()
	return f
}

// assertBijection checks that the registry contents and the tab strip
// are the same set.
func assertBijection(t *testing.T, f *fixture) {
	t.Helper()
	all := f.reg.All()
	if len(all) != f.tabs.Count() {
		t.Fatalf("registry has %d buffers, strip has %d tabs", len(all), f.tabs.Count())
	}
	for _, b := range all {
		if f.tabs.IndexOf(b) < 0 {
			t.Fatalf("buffer %s has no tab", b.Name())
		}
	}
}

func (f *fixture) addDisk(t *testing.T, path, content string) {
	t.Helper()
	if err := f.fs.AddFile(path, content); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) edit(t *testing.T, b *buffer.Buffer, text string) {
	t.Helper()
	if err := f.reg.SetText(b, text); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) open(t *testing.T, path string) *buffer.Buffer {
	t.Helper()
	opened, err := f.w.OpenFiles([]string{path})
	if err != nil {
		t.Fatalf("OpenFiles(%s) error = %v", path, err)
	}
	if len(opened) != 1 {
		t.Fatalf("OpenFiles(%s) opened %d buffers", path, len(opened))
	}
	return opened[0]
}

func TestStartInitialState(t *testing.T) {
	f := setup(t)

	if f.tabs.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", f.tabs.Count())
	}
	b := f.tabs.Current()
	if b == nil || b.IsFileBacked() || b.Name() != "New 1" {
		t.Errorf("placeholder = %+v", b)
	}
	if !f.w.InInitialState() {
		t.Error("fresh window should be in its initial state")
	}
	if f.w.CanClose() {
		t.Error("CanClose() should be false in the initial state")
	}
	assertBijection(t, f)
}

func TestInitialStateLeavesAfterEdit(t *testing.T) {
	f := setup(t)

	f.edit(t, f.tabs.Current(), "scratch")
	if f.w.InInitialState() {
		t.Error("an edited placeholder is no longer the initial state")
	}
	if !f.w.CanClose() {
		t.Error("CanClose() should be true once the placeholder is dirty")
	}
}

func TestOpenFilesClosesPlaceholder(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")
	f.addDisk(t, "/b.txt", "beta")

	placeholder := f.tabs.Current()
	opened, err := f.w.OpenFiles([]string{"/a.txt", "/b.txt"})
	if err != nil {
		t.Fatalf("OpenFiles() error = %v", err)
	}
	if len(opened) != 2 {
		t.Fatalf("opened %d buffers, want 2", len(opened))
	}

	if placeholder.IsClosed() != true {
		t.Error("the pristine placeholder should close when real files open")
	}
	if f.tabs.Count() != 2 {
		t.Errorf("Count() = %d, want 2", f.tabs.Count())
	}
	if f.tabs.Current() != opened[1] {
		t.Error("the last opened file should be current")
	}
	assertBijection(t, f)
}

func TestOpenFilesKeepsEditedPlaceholder(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")

	placeholder := f.tabs.Current()
	f.edit(t, placeholder, "unsaved scratch")

	f.open(t, "/a.txt")
	if placeholder.IsClosed() {
		t.Error("an edited placeholder must survive an open")
	}
	if f.tabs.Count() != 2 {
		t.Errorf("Count() = %d, want 2", f.tabs.Count())
	}
}

func TestOpenAlreadyOpenSwitches(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")
	f.addDisk(t, "/b.txt", "beta")

	a := f.open(t, "/a.txt")
	f.open(t, "/b.txt")

	again := f.open(t, "/a.txt")
	if again != a {
		t.Error("re-opening an open path should return the existing buffer")
	}
	if f.tabs.Current() != a {
		t.Error("re-opening should switch to the existing tab")
	}
	if f.tabs.Count() != 2 {
		t.Errorf("Count() = %d, want 2", f.tabs.Count())
	}
}

func TestOpenMissingFileCreateAccepted(t *testing.T) {
	f := setup(t)
	f.confirm.yesNo = []bool{true}

	opened, err := f.w.OpenFiles([]string{"/new/notes.txt"})
	if err != nil {
		t.Fatalf("OpenFiles() error = %v", err)
	}
	if len(opened) != 1 {
		t.Fatalf("opened %d buffers, want 1", len(opened))
	}
	if !f.fs.Exists("/new/notes.txt") {
		t.Error("accepting the prompt should create the file")
	}
	if opened[0].Len() != 0 {
		t.Error("the created file should open empty")
	}
}

func TestOpenMissingFileCreateDeclined(t *testing.T) {
	f := setup(t)
	f.confirm.yesNo = []bool{false}

	// Seed the recent list with the path about to be declined.
	recent := settings.NewRecentFiles(f.store, 10)
	if err := recent.Add("/gone.txt"); err != nil {
		t.Fatal(err)
	}

	opened, err := f.w.OpenFiles([]string{"/gone.txt"})
	if err != nil {
		t.Fatalf("OpenFiles() error = %v", err)
	}
	if len(opened) != 0 {
		t.Fatalf("opened %d buffers, want 0", len(opened))
	}
	if f.fs.Exists("/gone.txt") {
		t.Error("declining the prompt must not create the file")
	}
	for _, p := range recent.List() {
		if p == "/gone.txt" {
			t.Error("a declined path should leave the recent list")
		}
	}
}

func TestSaveUntitledRunsSaveAs(t *testing.T) {
	f := setup(t)
	f.chooser.savePaths = []string{"/docs/draft.txt"}

	b := f.tabs.Current()
	f.edit(t, b, "draft body")

	if err := f.w.SaveCurrent(); err != nil {
		t.Fatalf("SaveCurrent() error = %v", err)
	}
	if b.Path() != "/docs/draft.txt" {
		t.Errorf("Path() = %q", b.Path())
	}
	data, err := f.fs.ReadFile("/docs/draft.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "draft body" {
		t.Errorf("file content = %q", data)
	}
}

func TestSaveUntitledChooserDismissed(t *testing.T) {
	f := setup(t)
	b := f.tabs.Current()
	f.edit(t, b, "draft")

	if err := f.w.SaveCurrent(); !errors.Is(err, ErrUserCancelled) {
		t.Errorf("SaveCurrent() error = %v, want %v", err, ErrUserCancelled)
	}
	if b.AtSavePoint() {
		t.Error("a dismissed chooser must not move the save-point")
	}
}

func TestSaveAsDisplacedBufferCloses(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")
	f.addDisk(t, "/b.txt", "beta")

	a := f.open(t, "/a.txt")
	holder := f.open(t, "/b.txt")

	f.chooser.savePaths = []string{"/b.txt"}
	if err := f.w.SaveAs(a); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}

	if !holder.IsClosed() {
		t.Error("the buffer displaced from the path should close")
	}
	if got, ok := f.reg.Get("/b.txt"); !ok || got != a {
		t.Error("/b.txt should belong to the saved buffer")
	}
	assertBijection(t, f)
}

func TestRenameDisplacesOpenBuffer(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")
	f.addDisk(t, "/b.txt", "beta")

	a := f.open(t, "/a.txt")
	holder := f.open(t, "/b.txt")

	f.chooser.savePaths = []string{"/b.txt"}
	if err := f.w.RenameFile(a); err != nil {
		t.Fatalf("RenameFile() error = %v", err)
	}

	if !holder.IsClosed() {
		t.Error("renaming onto an open path should close its buffer")
	}
	if a.Path() != "/b.txt" {
		t.Errorf("Path() = %q, want /b.txt", a.Path())
	}
	if f.fs.Exists("/a.txt") {
		t.Error("the old file should be gone after rename")
	}
	assertBijection(t, f)
}

func TestRenameUntitledRefused(t *testing.T) {
	f := setup(t)
	if err := f.w.RenameFile(f.tabs.Current()); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("RenameFile() error = %v, want %v", err, ErrInvalidOperation)
	}
}

func TestSaveAll(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")
	f.addDisk(t, "/b.txt", "beta")

	a := f.open(t, "/a.txt")
	b := f.open(t, "/b.txt")
	f.edit(t, a, "alpha 2")
	f.edit(t, b, "beta 2")

	if err := f.w.SaveAll(); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if !a.AtSavePoint() || !b.AtSavePoint() {
		t.Error("every dirty buffer should be saved")
	}
	if f.w.IsAnyUnsaved() {
		t.Error("IsAnyUnsaved() should be false after SaveAll")
	}
}

func TestReloadFilePromptsWhenDirty(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")
	a := f.open(t, "/a.txt")
	f.edit(t, a, "local edits")
	f.addDisk(t, "/a.txt", "external version")

	// Declined: the edits survive.
	f.confirm.yesNo = []bool{false}
	if err := f.w.ReloadFile(a); !errors.Is(err, ErrUserCancelled) {
		t.Fatalf("ReloadFile() error = %v, want %v", err, ErrUserCancelled)
	}
	if a.Text() != "local edits" {
		t.Error("declining the prompt must not reload")
	}

	// Accepted: content follows the disk.
	f.confirm.yesNo = []bool{true}
	if err := f.w.ReloadFile(a); err != nil {
		t.Fatalf("ReloadFile() error = %v", err)
	}
	if a.Text() != "external version" {
		t.Errorf("Text() = %q after reload", a.Text())
	}
}

func TestReloadCleanBufferNoPrompt(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")
	a := f.open(t, "/a.txt")
	f.addDisk(t, "/a.txt", "newer")

	// No yes/no scripted: a prompt would answer no and fail the reload.
	if err := f.w.ReloadFile(a); err != nil {
		t.Fatalf("ReloadFile() error = %v", err)
	}
	if a.Text() != "newer" {
		t.Errorf("Text() = %q", a.Text())
	}
}

func TestLanguageDetection(t *testing.T) {
	f := setup(t)
	langs := lang.NewRegistry()
	langs.Add(lang.Language{Name: "golang", Extensions: []string{".go"}})
	f.w.langs = langs

	f.addDisk(t, "/src/main.go", "package main")
	b := f.open(t, "/src/main.go")
	if b.Language != "golang" {
		t.Errorf("Language = %q, want golang", b.Language)
	}

	if f.w.NewFile().Language != "" {
		t.Error("untitled buffers are never language-detected")
	}
}

func TestReconcileModified(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/clean.txt", "one")
	f.addDisk(t, "/dirty.txt", "one")

	clean := f.open(t, "/clean.txt")
	dirty := f.open(t, "/dirty.txt")
	f.edit(t, dirty, "local")

	f.addDisk(t, "/clean.txt", "two")
	f.addDisk(t, "/dirty.txt", "two")

	f.w.OnFocusIn()

	if clean.Text() != "two" {
		t.Error("a clean buffer should silently follow the disk")
	}
	if dirty.Text() != "local" {
		t.Error("a dirty buffer must keep its edits")
	}
	if !f.notes.contains("dirty.txt") {
		t.Errorf("expected a notice about dirty.txt, got %v", f.notes.notes)
	}
}

func TestReconcileDeletedAndRestored(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")
	a := f.open(t, "/a.txt")

	if err := f.fs.Remove("/a.txt"); err != nil {
		t.Fatal(err)
	}
	f.w.OnBufferActivated(a)
	if !f.notes.contains("deleted") {
		t.Errorf("expected a deletion notice, got %v", f.notes.notes)
	}
	if a.Text() != "alpha" {
		t.Error("deletion is observed, never acted on")
	}

	f.addDisk(t, "/a.txt", "alpha")
	f.w.OnBufferActivated(a)
	if !f.notes.contains("reappeared") {
		t.Errorf("expected a restoration notice, got %v", f.notes.notes)
	}
}

func TestRecentlyClosedList(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")
	a := f.open(t, "/a.txt")

	if got := f.w.RecentlyClosed(); len(got) != 0 {
		t.Fatalf("RecentlyClosed() = %v, an open file does not belong on the list", got)
	}

	if err := f.w.CloseBuffer(a); err != nil {
		t.Fatalf("CloseBuffer() error = %v", err)
	}
	if got := f.w.RecentlyClosed(); len(got) != 1 || got[0] != "/a.txt" {
		t.Fatalf("RecentlyClosed() after close = %v, want [/a.txt]", got)
	}

	// Reopening takes the path off the list again.
	f.open(t, "/a.txt")
	if got := f.w.RecentlyClosed(); len(got) != 0 {
		t.Errorf("RecentlyClosed() after reopen = %v, want empty", got)
	}
}

func TestRecentlyClosedSkipsUntitledAndDisplaced(t *testing.T) {
	f := setup(t)
	f.addDisk(t, "/a.txt", "alpha")
	f.addDisk(t, "/b.txt", "beta")
	f.open(t, "/a.txt")
	b := f.open(t, "/b.txt")

	// Saving b over a's path closes the displaced buffer; the path is
	// still open in b, so it must not register as recently closed.
	f.chooser.savePaths = []string{"/a.txt"}
	if err := f.w.SaveAs(b); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	if got := f.w.RecentlyClosed(); len(got) != 0 {
		t.Errorf("RecentlyClosed() after displacement = %v, want empty", got)
	}

	// Closing an untitled buffer records nothing.
	untitled := f.w.NewFile()
	if err := f.w.CloseBuffer(untitled); err != nil {
		t.Fatalf("CloseBuffer() error = %v", err)
	}
	if got := f.w.RecentlyClosed(); len(got) != 0 {
		t.Errorf("RecentlyClosed() after untitled close = %v, want empty", got)
	}
}

func TestRestoreLastClosed(t *testing.T) {
	f := setup(t)

	if b, err := f.w.RestoreLastClosed(); b != nil || err != nil {
		t.Fatalf("RestoreLastClosed() on empty list = %v, %v", b, err)
	}

	f.addDisk(t, "/a.txt", "alpha")
	f.addDisk(t, "/b.txt", "beta")
	a := f.open(t, "/a.txt")
	f.open(t, "/b.txt")
	if err := f.w.CloseBuffer(a); err != nil {
		t.Fatalf("CloseBuffer() error = %v", err)
	}

	restored, err := f.w.RestoreLastClosed()
	if err != nil {
		t.Fatalf("RestoreLastClosed() error = %v", err)
	}
	if restored == nil || restored.Path() != "/a.txt" {
		t.Fatalf("RestoreLastClosed() = %v, want /a.txt", restored)
	}
	if f.tabs.Current() != restored {
		t.Error("the restored buffer should become current")
	}
	if got := f.w.RecentlyClosed(); len(got) != 0 {
		t.Errorf("RecentlyClosed() after restore = %v, want empty", got)
	}
	assertBijection(t, f)
}
