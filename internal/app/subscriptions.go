package app

import (
	"github.com/quilledit/quill/internal/buffer"
	"github.com/quilledit/quill/internal/tabs"
)

// subscribe wires the registry and tab strip together. Created buffers
// gain a tab and a detected language; closed buffers lose their tab and
// feed the recently-closed list; an emptied strip respawns the
// placeholder unless the app is exiting.
func (w *Workbench) subscribe() {
	_, _ = w.bus.SubscribeFunc(buffer.TopicCreated, func(ev any) error {
		b := ev.(buffer.Created).Buffer
		w.tabs.Add(b)
		w.detectLanguage(b)
		// An open file is no longer recently closed.
		if b.IsFileBacked() {
			w.forgetRecent(b.Path())
		}
		return nil
	})

	_, _ = w.bus.SubscribeFunc(buffer.TopicClosed, func(ev any) error {
		b := ev.(buffer.Closed).Buffer
		w.tabs.Remove(b)
		// A displaced buffer's path lives on in another buffer and
		// stays off the list.
		if b.IsFileBacked() {
			if _, open := w.registry.Get(b.Path()); !open {
				w.rememberRecent(b.Path())
			}
		}
		return nil
	})

	_, _ = w.bus.SubscribeFunc(buffer.TopicRenamed, func(ev any) error {
		b := ev.(buffer.Renamed).Buffer
		w.forgetRecent(b.Path())
		// A new path can mean a new language.
		if w.langs != nil {
			b.Language = ""
			w.detectLanguage(b)
		}
		return nil
	})

	_, _ = w.bus.SubscribeFunc(tabs.TopicAllClosed, func(any) error {
		if !w.suspendRecreate {
			w.NewFile()
		}
		return nil
	})
}

// detectLanguage assigns a language by extension. Untitled buffers are
// never detected and an existing assignment is kept.
func (w *Workbench) detectLanguage(b *buffer.Buffer) {
	if w.langs == nil || !b.IsFileBacked() || b.Language != "" {
		return
	}
	b.Language = w.langs.DetectPath(b.Path())
}
