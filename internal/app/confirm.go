package app

import "github.com/quilledit/quill/internal/buffer"

// Choice is the user's answer to a save confirmation.
type Choice int

const (
	// ChoiceSave persists the buffer before proceeding.
	ChoiceSave Choice = iota

	// ChoiceDiscard proceeds without saving.
	ChoiceDiscard

	// ChoiceCancel aborts the surrounding operation.
	ChoiceCancel
)

// String returns the choice name.
func (c Choice) String() string {
	switch c {
	case ChoiceSave:
		return "save"
	case ChoiceDiscard:
		return "discard"
	case ChoiceCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Confirmer asks the user yes/no/cancel questions. Implementations are
// modal: the workbench blocks on the answer.
type Confirmer interface {
	// ConfirmSave asks whether to save name's unsaved changes before a
	// destructive operation.
	ConfirmSave(name string) Choice

	// ConfirmYesNo asks a yes/no question.
	ConfirmYesNo(title, message string) bool
}

// PathChooser supplies file paths for save-as and open dialogs. The
// bool result is false when the user dismissed the chooser.
type PathChooser interface {
	// ChooseSavePath asks for a destination path for b.
	ChooseSavePath(b *buffer.Buffer) (string, bool)

	// ChooseOpenPaths asks for one or more paths to open.
	ChooseOpenPaths() ([]string, bool)
}

// Notifier delivers non-modal notices (external file changes, reload
// failures) without blocking the workbench.
type Notifier interface {
	Notify(message string)
}

// NullNotifier drops all notices.
type NullNotifier struct{}

// Notify implements Notifier.
func (NullNotifier) Notify(string) {}
