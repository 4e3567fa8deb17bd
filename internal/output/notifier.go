package output

import "sync"

// Notifier shows user-facing cycler messages on a Printer.
type Notifier struct {
	printer *Printer
}

// NewNotifier creates a Notifier writing through printer. A nil printer
// follows Default at the time each message is shown.
func NewNotifier(printer *Printer) *Notifier {
	return &Notifier{printer: printer}
}

func (n *Notifier) target() *Printer {
	if n.printer != nil {
		return n.printer
	}
	return Default()
}

// ShowError implements cyclertypes.Notifier.
func (n *Notifier) ShowError(message string) {
	n.target().Error(message)
}

// ShowWarning implements cyclertypes.Notifier.
func (n *Notifier) ShowWarning(message string) {
	n.target().Warning(message)
}

// RecordingNotifier keeps messages in memory instead of printing them.
type RecordingNotifier struct {
	mu       sync.Mutex
	Errors   []string
	Warnings []string
}

// ShowError implements cyclertypes.Notifier.
func (r *RecordingNotifier) ShowError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, message)
}

// ShowWarning implements cyclertypes.Notifier.
func (r *RecordingNotifier) ShowWarning(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, message)
}
