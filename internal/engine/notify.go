package engine

import (
	"sync"
	"time"

	"github.com/nickagee13/pantry-path/internal/models"
)

// Notifier owns the single visible notification. Issuing a new one replaces
// the previous and invalidates its undo action; an auto-dismiss timer clears
// the notification after its timeout.
type Notifier struct {
	mu      sync.Mutex
	current models.Notification
	gen     int
	timer   *time.Timer
}

// NewNotifier creates a notifier with nothing visible.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Show replaces the visible notification. The previous undo action, if any,
// can no longer fire.
func (n *Notifier) Show(message string, kind models.NotificationKind, undo models.UndoFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.gen++
	gen := n.gen
	n.current = models.Notification{
		Message: message,
		Kind:    kind,
		Visible: true,
		Undo:    undo,
	}

	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.current.Timeout(), func() {
		n.dismiss(gen)
	})
}

// ShowError surfaces a failure. Error notifications never carry an undo.
func (n *Notifier) ShowError(message string) {
	n.Show(message, models.KindError, nil)
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (models.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.current.Visible
}

// Dismiss hides the notification early and invalidates its undo action.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clearLocked()
}

// Undo runs the one-shot compensating action of the visible notification,
// then dismisses it. Returns false when no undo is available.
func (n *Notifier) Undo() (bool, error) {
	n.mu.Lock()
	undo := n.current.Undo
	if undo == nil || !n.current.Visible {
		n.mu.Unlock()
		return false, nil
	}
	n.clearLocked()
	n.mu.Unlock()

	return true, undo()
}

// dismiss clears the notification only if it is still the same generation
// that armed the timer.
func (n *Notifier) dismiss(gen int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != gen {
		return
	}
	n.clearLocked()
}

func (n *Notifier) clearLocked() {
	n.current = models.Notification{}
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
