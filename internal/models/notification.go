package models

import "time"

// NotificationKind classifies a user-visible notification.
type NotificationKind string

const (
	// Notification kinds
	KindAdded   NotificationKind = "added"
	KindRemoved NotificationKind = "removed"
	KindError   NotificationKind = "error"
)

// Dismiss timeouts. Notifications carrying an undo action stay up longer.
const (
	NotificationTimeout     = 3 * time.Second
	NotificationUndoTimeout = 5 * time.Second
)

// UndoFunc is a compensating action captured when a destructive mutation is
// committed. It is one-shot: invalidated once the notification expires or is
// superseded.
type UndoFunc func() error

// Notification is an ephemeral user-visible message. At most one is visible
// at a time; issuing a new one replaces the previous.
type Notification struct {
	Message string           `json:"message"`
	Kind    NotificationKind `json:"kind"`
	Visible bool             `json:"visible"`
	Undo    UndoFunc         `json:"-"`
}

// Timeout returns how long the notification stays visible before it is
// auto-dismissed.
func (n Notification) Timeout() time.Duration {
	if n.Undo != nil {
		return NotificationUndoTimeout
	}
	return NotificationTimeout
}
