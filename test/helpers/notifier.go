package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// RecordingNotifier captures notifications for assertions
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []shared.Notification
}

func (n *RecordingNotifier) Notify(_ context.Context, note shared.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
}

// Sent returns a copy of every notification recorded so far
func (n *RecordingNotifier) Sent() []shared.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]shared.Notification(nil), n.sent...)
}

// Kinds returns the kinds of recorded notifications in order
func (n *RecordingNotifier) Kinds() []shared.NotificationKind {
	var kinds []shared.NotificationKind
	for _, note := range n.Sent() {
		kinds = append(kinds, note.Kind)
	}
	return kinds
}
