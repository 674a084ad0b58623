package shared

import "context"

// NotificationKind identifies the event being announced
type NotificationKind string

const (
	NotificationSignupApproved          NotificationKind = "SIGNUP_APPROVED"
	NotificationSignupDenied            NotificationKind = "SIGNUP_DENIED"
	NotificationScreeningSignupApproved NotificationKind = "SCREENING_SIGNUP_APPROVED"
	NotificationScreeningSignupDenied   NotificationKind = "SCREENING_SIGNUP_DENIED"
	NotificationApplicationReviewed     NotificationKind = "APPLICATION_REVIEWED"
)

// Notification is a fire-and-forget announcement
type Notification struct {
	Kind     NotificationKind
	BattleID string
	Title    string
	Body     string
	Fields   map[string]string
}

// Notifier delivers notifications. Implementations must not block the caller on
// delivery and must never fail the originating operation.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NopNotifier discards notifications
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) {}
