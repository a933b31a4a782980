package model

import "time"

// NotificationStatus is the read state of a notification.
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// Valid reports whether the status is a known value.
func (s NotificationStatus) Valid() bool {
	return s == NotificationUnread || s == NotificationRead
}

// Notification is an admin-facing event record. Read notifications older
// than the retention window are hard-deleted by the sweeper.
type Notification struct {
	ID        string             `json:"id"         db:"id"`
	UserID    string             `json:"user_id"    db:"user_id"`
	Title     string             `json:"title"      db:"title"`
	Message   string             `json:"message"    db:"message"`
	Status    NotificationStatus `json:"status"     db:"status"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}
