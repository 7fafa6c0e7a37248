package ports

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/notification"
)

// NotificationRepository stores notification records.
type NotificationRepository interface {
	// Add stores n. A notification with the same recipient and event key that already
	// exists yields ErrDuplicateNotification.
	Add(ctx context.Context, n *notification.Notification) error

	// MarkRead marks one of the recipient's notifications as read.
	MarkRead(ctx context.Context, id, recipientID kernel.UUID) error

	// MarkAllRead marks every visible notification of the recipient as read and returns
	// the number changed.
	MarkAllRead(ctx context.Context, recipientID kernel.UUID) (int64, error)

	// Clear hides every notification of the recipient from their inbox.
	Clear(ctx context.Context, recipientID kernel.UUID, at time.Time) (int64, error)
}
