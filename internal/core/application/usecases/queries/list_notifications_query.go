package queries

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrListNotificationsQueryIsNotConstructed = errors.New(
	"ListNotificationsQuery must be created via NewListNotificationsQuery constructor",
)

const MaxListedNotifications = 200

// ListNotificationsQuery reads a recipient's inbox, newest first. Cleared notifications
// are never listed.
type ListNotificationsQuery struct {
	recipientID kernel.UUID
	unreadOnly  bool
	limit       int

	guard guard.ConstructorGuard
}

// NewListNotificationsQuery builds an inbox read. A zero limit means MaxListedNotifications.
func NewListNotificationsQuery(recipientID kernel.UUID, unreadOnly bool, limit int) (ListNotificationsQuery, error) {
	if err := recipientID.Validate(); err != nil {
		return ListNotificationsQuery{}, err
	}
	if limit == 0 {
		limit = MaxListedNotifications
	}
	if limit < 1 || limit > MaxListedNotifications {
		return ListNotificationsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListedNotifications)
	}
	return ListNotificationsQuery{
		recipientID: recipientID,
		unreadOnly:  unreadOnly,
		limit:       limit,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q ListNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListNotificationsQueryIsNotConstructed)
}

func (q ListNotificationsQuery) RecipientID() kernel.UUID { return q.recipientID }
func (q ListNotificationsQuery) UnreadOnly() bool         { return q.unreadOnly }
func (q ListNotificationsQuery) Limit() int               { return q.limit }

type NotificationView struct {
	ID        kernel.UUID
	Type      string
	Title     string
	Body      string
	OrderID   *kernel.UUID
	Read      bool
	CreatedAt time.Time
}
