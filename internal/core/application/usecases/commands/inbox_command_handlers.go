package commands

import (
	"context"
	"time"
)

// MarkNotificationReadCommandHandler marks a single notification as read. Notifications
// of other recipients and cleared ones are reported as not found.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
}

func NewMarkNotificationReadCommandHandler(uowFactory NotificationUoWFactory) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{uowFactory: uowFactory}
}

func (h MarkNotificationReadCommandHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.NotificationRepository().MarkRead(ctx, cmd.NotificationID(), cmd.RecipientID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// MarkAllNotificationsReadCommandHandler marks every visible notification of a recipient
// as read and returns how many changed.
type MarkAllNotificationsReadCommandHandler struct {
	uowFactory NotificationUoWFactory
}

func NewMarkAllNotificationsReadCommandHandler(uowFactory NotificationUoWFactory) MarkAllNotificationsReadCommandHandler {
	return MarkAllNotificationsReadCommandHandler{uowFactory: uowFactory}
}

func (h MarkAllNotificationsReadCommandHandler) Handle(ctx context.Context, cmd InboxCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	changed, err := uow.NotificationRepository().MarkAllRead(ctx, cmd.RecipientID())
	if err != nil {
		return 0, err
	}

	return changed, uow.Commit(ctx)
}

// ClearNotificationsCommandHandler soft-clears a recipient's inbox. Cleared records are
// kept so the reconciliation sweep does not recreate them.
type ClearNotificationsCommandHandler struct {
	uowFactory NotificationUoWFactory
}

func NewClearNotificationsCommandHandler(uowFactory NotificationUoWFactory) ClearNotificationsCommandHandler {
	return ClearNotificationsCommandHandler{uowFactory: uowFactory}
}

func (h ClearNotificationsCommandHandler) Handle(ctx context.Context, cmd InboxCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cleared, err := uow.NotificationRepository().Clear(ctx, cmd.RecipientID(), time.Now().UTC())
	if err != nil {
		return 0, err
	}

	return cleared, uow.Commit(ctx)
}
