package commands

import (
	"errors"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/guard"
)

var (
	ErrMarkNotificationReadCommandIsNotConstructed = errors.New(
		"MarkNotificationReadCommand must be created via NewMarkNotificationReadCommand constructor",
	)
	ErrInboxCommandIsNotConstructed = errors.New(
		"InboxCommand must be created via NewInboxCommand constructor",
	)
)

// MarkNotificationReadCommand marks one notification of the recipient as read.
type MarkNotificationReadCommand struct { //nolint:recvcheck //using for validation
	notificationID kernel.UUID
	recipientID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkNotificationReadCommand(notificationID, recipientID kernel.UUID) (MarkNotificationReadCommand, error) {
	if err := errors.Join(notificationID.Validate(), recipientID.Validate()); err != nil {
		return MarkNotificationReadCommand{}, err
	}
	return MarkNotificationReadCommand{
		notificationID: notificationID,
		recipientID:    recipientID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c MarkNotificationReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkNotificationReadCommandIsNotConstructed)
}

func (c MarkNotificationReadCommand) NotificationID() kernel.UUID { return c.notificationID }
func (c MarkNotificationReadCommand) RecipientID() kernel.UUID    { return c.recipientID }

// InboxCommand addresses a recipient's whole inbox (mark all read, clear).
type InboxCommand struct { //nolint:recvcheck //using for validation
	recipientID kernel.UUID

	guard guard.ConstructorGuard
}

func NewInboxCommand(recipientID kernel.UUID) (InboxCommand, error) {
	if err := recipientID.Validate(); err != nil {
		return InboxCommand{}, err
	}
	return InboxCommand{recipientID: recipientID, guard: guard.NewConstructorGuard()}, nil
}

func (c InboxCommand) Validate() error {
	return c.guard.Validate(ErrInboxCommandIsNotConstructed)
}

func (c InboxCommand) RecipientID() kernel.UUID {
	return c.recipientID
}
