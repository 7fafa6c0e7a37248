// Package notification holds per-recipient notification records.
package notification

import (
	"errors"
	"strings"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

type Type string

const (
	TypeOrderCreated    Type = "order_created"
	TypeOrderReady      Type = "order_ready"
	TypeOrderPickedUp   Type = "order_picked_up"
	TypeOrderDelivered  Type = "order_delivered"
	TypeOrderCompleted  Type = "order_completed"
	TypeOrderCancelled  Type = "order_cancelled"
	TypeRefund          Type = "refund"
	TypeEarningPosted   Type = "earning_posted"
	TypePayoutAvailable Type = "payout_available"
	TypeWalletAdjusted  Type = "wallet_adjusted"
)

func (t Type) Validate() error {
	switch t {
	case TypeOrderCreated, TypeOrderReady, TypeOrderPickedUp, TypeOrderDelivered, TypeOrderCompleted,
		TypeOrderCancelled, TypeRefund, TypeEarningPosted, TypePayoutAvailable, TypeWalletAdjusted:
		return nil
	default:
		return errs.NewValueIsInvalidError("notification type " + string(t))
	}
}

// Message is the content of a notification before it is addressed to a recipient.
type Message struct {
	RecipientID kernel.UUID
	Type        Type
	Title       string
	Body        string
	OrderID     *kernel.UUID
	// EventKey identifies the event the notification was planned from. A recipient
	// never holds two notifications with the same key.
	EventKey string
}

// Notification is a message delivered to one recipient's inbox.
type Notification struct {
	id          kernel.UUID
	recipientID kernel.UUID
	kind        Type
	title       string
	body        string
	orderID     *kernel.UUID
	eventKey    string
	read        bool
	createdAt   time.Time
	clearedAt   *time.Time

	isConstructed bool
}

func NewNotification(id kernel.UUID, msg Message, now time.Time) (*Notification, error) {
	n := &Notification{
		id:            id,
		recipientID:   msg.RecipientID,
		kind:          msg.Type,
		title:         strings.TrimSpace(msg.Title),
		body:          strings.TrimSpace(msg.Body),
		orderID:       msg.OrderID,
		eventKey:      strings.TrimSpace(msg.EventKey),
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	var keyErr error
	if n.eventKey == "" {
		keyErr = errs.NewValueIsRequiredError("eventKey")
	}
	var titleErr error
	if n.title == "" {
		titleErr = errs.NewValueIsRequiredError("title")
	}

	if err := errors.Join(
		id.Validate(),
		msg.RecipientID.Validate(),
		msg.Type.Validate(),
		keyErr,
		titleErr,
	); err != nil {
		return nil, err
	}

	return n, nil
}

// RestoreNotification rebuilds a stored notification.
func RestoreNotification(
	id kernel.UUID,
	msg Message,
	read bool,
	createdAt time.Time,
	clearedAt *time.Time,
) (*Notification, error) {
	n, err := NewNotification(id, msg, createdAt)
	if err != nil {
		return nil, err
	}
	n.read = read
	n.createdAt = createdAt
	n.clearedAt = clearedAt
	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID          { return n.id }
func (n *Notification) RecipientID() kernel.UUID { return n.recipientID }
func (n *Notification) Type() Type               { return n.kind }
func (n *Notification) Title() string            { return n.title }
func (n *Notification) Body() string             { return n.body }
func (n *Notification) OrderID() *kernel.UUID    { return n.orderID }
func (n *Notification) EventKey() string         { return n.eventKey }
func (n *Notification) IsRead() bool             { return n.read }
func (n *Notification) CreatedAt() time.Time     { return n.createdAt }
func (n *Notification) ClearedAt() *time.Time    { return n.clearedAt }

// IsCleared reports whether the recipient removed the notification from their inbox.
func (n *Notification) IsCleared() bool {
	return n.clearedAt != nil
}
