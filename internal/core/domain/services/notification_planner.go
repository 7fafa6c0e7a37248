package services

import (
	"fmt"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/notification"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
)

// NotificationPlanner decides the recipients and content of notifications.
//
// Recipients per order status:
//   - preparing (created): seller
//   - ready: every on-duty courier and the buyer
//   - pickup: buyer and seller
//   - delivered: buyer
//   - completed: buyer, seller, courier and the platform operations inbox
//   - cancelled: buyer (as a refund notice), seller and the bound courier, if any
//
// Every planned message carries an event key derived from the order id and version, so
// planning the same change twice yields identical keys.
type NotificationPlanner struct {
	platformInbox kernel.UUID
}

func NewNotificationPlanner(platformInbox kernel.UUID) NotificationPlanner {
	return NotificationPlanner{platformInbox: platformInbox}
}

// PlanTransition returns the messages for an accepted order change. couriers is the
// on-duty courier pool and is only consulted for orders that became ready.
func (p NotificationPlanner) PlanTransition(change order.StatusChanged, couriers []kernel.UUID) []notification.Message {
	orderID := change.OrderID
	short := shortID(orderID)
	key := fmt.Sprintf("order:%s:v%d:%s", orderID, change.Version, change.To)

	msg := func(recipient kernel.UUID, t notification.Type, title, body string) notification.Message {
		if change.Note != "" {
			body += " Note: " + change.Note
		}
		return notification.Message{
			RecipientID: recipient,
			Type:        t,
			Title:       title,
			Body:        body,
			OrderID:     &orderID,
			EventKey:    key,
		}
	}

	var out []notification.Message
	switch change.To {
	case order.Preparing:
		out = append(out,
			msg(change.SellerID, notification.TypeOrderCreated, "New order",
				fmt.Sprintf("Order %s was placed. Total %d.", short, change.Total)))
	case order.Ready:
		for _, courierID := range couriers {
			out = append(out,
				msg(courierID, notification.TypeOrderReady, "Order ready for pickup",
					fmt.Sprintf("Order %s is waiting for a courier.", short)))
		}
		out = append(out,
			msg(change.BuyerID, notification.TypeOrderReady, "Order ready",
				fmt.Sprintf("Your order %s is packed and waiting for a courier.", short)))
	case order.Pickup:
		out = append(out,
			msg(change.BuyerID, notification.TypeOrderPickedUp, "Order on the way",
				fmt.Sprintf("A courier picked up your order %s.", short)),
			msg(change.SellerID, notification.TypeOrderPickedUp, "Order picked up",
				fmt.Sprintf("Order %s was picked up by a courier.", short)))
	case order.Delivered:
		out = append(out,
			msg(change.BuyerID, notification.TypeOrderDelivered, "Order delivered",
				fmt.Sprintf("Order %s was delivered. Please confirm receipt.", short)))
	case order.Completed:
		out = append(out,
			msg(change.BuyerID, notification.TypeOrderCompleted, "Order completed",
				fmt.Sprintf("Thank you! Order %s is complete.", short)),
			msg(change.SellerID, notification.TypeEarningPosted, "Earning posted",
				fmt.Sprintf("Your earning for order %s is pending settlement.", short)))
		if change.CourierID != nil {
			out = append(out,
				msg(*change.CourierID, notification.TypeEarningPosted, "Delivery earning posted",
					fmt.Sprintf("Your delivery earning for order %s is pending settlement.", short)))
		}
		out = append(out,
			msg(p.platformInbox, notification.TypeOrderCompleted, "Order completed",
				fmt.Sprintf("Order %s completed with total %d.", short, change.Total)))
	case order.Cancelled:
		out = append(out,
			msg(change.BuyerID, notification.TypeRefund, "Order cancelled",
				fmt.Sprintf("Order %s was cancelled. Any payment of %d will be refunded.", short, change.Total)),
			msg(change.SellerID, notification.TypeOrderCancelled, "Order cancelled",
				fmt.Sprintf("Order %s was cancelled.", short)))
		if change.CourierID != nil {
			out = append(out,
				msg(*change.CourierID, notification.TypeOrderCancelled, "Order cancelled",
					fmt.Sprintf("Order %s was cancelled. No pickup or delivery is needed.", short)))
		}
	}

	return out
}

// PlanSettlement tells an account owner that pending earnings became available.
func (p NotificationPlanner) PlanSettlement(s wallet.SettledAccount) notification.Message {
	return notification.Message{
		RecipientID: s.AccountID,
		Type:        notification.TypePayoutAvailable,
		Title:       "Payout available",
		Body:        fmt.Sprintf("%d from %d earning(s) is now available for withdrawal.", s.Amount, s.Entries),
		EventKey:    fmt.Sprintf("settlement:%s:%d", s.AccountID, s.SettledAt.UnixNano()),
	}
}

// PlanAdjustment tells an account owner about a manual posting or withdrawal.
func (p NotificationPlanner) PlanAdjustment(e *wallet.Entry) notification.Message {
	title := "Wallet credited"
	if e.IsDebit() {
		title = "Wallet debited"
	}
	return notification.Message{
		RecipientID: e.AccountID(),
		Type:        notification.TypeWalletAdjusted,
		Title:       title,
		Body:        fmt.Sprintf("%s of %d: %s", e.Type(), e.Amount(), e.Description()),
		OrderID:     e.OrderID(),
		EventKey:    "entry:" + e.ID().String(),
	}
}
