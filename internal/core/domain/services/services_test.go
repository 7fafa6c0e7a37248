package services_test

import (
	"testing"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

type parties struct {
	buyer, seller, courier kernel.UUID
}

func newParties() parties {
	return parties{buyer: kernel.NewUUID(), seller: kernel.NewUUID(), courier: kernel.NewUUID()}
}

// orderIn builds a 3 x 14000 + 10000 order and walks it to status.
func orderIn(t *testing.T, p parties, status order.Status) *order.Order {
	t.Helper()
	return orderWith(t, p, status, 14000, 10000)
}

func orderWith(t *testing.T, p parties, status order.Status, unitPrice, fee kernel.Money) *order.Order {
	t.Helper()
	item, err := order.NewLineItem("sku-1", "Keripik", 3, unitPrice)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), order.Draft{
		BuyerID:         p.buyer,
		SellerID:        p.seller,
		Items:           []order.LineItem{item},
		DeliveryFee:     fee,
		DeliveryAddress: "Jl. Merdeka 1",
		PaymentMethod:   order.PaymentTransfer,
	}, now)
	require.NoError(t, err)

	steps := []struct {
		role   order.Role
		actor  kernel.UUID
		target order.Status
	}{
		{order.RoleSeller, p.seller, order.Ready},
		{order.RoleCourier, p.courier, order.Pickup},
		{order.RoleCourier, p.courier, order.Delivered},
		{order.RoleBuyer, p.buyer, order.Completed},
	}
	for _, step := range steps {
		if o.Status() == status {
			break
		}
		_, err = o.Transition(order.TransitionRequest{Role: step.role, Actor: step.actor, Target: step.target, At: now})
		require.NoError(t, err)
	}
	require.Equal(t, status, o.Status())
	return o
}
