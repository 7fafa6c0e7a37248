package commands_test

import (
	"testing"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var platformID = kernel.MustUUIDFromString("00000000-0000-4000-8000-000000000001")

func testPolicy(t *testing.T) services.CommissionPolicy {
	t.Helper()
	policy, err := services.NewCommissionPolicy(decimal.NewFromInt(10), decimal.NewFromInt(20), 7*24*time.Hour, platformID)
	require.NoError(t, err)
	return policy
}

// orderIn builds the 42,000 + 10,000 order and walks it forward to status.
func orderIn(t *testing.T, status order.Status) (*order.Order, kernel.UUID) {
	t.Helper()
	item1, err := order.NewLineItem("sku-1", "Keripik", 3, 10000)
	require.NoError(t, err)
	item2, err := order.NewLineItem("sku-2", "Sambal", 1, 12000)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), order.Draft{
		BuyerID:         kernel.NewUUID(),
		SellerID:        kernel.NewUUID(),
		Items:           []order.LineItem{item1, item2},
		DeliveryFee:     10000,
		DeliveryAddress: "Jl. Merdeka 1",
		PaymentMethod:   order.PaymentCash,
	}, time.Now())
	require.NoError(t, err)

	courierID := kernel.NewUUID()
	steps := []order.TransitionRequest{
		{Role: order.RoleSeller, Actor: o.SellerID(), Target: order.Ready},
		{Role: order.RoleCourier, Actor: courierID, Target: order.Pickup},
		{Role: order.RoleCourier, Actor: courierID, Target: order.Delivered},
		{Role: order.RoleBuyer, Actor: o.BuyerID(), Target: order.Completed},
	}
	for _, step := range steps {
		if o.Status() == status {
			break
		}
		_, err = o.Transition(step)
		require.NoError(t, err)
	}
	require.Equal(t, status, o.Status())
	return o, courierID
}
