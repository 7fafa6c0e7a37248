package services_test

import (
	"testing"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/domain/services"
	"orderledger/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicy(t *testing.T, sellerPct, courierPct string) services.CommissionPolicy {
	t.Helper()
	policy, err := services.NewCommissionPolicy(
		decimal.RequireFromString(sellerPct),
		decimal.RequireFromString(courierPct),
		7*24*time.Hour,
		kernel.NewUUID(),
	)
	require.NoError(t, err)
	return policy
}

func TestCommissionPolicy_Split(t *testing.T) {
	testCases := []struct {
		name               string
		sellerPct          string
		courierPct         string
		subtotal, fee      kernel.Money
		seller, courierAmt kernel.Money
	}{
		{"default rates", "10", "20", 42000, 10000, 37800, 8000},
		{"no commission", "0", "0", 42000, 10000, 42000, 10000},
		{"fractional commission is rounded down", "2.5", "0", 1010, 1, 985, 1},
		{"near-total commission leaves one unit", "99.9", "99.99", 1, 1, 1, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			split := newPolicy(t, tc.sellerPct, tc.courierPct).Split(tc.subtotal, tc.fee)

			assert.Equal(t, tc.seller, split.SellerEarning)
			assert.Equal(t, tc.courierAmt, split.CourierEarning)
			assert.Zero(t, split.SellerEarning+split.CourierEarning+split.PlatformFee)
		})
	}
}

func TestCommissionPolicy_CompletionEntries(t *testing.T) {
	p := newParties()
	policy := newPolicy(t, "10", "20")

	t.Run("three entries that net to zero", func(t *testing.T) {
		entries, err := policy.CompletionEntries(orderIn(t, p, order.Completed), now)

		require.NoError(t, err)
		require.Len(t, entries, 3)

		var sum kernel.Money
		for _, e := range entries {
			sum += e.Amount()
			require.NotNil(t, e.OrderID())
		}
		assert.Zero(t, sum)

		seller, courier, platform := entries[0], entries[1], entries[2]
		assert.True(t, seller.AccountID().IsEqual(p.seller))
		assert.Equal(t, wallet.TypeEarning, seller.Type())
		assert.Equal(t, kernel.Money(37800), seller.Amount())
		require.NotNil(t, seller.SettlesAt())
		assert.Equal(t, now.Add(7*24*time.Hour), *seller.SettlesAt())

		assert.True(t, courier.AccountID().IsEqual(p.courier))
		assert.Equal(t, kernel.Money(8000), courier.Amount())
		assert.True(t, courier.IsDeferred())

		assert.True(t, platform.AccountID().IsEqual(policy.PlatformAccountID()))
		assert.Equal(t, wallet.TypeFee, platform.Type())
		assert.Equal(t, kernel.Money(-45800), platform.Amount())
		assert.False(t, platform.IsDeferred())
	})

	t.Run("the smallest order still posts three entries", func(t *testing.T) {
		o := orderWith(t, p, order.Completed, 1, 1)
		entries, err := newPolicy(t, "99.9", "99.9").CompletionEntries(o, now)

		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, kernel.Money(1), entries[0].Amount())
		assert.Equal(t, kernel.Money(1), entries[1].Amount())
		assert.Equal(t, kernel.Money(-2), entries[2].Amount())
	})

	t.Run("rejects an order that is not completed", func(t *testing.T) {
		_, err := policy.CompletionEntries(orderIn(t, p, order.Delivered), now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestNewCommissionPolicy_Validation(t *testing.T) {
	_, err := services.NewCommissionPolicy(decimal.NewFromInt(-1), decimal.NewFromInt(101), time.Hour, kernel.UUID{})

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Contains(t, err.Error(), "sellerCommissionPct")
	assert.Contains(t, err.Error(), "courierCommissionPct")
	assert.Contains(t, err.Error(), "UUID must be created")

	_, err = services.NewCommissionPolicy(decimal.NewFromInt(100), decimal.Zero, time.Hour, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = services.NewCommissionPolicy(decimal.Zero, decimal.Zero, -time.Hour, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
