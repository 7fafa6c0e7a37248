package kernel_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	t.Run("new UUIDs are valid and unique", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		require.NoError(t, id1.Validate())
		assert.False(t, id1.IsEqual(id2))
		assert.False(t, id1.IsZero())
	})

	t.Run("parses canonical form", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("rejects garbage and nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")

		_, err = kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var id kernel.UUID
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
		assert.True(t, id.IsZero())
	})

	t.Run("round trips through JSON as a string", func(t *testing.T) {
		type payload struct {
			SellerID kernel.UUID `json:"sellerId"`
		}
		in := payload{SellerID: kernel.NewUUID()}

		raw, err := json.Marshal(in)
		require.NoError(t, err)
		assert.Contains(t, string(raw), in.SellerID.String())

		var out payload
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.True(t, in.SellerID.IsEqual(out.SellerID))
	})

	t.Run("bytes round trip", func(t *testing.T) {
		id := kernel.NewUUID()
		raw := id.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])
		require.NoError(t, err)
		assert.True(t, id.IsEqual(restored))
	})
}

func TestMoney(t *testing.T) {
	m, err := kernel.NewPositiveMoney("amount", 52000)
	require.NoError(t, err)
	assert.Equal(t, int64(52000), m.Int64())
	assert.Equal(t, kernel.Money(-52000), m.Neg())
	assert.Equal(t, kernel.Money(52000), kernel.Money(10000).Max(m))

	_, err = kernel.NewPositiveMoney("amount", 0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestAddMoney(t *testing.T) {
	sum, err := kernel.AddMoney("total", 42000, 10000)
	require.NoError(t, err)
	assert.Equal(t, kernel.Money(52000), sum)

	sum, err = kernel.AddMoney("total", math.MaxInt64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, kernel.Money(math.MaxInt64), sum)

	_, err = kernel.AddMoney("subtotal", math.MaxInt64/2+1, math.MaxInt64/2+1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Contains(t, err.Error(), "subtotal")

	_, err = kernel.AddMoney("fee", math.MinInt64, -1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestNewGeoPoint(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("valid point", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(-6.2088, 106.8456, now)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.InDelta(t, -6.2088, p.Latitude(), 1e-9)
		assert.InDelta(t, 106.8456, p.Longitude(), 1e-9)
		assert.Equal(t, now, p.RecordedAt())
	})

	t.Run("collects all errors", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(95, -181, time.Time{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "is latitude")
		assert.Contains(t, err.Error(), "is longitude")
		assert.Contains(t, err.Error(), "recordedAt")
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var p kernel.GeoPoint
		assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, p.Validate())
	})
}
