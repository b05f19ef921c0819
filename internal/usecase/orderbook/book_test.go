package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/orderbook/v1"
)

func TestNew(t *testing.T) {
	b := New(1024)

	assert.Equal(t, uint64(0), b.OrderCount())
	assert.Equal(t, -1.0, b.BestBid())
	assert.Equal(t, -1.0, b.BestAsk())
	assert.Equal(t, -1.0, b.WeightedMidPrice())

	_, ok := b.BestBidHint()
	assert.False(t, ok)
	_, ok = b.BestAskHint()
	assert.False(t, ok)

	// A negative capacity hint is tolerated.
	assert.NotNil(t, New(-1))
}

func TestBook_CancelRoundTrip(t *testing.T) {
	b := newTestBook()

	mustRest(t, b, createTestOrder(1, orderbookv1.SideBuy, 10000, 5, orderbookv1.TIFGTC, 1))
	require.Equal(t, uint64(1), b.OrderCount())

	assert.True(t, b.Cancel(1))

	// Registry empty and the sole-occupant level removed.
	assert.Equal(t, uint64(0), b.OrderCount())
	assert.Equal(t, -1.0, b.BestBid())
	assert.False(t, b.Cancel(1), "second cancel must miss")

	checkInvariants(t, b)
}

func TestBook_CancelUnknownID(t *testing.T) {
	b := newTestBook()
	assert.False(t, b.Cancel(42))
}

func TestBook_CancelKeepsLevelWithRemainingOrders(t *testing.T) {
	b := newTestBook()

	mustRest(t, b, createTestOrder(1, orderbookv1.SideSell, 10000, 5, orderbookv1.TIFGTC, 1))
	mustRest(t, b, createTestOrder(2, orderbookv1.SideSell, 10000, 3, orderbookv1.TIFGTC, 2))

	require.True(t, b.Cancel(1))

	assert.Equal(t, uint64(1), b.OrderCount())
	assert.Equal(t, 100.0, b.BestAsk())
	assert.Equal(t, uint64(3), b.TotalVolume(orderbookv1.SideSell))

	checkInvariants(t, b)
}

func TestBook_CancelAll(t *testing.T) {
	b := newTestBook()

	mustRest(t, b, createTestOrder(1, orderbookv1.SideBuy, 10000, 5, orderbookv1.TIFGTC, 1))
	mustRest(t, b, createTestOrder(2, orderbookv1.SideBuy, 9900, 5, orderbookv1.TIFGTC, 2))
	mustRest(t, b, createTestOrder(3, orderbookv1.SideSell, 10100, 5, orderbookv1.TIFGTC, 3))

	b.CancelAll(orderbookv1.SideBuy)

	// Bid side empty, ask side untouched.
	assert.Equal(t, uint64(0), b.TotalVolume(orderbookv1.SideBuy))
	assert.Equal(t, -1.0, b.BestBid())
	assert.Equal(t, uint64(5), b.TotalVolume(orderbookv1.SideSell))
	assert.Equal(t, uint64(1), b.OrderCount())

	checkInvariants(t, b)
}

func TestBook_ModifyUnknownID(t *testing.T) {
	b := newTestBook()
	assert.Empty(t, b.Modify(42, 10000, 5))
}

// A non-marketable modify equals cancel followed by submit of the new
// parameters.
func TestBook_ModifyEqualsCancelSubmit(t *testing.T) {
	b := newTestBook()

	mustRest(t, b, createTestOrder(1, orderbookv1.SideBuy, 10000, 5, orderbookv1.TIFGTC, 1))

	fills := b.Modify(1, 9800, 3)
	assert.Empty(t, fills)

	assert.Equal(t, 98.0, b.BestBid())
	assert.Equal(t, uint64(3), b.TotalVolume(orderbookv1.SideBuy))
	assert.Equal(t, uint64(1), b.OrderCount())

	checkInvariants(t, b)
}

// A modify onto a marketable price executes immediately.
func TestBook_ModifyMarketable(t *testing.T) {
	b := newTestBook()

	mustRest(t, b, createTestOrder(1, orderbookv1.SideBuy, 9900, 5, orderbookv1.TIFGTC, 1))
	mustRest(t, b, createTestOrder(2, orderbookv1.SideSell, 10000, 5, orderbookv1.TIFGTC, 2))

	fills := b.Modify(1, 10000, 5)
	require.Len(t, fills, 1)
	assert.Equal(t, orderbookv1.OrderID(2), fills[0].MakerOrderID)
	assert.Equal(t, orderbookv1.OrderID(1), fills[0].TakerOrderID)
	assert.Equal(t, uint32(5), fills[0].Quantity)

	assert.Equal(t, uint64(0), b.OrderCount())
	checkInvariants(t, b)
}

func TestBook_TopLevels(t *testing.T) {
	b := newTestBook()

	mustRest(t, b, createTestOrder(1, orderbookv1.SideBuy, 10000, 5, orderbookv1.TIFGTC, 1))
	mustRest(t, b, createTestOrder(2, orderbookv1.SideBuy, 10000, 2, orderbookv1.TIFGTC, 2))
	mustRest(t, b, createTestOrder(3, orderbookv1.SideBuy, 9900, 4, orderbookv1.TIFGTC, 3))
	mustRest(t, b, createTestOrder(4, orderbookv1.SideBuy, 9800, 1, orderbookv1.TIFGTC, 4))
	mustRest(t, b, createTestOrder(5, orderbookv1.SideSell, 10100, 3, orderbookv1.TIFGTC, 5))

	levels := b.TopLevels(orderbookv1.SideBuy, 2)
	require.Len(t, levels, 2)

	assert.Equal(t, orderbookv1.PriceTick(10000), levels[0].PriceTick)
	assert.Equal(t, uint64(7), levels[0].TotalQuantity)
	assert.Equal(t, uint32(2), levels[0].OrderCount)

	assert.Equal(t, orderbookv1.PriceTick(9900), levels[1].PriceTick)
	assert.Equal(t, uint64(4), levels[1].TotalQuantity)
	assert.Equal(t, uint32(1), levels[1].OrderCount)

	asks := b.TopLevels(orderbookv1.SideSell, 10)
	require.Len(t, asks, 1)
	assert.Equal(t, orderbookv1.PriceTick(10100), asks[0].PriceTick)

	assert.Empty(t, b.TopLevels(orderbookv1.SideBuy, 0))
}

func TestBook_WeightedMidPrice(t *testing.T) {
	b := newTestBook()

	assert.Equal(t, -1.0, b.WeightedMidPrice())

	mustRest(t, b, createTestOrder(1, orderbookv1.SideBuy, 10000, 2, orderbookv1.TIFGTC, 1))
	assert.Equal(t, -1.0, b.WeightedMidPrice(), "one-sided book has no mid")

	mustRest(t, b, createTestOrder(2, orderbookv1.SideSell, 10200, 6, orderbookv1.TIFGTC, 2))

	// (100*6 + 102*2) / (2+6) = 100.5
	assert.InDelta(t, 100.5, b.WeightedMidPrice(), 1e-9)
}

// Hints tighten monotonically on rest and are never relaxed on cancel:
// they are optimistic bounds, not authoritative prices.
func TestBook_BestPriceHints(t *testing.T) {
	b := newTestBook()

	mustRest(t, b, createTestOrder(1, orderbookv1.SideBuy, 9900, 1, orderbookv1.TIFGTC, 1))
	hint, ok := b.BestBidHint()
	require.True(t, ok)
	assert.Equal(t, orderbookv1.PriceTick(9900), hint)

	mustRest(t, b, createTestOrder(2, orderbookv1.SideBuy, 10000, 1, orderbookv1.TIFGTC, 1))
	hint, _ = b.BestBidHint()
	assert.Equal(t, orderbookv1.PriceTick(10000), hint)

	// A worse bid does not loosen the hint.
	mustRest(t, b, createTestOrder(3, orderbookv1.SideBuy, 9800, 1, orderbookv1.TIFGTC, 1))
	hint, _ = b.BestBidHint()
	assert.Equal(t, orderbookv1.PriceTick(10000), hint)

	// Neither does cancelling the best bid; only the locked read moves.
	require.True(t, b.Cancel(2))
	hint, _ = b.BestBidHint()
	assert.Equal(t, orderbookv1.PriceTick(10000), hint)
	assert.Equal(t, 99.0, b.BestBid())

	mustRest(t, b, createTestOrder(4, orderbookv1.SideSell, 10300, 1, orderbookv1.TIFGTC, 2))
	mustRest(t, b, createTestOrder(5, orderbookv1.SideSell, 10200, 1, orderbookv1.TIFGTC, 2))
	askHint, ok := b.BestAskHint()
	require.True(t, ok)
	assert.Equal(t, orderbookv1.PriceTick(10200), askHint)
}

// Resting timestamps are assigned at rest time, so later-rested orders
// always carry later timestamps regardless of submission order.
func TestBook_RestingTimestamps(t *testing.T) {
	b := newTestBook()

	mustRest(t, b, createTestOrder(1, orderbookv1.SideBuy, 10000, 1, orderbookv1.TIFGTC, 1))
	mustRest(t, b, createTestOrder(2, orderbookv1.SideBuy, 10000, 1, orderbookv1.TIFGTC, 2))

	b.mu.Lock()
	first := b.orders[1].Timestamp
	second := b.orders[2].Timestamp
	b.mu.Unlock()

	assert.Less(t, first, second)
}
