// Package orderbook implements a price-time-priority limit order book for
// a single instrument.
//
// The book is guarded by one mutex; every public operation is fully
// serialized. Best-price hints and the stats counters are atomics and may
// be read without the lock, but they are advisory: authoritative values
// always come from the level indexes under the lock.
package orderbook

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/btree"

	orderbookv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/orderbook/v1"
)

// Book is a price-time-priority order book for one instrument.
type Book struct {
	mu     sync.Mutex
	bids   *btree.BTreeG[*level] // best bid is the largest key
	asks   *btree.BTreeG[*level] // best ask is the smallest key
	orders map[orderbookv1.OrderID]*orderbookv1.Order

	fillHandler orderbookv1.FillHandler
	now         func() int64

	// Advisory values, readable without the lock. The hints are only ever
	// tightened on rest, never relaxed on cancel, so they are optimistic
	// bounds on the true best prices.
	orderCount  atomic.Int64
	bestBidTick atomic.Int64
	bestAskTick atomic.Int64

	ordersProcessed      atomic.Uint64
	fillsGenerated       atomic.Uint64
	lastProcessingTimeNs atomic.Uint64
}

// Option configures a Book.
type Option func(*Book)

// WithClock replaces the nanosecond clock used for order and fill
// timestamps. The default is time.Now().UnixNano().
func WithClock(now func() int64) Option {
	return func(b *Book) {
		b.now = now
	}
}

// New creates an empty book. maxOrders is a capacity hint for the order
// registry only.
func New(maxOrders int, opts ...Option) *Book {
	if maxOrders < 0 {
		maxOrders = 0
	}
	b := &Book{
		bids:   btree.NewG(priceLevelDegree, lessByTick),
		asks:   btree.NewG(priceLevelDegree, lessByTick),
		orders: make(map[orderbookv1.OrderID]*orderbookv1.Order, maxOrders),
		now:    func() int64 { return time.Now().UnixNano() },
	}
	b.bestBidTick.Store(math.MinInt64)
	b.bestAskTick.Store(math.MaxInt64)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetFillHandler installs the single fill observer; replacement is
// permitted, nil removes it. The handler runs synchronously under the
// book's lock and must not block or call back into the book.
func (b *Book) SetFillHandler(handler orderbookv1.FillHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fillHandler = handler
}

// sideTree returns the level index holding orders of the given side.
func (b *Book) sideTree(side orderbookv1.Side) *btree.BTreeG[*level] {
	if side == orderbookv1.SideBuy {
		return b.bids
	}
	return b.asks
}

// rest places the unmatched remainder on the order's own side. The resting
// timestamp is the moment of resting, not submission, so time priority and
// snapshots reflect true queue arrival.
func (b *Book) rest(order *orderbookv1.Order, remaining uint32) {
	resting := *order
	resting.Quantity = remaining
	resting.Timestamp = b.now()

	rec := &resting
	b.orders[rec.ID] = rec

	tree := b.sideTree(rec.Side)
	lv, ok := tree.Get(&level{tick: rec.PriceTick})
	if !ok {
		lv = &level{tick: rec.PriceTick}
		tree.ReplaceOrInsert(lv)
	}
	lv.enqueue(rec)

	b.orderCount.Add(1)
	b.tightenHint(rec.Side, rec.PriceTick)
}

// tightenHint monotonically advances the best-price hint: bids only move
// up, asks only move down.
func (b *Book) tightenHint(side orderbookv1.Side, tick orderbookv1.PriceTick) {
	if side == orderbookv1.SideBuy {
		for {
			current := b.bestBidTick.Load()
			if int64(tick) <= current || b.bestBidTick.CompareAndSwap(current, int64(tick)) {
				return
			}
		}
	}
	for {
		current := b.bestAskTick.Load()
		if int64(tick) >= current || b.bestAskTick.CompareAndSwap(current, int64(tick)) {
			return
		}
	}
}

// Cancel removes a resting order. It returns false iff the id is unknown.
func (b *Book) Cancel(orderID orderbookv1.OrderID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancelLocked(orderID)
}

func (b *Book) cancelLocked(orderID orderbookv1.OrderID) bool {
	order, ok := b.orders[orderID]
	if !ok {
		return false
	}

	tree := b.sideTree(order.Side)
	if lv, found := tree.Get(&level{tick: order.PriceTick}); found {
		lv.remove(orderID)
		if lv.empty() {
			tree.Delete(lv)
		}
	}

	delete(b.orders, orderID)
	b.orderCount.Add(-1)
	return true
}

// Modify re-prices and re-sizes a resting order as cancel-then-submit,
// preserving side, owner, type and time in force. The modified order is
// re-queued and loses time priority. Returns the fills generated by the
// resubmission, or nil if the id is unknown.
//
// The lock is released between the lookup and the cancel+resubmit. If the
// order is cancelled concurrently in that window the modify completes as a
// plain submit of the new parameters.
func (b *Book) Modify(orderID orderbookv1.OrderID, newPrice orderbookv1.PriceTick, newQty uint32) []orderbookv1.Fill {
	b.mu.Lock()
	original, ok := b.orders[orderID]
	var replacement orderbookv1.Order
	if ok {
		replacement = *original
	}
	b.mu.Unlock()

	if !ok {
		return nil
	}

	b.Cancel(orderID)

	replacement.PriceTick = newPrice
	replacement.Quantity = newQty
	fills, _ := b.Submit(&replacement)
	return fills
}

// CancelAll removes every resting order on one side. The id set is
// snapshotted first so cancellation never mutates what is being iterated.
func (b *Book) CancelAll(side orderbookv1.Side) {
	b.mu.Lock()
	toCancel := make([]orderbookv1.OrderID, 0, len(b.orders))
	for id, order := range b.orders {
		if order.Side == side {
			toCancel = append(toCancel, id)
		}
	}
	b.mu.Unlock()

	for _, id := range toCancel {
		b.Cancel(id)
	}
}

// BestBid returns the highest bid in quote units, or -1 if the bid side is
// empty.
func (b *Book) BestBid() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	lv, ok := b.bids.Max()
	if !ok {
		return -1.0
	}
	return lv.tick.Float()
}

// BestAsk returns the lowest ask in quote units, or -1 if the ask side is
// empty.
func (b *Book) BestAsk() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	lv, ok := b.asks.Min()
	if !ok {
		return -1.0
	}
	return lv.tick.Float()
}

// TopLevels returns up to depth levels from the top of the given side,
// best price first.
func (b *Book) TopLevels(side orderbookv1.Side, depth int) []orderbookv1.LevelInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	if depth <= 0 {
		return nil
	}
	result := make([]orderbookv1.LevelInfo, 0, depth)
	collect := func(lv *level) bool {
		result = append(result, lv.info())
		return len(result) < depth
	}
	if side == orderbookv1.SideBuy {
		b.bids.Descend(collect)
	} else {
		b.asks.Ascend(collect)
	}
	return result
}

// TotalVolume sums the resting quantity on one side.
func (b *Book) TotalVolume(side orderbookv1.Side) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var total uint64
	b.sideTree(side).Ascend(func(lv *level) bool {
		total += lv.totalQuantity()
		return true
	})
	return total
}

// WeightedMidPrice returns the volume-weighted mid using best-level
// volumes: (bid*askVol + ask*bidVol) / (bidVol + askVol). Returns -1 if
// either side is empty.
func (b *Book) WeightedMidPrice() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	bestBid, okBid := b.bids.Max()
	bestAsk, okAsk := b.asks.Min()
	if !okBid || !okAsk {
		return -1.0
	}

	bid := bestBid.tick.Float()
	ask := bestAsk.tick.Float()
	bidVol := bestBid.totalQuantity()
	askVol := bestAsk.totalQuantity()

	if bidVol+askVol == 0 {
		return (bid + ask) / 2.0
	}
	return (bid*float64(askVol) + ask*float64(bidVol)) / float64(bidVol+askVol)
}

// OrderCount returns the number of resting orders. Lock-free.
func (b *Book) OrderCount() uint64 {
	n := b.orderCount.Load()
	if n < 0 {
		return 0
	}
	return uint64(n)
}

// BestBidHint returns the advisory best bid tick without taking the lock.
// The hint is an optimistic upper bound: it is tightened on rest but never
// relaxed on cancel. ok is false before any bid has rested.
func (b *Book) BestBidHint() (orderbookv1.PriceTick, bool) {
	tick := b.bestBidTick.Load()
	if tick == math.MinInt64 {
		return 0, false
	}
	return orderbookv1.PriceTick(tick), true
}

// BestAskHint returns the advisory best ask tick without taking the lock.
// The hint is an optimistic lower bound. ok is false before any ask has
// rested.
func (b *Book) BestAskHint() (orderbookv1.PriceTick, bool) {
	tick := b.bestAskTick.Load()
	if tick == math.MaxInt64 {
		return 0, false
	}
	return orderbookv1.PriceTick(tick), true
}

// Stats returns the operation counters. Lock-free.
func (b *Book) Stats() orderbookv1.Stats {
	return orderbookv1.Stats{
		OrdersProcessed:      b.ordersProcessed.Load(),
		FillsGenerated:       b.fillsGenerated.Load(),
		LastProcessingTimeNs: b.lastProcessingTimeNs.Load(),
	}
}

// ResetStats zeroes the operation counters. The order count and price
// hints are not stats and are unaffected.
func (b *Book) ResetStats() {
	b.ordersProcessed.Store(0)
	b.fillsGenerated.Store(0)
	b.lastProcessingTimeNs.Store(0)
}
