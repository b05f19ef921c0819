package orderbook

import (
	orderbookv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/orderbook/v1"
)

// priceLevelDegree is the btree branching factor for the per-side level
// indexes.
const priceLevelDegree = 32

// level is one price level: a FIFO of resting orders sharing a tick. The
// queue holds the same *Order records as the book registry, so quantity
// mutations are visible through both.
type level struct {
	tick   orderbookv1.PriceTick
	orders []*orderbookv1.Order
}

func lessByTick(a, b *level) bool {
	return a.tick < b.tick
}

// enqueue appends an order at the tail, behind all earlier arrivals.
func (l *level) enqueue(o *orderbookv1.Order) {
	l.orders = append(l.orders, o)
}

// popFront removes the queue head.
func (l *level) popFront() {
	l.orders[0] = nil
	l.orders = l.orders[1:]
}

// remove deletes the order with the given id, preserving queue order.
// Returns false if the id is not queued at this level.
func (l *level) remove(id orderbookv1.OrderID) bool {
	for i, o := range l.orders {
		if o.ID == id {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return true
		}
	}
	return false
}

func (l *level) empty() bool {
	return len(l.orders) == 0
}

// totalQuantity sums the resting quantity at this level.
func (l *level) totalQuantity() uint64 {
	var total uint64
	for _, o := range l.orders {
		total += uint64(o.Quantity)
	}
	return total
}

func (l *level) info() orderbookv1.LevelInfo {
	return orderbookv1.LevelInfo{
		PriceTick:     l.tick,
		TotalQuantity: l.totalQuantity(),
		OrderCount:    uint32(len(l.orders)),
	}
}
