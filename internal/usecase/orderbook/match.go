package orderbook

import (
	orderbookv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/orderbook/v1"
)

// Submit matches an incoming order against the contra side and returns the
// fills it generated, in price-then-time priority order.
//
// Validation failures and ErrFOKNotFillable leave the book untouched. For
// GTC and GFD orders any unmatched remainder rests; IOC and FOK remainders
// are discarded. Market orders are submitted as limits at
// MarketBuyTick / MarketSellTick and need no special handling here.
func (b *Book) Submit(order *orderbookv1.Order) ([]orderbookv1.Fill, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.orders[order.ID]; exists {
		return nil, orderbookv1.ErrDuplicateOrder
	}

	start := b.now()

	if order.TIF == orderbookv1.TIFFOK && !b.canFullyFill(order) {
		return nil, orderbookv1.ErrFOKNotFillable
	}

	remaining := order.Quantity
	fills := b.matchLoop(order, &remaining)

	if remaining > 0 && order.TIF.Rests() {
		b.rest(order, remaining)
	}

	b.ordersProcessed.Add(1)
	b.lastProcessingTimeNs.Store(uint64(b.now() - start))

	return fills, nil
}

// marketable reports whether a contra level at tick crosses the taker's
// limit.
func marketable(taker *orderbookv1.Order, tick orderbookv1.PriceTick) bool {
	if taker.Side == orderbookv1.SideBuy {
		return tick <= taker.PriceTick
	}
	return tick >= taker.PriceTick
}

// bestContra returns the top contra level: the cheapest ask for a buy, the
// highest bid for a sell.
func (b *Book) bestContra(taker *orderbookv1.Order) (*level, bool) {
	if taker.Side == orderbookv1.SideBuy {
		return b.asks.Min()
	}
	return b.bids.Max()
}

// matchLoop walks the contra side in priority order and fills against each
// marketable level's FIFO. Exhausted orders are retired from the registry
// and exhausted levels erased from the index. Encountering the taker's own
// resting order terminates matching entirely: self-match prevention blocks
// the order rather than skipping own liquidity.
//
// The top level is re-fetched after each erase, so the level index is
// never mutated mid-iteration.
func (b *Book) matchLoop(taker *orderbookv1.Order, remaining *uint32) []orderbookv1.Fill {
	var fills []orderbookv1.Fill
	contra := b.sideTree(taker.Side.Opposite())

	for *remaining > 0 {
		lv, ok := b.bestContra(taker)
		if !ok || !marketable(taker, lv.tick) {
			break
		}

		blocked := false
		for *remaining > 0 && !lv.empty() {
			maker := lv.orders[0]

			if maker.OwnerID == taker.OwnerID {
				blocked = true
				break
			}

			fillQty := min(*remaining, maker.Quantity)
			fill := orderbookv1.Fill{
				MakerOrderID: maker.ID,
				TakerOrderID: taker.ID,
				Quantity:     fillQty,
				PriceTick:    lv.tick,
				Timestamp:    b.now(),
			}
			fills = append(fills, fill)
			if b.fillHandler != nil {
				b.fillHandler(fill)
			}

			maker.Quantity -= fillQty
			*remaining -= fillQty
			b.fillsGenerated.Add(1)

			if maker.Quantity == 0 {
				delete(b.orders, maker.ID)
				b.orderCount.Add(-1)
				lv.popFront()
			}
		}

		if lv.empty() {
			contra.Delete(lv)
		}
		if blocked {
			break
		}
	}

	return fills
}

// canFullyFill is the FOK pre-check: it sums contra liquidity marketable
// to the order, skipping the owner's own resting orders, and reports
// whether the order's full quantity is crossable. Read-only.
func (b *Book) canFullyFill(order *orderbookv1.Order) bool {
	needed := order.Quantity

	walk := func(lv *level) bool {
		if !marketable(order, lv.tick) {
			return false
		}
		for _, resting := range lv.orders {
			if resting.OwnerID == order.OwnerID {
				continue
			}
			if resting.Quantity >= needed {
				needed = 0
				return false
			}
			needed -= resting.Quantity
		}
		return true
	}

	if order.Side == orderbookv1.SideBuy {
		b.asks.Ascend(walk)
	} else {
		b.bids.Descend(walk)
	}

	return needed == 0
}
