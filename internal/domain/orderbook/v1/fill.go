package orderbookv1

// Fill records a single match. The maker is the resting order, the taker
// is the incoming aggressor; the trade prints at the maker's price.
type Fill struct {
	MakerOrderID OrderID   `json:"makerOrderID"`
	TakerOrderID OrderID   `json:"takerOrderID"`
	Quantity     uint32    `json:"quantity"`
	PriceTick    PriceTick `json:"priceTick"`
	Timestamp    int64     `json:"timestamp"` // nanoseconds
}

// Price returns the trade price in quote units.
func (f Fill) Price() float64 {
	return f.PriceTick.Float()
}

// FillHandler observes fills as they are generated. It is invoked
// synchronously while the book's lock is held: handlers must not block and
// must not call back into the book.
type FillHandler func(Fill)

// LevelInfo is one row of a depth snapshot.
type LevelInfo struct {
	PriceTick     PriceTick `json:"priceTick"`
	TotalQuantity uint64    `json:"totalQuantity"`
	OrderCount    uint32    `json:"orderCount"`
}

// Stats holds the book's operation counters. OrdersProcessed and
// FillsGenerated are monotonic between resets; LastProcessingTimeNs is a
// gauge holding the latency of the most recent submission.
type Stats struct {
	OrdersProcessed      uint64 `json:"ordersProcessed"`
	FillsGenerated       uint64 `json:"fillsGenerated"`
	LastProcessingTimeNs uint64 `json:"lastProcessingTimeNs"`
}
