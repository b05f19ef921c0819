package orderbookv1

import (
	"errors"
	"fmt"
	"math"
)

// TickPrecision is the number of price ticks per quote unit. All prices
// inside the book are integer multiples of 1/TickPrecision; conversion to
// floating point happens only on the read path.
const TickPrecision = 100

// PriceTick is a price expressed as a signed integer number of ticks.
type PriceTick int64

// Float converts the tick to a quote-unit price.
func (p PriceTick) Float() float64 {
	return float64(p) / TickPrecision
}

// OrderID identifies an order. IDs are caller-assigned and must be unique
// over the lifetime of the book.
type OrderID uint64

// OwnerID identifies the participant that placed an order. It is used for
// self-match prevention only.
type OwnerID uint32

// Marketable price bounds used to represent market orders as limits.
const (
	// MarketBuyTick crosses every resting ask.
	MarketBuyTick PriceTick = math.MaxInt64
	// MarketSellTick crosses every resting bid.
	MarketSellTick PriceTick = math.MinInt64
)

// Side represents which side of the book an order is on.
type Side uint8

const (
	// SideBuy is the bid side.
	SideBuy Side = iota
	// SideSell is the ask side.
	SideSell
)

// String implements fmt.Stringer.
func (s Side) String() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

// Opposite returns the contra side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// ParseSide parses a wire-level side string.
func ParseSide(s string) (Side, error) {
	switch s {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	default:
		return SideBuy, fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// OrderType represents the type of order.
type OrderType string

const (
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeMarket represents a market order. A market order is carried
	// through the book as a limit at MarketBuyTick / MarketSellTick.
	OrderTypeMarket OrderType = "market"
)

// TimeInForce controls what happens to the unmatched remainder of an order.
type TimeInForce string

const (
	// TIFGTC rests the remainder indefinitely.
	TIFGTC TimeInForce = "GTC"
	// TIFIOC fills what is possible and discards the remainder.
	TIFIOC TimeInForce = "IOC"
	// TIFFOK fills the order completely or not at all.
	TIFFOK TimeInForce = "FOK"
	// TIFGFD rests the remainder until end of session. The book treats it
	// as GTC; session expiry is the caller's concern.
	TIFGFD TimeInForce = "GFD"
)

// Rests reports whether an unmatched remainder is placed on the book.
func (t TimeInForce) Rests() bool {
	return t == TIFGTC || t == TIFGFD
}

// Valid reports whether t is a known time-in-force.
func (t TimeInForce) Valid() bool {
	switch t {
	case TIFGTC, TIFIOC, TIFFOK, TIFGFD:
		return true
	}
	return false
}

// Validation errors surfaced by the book.
var (
	ErrNilOrder        = errors.New("order cannot be nil")
	ErrInvalidQuantity = errors.New("order quantity must be positive")
	ErrInvalidTIF      = errors.New("unknown time in force")
	ErrInvalidSide     = errors.New("unknown side")
	ErrDuplicateOrder  = errors.New("order id already resting")

	// ErrFOKNotFillable reports a fill-or-kill order whose pre-check found
	// insufficient contra liquidity. The order was valid and the book is
	// unchanged.
	ErrFOKNotFillable = errors.New("fok order cannot be fully filled")
)

// Order represents a single order. Resting orders are owned by the book's
// registry; the per-level queues alias the same record.
type Order struct {
	ID        OrderID     `json:"id"`
	Side      Side        `json:"side"`
	PriceTick PriceTick   `json:"priceTick"`
	Quantity  uint32      `json:"quantity"`
	Type      OrderType   `json:"type"`
	TIF       TimeInForce `json:"tif"`
	OwnerID   OwnerID     `json:"ownerID"`
	Timestamp int64       `json:"timestamp"` // nanoseconds; set when the order rests
}

// Validate checks the structural preconditions of submission.
// Any price tick, including negative and extreme values, is legal.
func (o *Order) Validate() error {
	if o == nil {
		return ErrNilOrder
	}
	if o.Quantity == 0 {
		return fmt.Errorf("%w: order %d", ErrInvalidQuantity, o.ID)
	}
	if !o.TIF.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTIF, o.TIF)
	}
	return nil
}

// IsBuy reports whether the order is on the bid side.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}
