package orderreaderv1

import (
	"fmt"

	orderbookv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/orderbook/v1"
)

// Action is the operation an OrderRequest asks the engine to perform.
type Action string

const (
	// ActionPlace submits a new order.
	ActionPlace Action = "place"
	// ActionCancel cancels a resting order by id.
	ActionCancel Action = "cancel"
	// ActionCancelAll cancels every resting order on one side.
	ActionCancelAll Action = "cancel_all"
	// ActionModify re-prices and re-sizes a resting order.
	ActionModify Action = "modify"
)

// OrderRequest is the wire payload consumed from the order topic.
type OrderRequest struct {
	RequestID     string `json:"requestID"`
	Action        Action `json:"action"`
	OrderID       uint64 `json:"orderID"`
	OwnerID       uint32 `json:"ownerID"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	TIF           string `json:"tif"`
	PriceTicks    int64  `json:"priceTicks"`
	Quantity      uint32 `json:"quantity"`
	NewPriceTicks int64  `json:"newPriceTicks,omitempty"`
	NewQuantity   uint32 `json:"newQuantity,omitempty"`
	Offset        int64  `json:"-"` // stream offset, set by the reader
}

// Order converts a place request into a book order. Market orders are
// mapped to the extreme marketable tick for their side; the book treats
// order type uniformly through price comparison. An empty tif defaults to
// GTC.
func (r *OrderRequest) Order() (*orderbookv1.Order, error) {
	side, err := orderbookv1.ParseSide(r.Side)
	if err != nil {
		return nil, err
	}

	orderType := orderbookv1.OrderType(r.Type)
	if orderType == "" {
		orderType = orderbookv1.OrderTypeLimit
	}
	if orderType != orderbookv1.OrderTypeLimit && orderType != orderbookv1.OrderTypeMarket {
		return nil, fmt.Errorf("unknown order type %q", r.Type)
	}

	tif := orderbookv1.TimeInForce(r.TIF)
	if tif == "" {
		tif = orderbookv1.TIFGTC
	}

	tick := orderbookv1.PriceTick(r.PriceTicks)
	if orderType == orderbookv1.OrderTypeMarket {
		if side == orderbookv1.SideBuy {
			tick = orderbookv1.MarketBuyTick
		} else {
			tick = orderbookv1.MarketSellTick
		}
	}

	return &orderbookv1.Order{
		ID:        orderbookv1.OrderID(r.OrderID),
		Side:      side,
		PriceTick: tick,
		Quantity:  r.Quantity,
		Type:      orderType,
		TIF:       tif,
		OwnerID:   orderbookv1.OwnerID(r.OwnerID),
	}, nil
}
