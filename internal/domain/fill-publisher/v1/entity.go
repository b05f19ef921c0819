package fillpublisherv1

import (
	"encoding/json"

	"github.com/oklog/ulid/v2"

	orderbookv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/orderbook/v1"
)

// FillEvent is the wire payload published for each fill.
type FillEvent struct {
	EventID      string  `json:"eventID"`
	Pair         string  `json:"pair"`
	MakerOrderID uint64  `json:"makerOrderID"`
	TakerOrderID uint64  `json:"takerOrderID"`
	Quantity     uint32  `json:"quantity"`
	PriceTicks   int64   `json:"priceTicks"`
	Price        float64 `json:"price"`
	Timestamp    int64   `json:"timestamp"` // nanoseconds
}

// FromFill creates a fill event for the given instrument pair.
func FromFill(pair string, fill orderbookv1.Fill) *FillEvent {
	return &FillEvent{
		EventID:      ulid.Make().String(),
		Pair:         pair,
		MakerOrderID: uint64(fill.MakerOrderID),
		TakerOrderID: uint64(fill.TakerOrderID),
		Quantity:     fill.Quantity,
		PriceTicks:   int64(fill.PriceTick),
		Price:        fill.Price(),
		Timestamp:    fill.Timestamp,
	}
}

// ToBytes converts the fill event to a byte array.
func ToBytes(event *FillEvent) []byte {
	buf, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	return buf
}

// FromBytes converts a byte array to a fill event.
func FromBytes(data []byte) *FillEvent {
	var event FillEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	return &event
}
