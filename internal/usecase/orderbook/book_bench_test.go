package orderbook

import (
	"testing"

	orderbookv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/orderbook/v1"
)

func BenchmarkBook_SubmitRest(b *testing.B) {
	book := New(b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		order := createBenchOrder(uint64(i), orderbookv1.SideBuy, int64(10000+i%100), 10)
		_, _ = book.Submit(order)
	}
}

func BenchmarkBook_SubmitMatch(b *testing.B) {
	book := New(b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := orderbookv1.SideBuy
		if i%2 == 1 {
			side = orderbookv1.SideSell
		}
		// Alternating sides at one price keeps the book shallow and the
		// matcher hot.
		order := createBenchOrder(uint64(i), side, 10000, 10)
		_, _ = book.Submit(order)
	}
}

func BenchmarkBook_Cancel(b *testing.B) {
	book := New(b.N)
	for i := 0; i < b.N; i++ {
		order := createBenchOrder(uint64(i), orderbookv1.SideBuy, int64(10000+i%1000), 10)
		_, _ = book.Submit(order)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.Cancel(orderbookv1.OrderID(uint64(i)))
	}
}

func BenchmarkBook_TopLevels(b *testing.B) {
	book := New(10_000)
	for i := 0; i < 10_000; i++ {
		order := createBenchOrder(uint64(i), orderbookv1.SideBuy, int64(10000+i%500), 10)
		_, _ = book.Submit(order)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = book.TopLevels(orderbookv1.SideBuy, 10)
	}
}

func createBenchOrder(id uint64, side orderbookv1.Side, tick int64, qty uint32) *orderbookv1.Order {
	return &orderbookv1.Order{
		ID:        orderbookv1.OrderID(id),
		Side:      side,
		PriceTick: orderbookv1.PriceTick(tick),
		Quantity:  qty,
		Type:      orderbookv1.OrderTypeLimit,
		TIF:       orderbookv1.TIFGTC,
		OwnerID:   orderbookv1.OwnerID(id % 64),
	}
}
