// Command order-producer generates a stream of synthetic order requests
// and writes them to the matching engine's order topic. Intended for load
// and smoke testing against a local broker.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/order-reader/v1"
)

// generateRequests creates count synthetic order requests around basePrice.
// Roughly 70% limit, 20% market, 10% cancels of earlier ids; GTC/IOC/FOK
// mixed on the placed orders.
func generateRequests(count int, basePriceTicks, spreadTicks int64) []orderreaderv1.OrderRequest {
	requests := make([]orderreaderv1.OrderRequest, 0, count)
	tifs := []string{"GTC", "GTC", "GTC", "IOC", "FOK"}

	var placed []uint64
	nextID := uint64(1)

	for i := 0; i < count; i++ {
		roll := rand.Float64()

		if roll < 0.1 && len(placed) > 0 {
			victim := placed[rand.Intn(len(placed))]
			requests = append(requests, orderreaderv1.OrderRequest{
				Action:  orderreaderv1.ActionCancel,
				OrderID: victim,
			})
			continue
		}

		side := "buy"
		if rand.Float64() < 0.5 {
			side = "sell"
		}

		orderType := "limit"
		if roll >= 0.8 {
			orderType = "market"
		}

		var priceTicks int64
		if orderType == "limit" {
			offset := rand.Int63n(spreadTicks + 1)
			if side == "buy" {
				priceTicks = basePriceTicks - offset
			} else {
				priceTicks = basePriceTicks + offset
			}
		}

		request := orderreaderv1.OrderRequest{
			Action:     orderreaderv1.ActionPlace,
			OrderID:    nextID,
			OwnerID:    uint32(rand.Intn(32) + 1),
			Side:       side,
			Type:       orderType,
			TIF:        tifs[rand.Intn(len(tifs))],
			PriceTicks: priceTicks,
			Quantity:   uint32(rand.Intn(100) + 1),
		}
		if orderType == "limit" && request.TIF == "GTC" {
			placed = append(placed, nextID)
		}
		nextID++

		requests = append(requests, request)
	}

	return requests
}

func main() {
	var (
		brokers = flag.String("brokers", "localhost:9092", "Kafka broker address")
		topic   = flag.String("topic", "orders", "Kafka topic name")
		file    = flag.String("file", "", "JSON file with order requests (generates requests if not provided)")
		delay   = flag.Duration("delay", 100*time.Millisecond, "Delay between requests")
		count   = flag.Int("count", 1000, "Number of requests to generate")
		base    = flag.Int64("base-price-ticks", 394_550, "Base price in ticks")
		spread  = flag.Int64("spread-ticks", 2_000, "Price spread in ticks")
	)
	flag.Parse()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(*brokers),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	var requests []orderreaderv1.OrderRequest
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read file %s: %v", *file, err)
		}
		if err := json.Unmarshal(data, &requests); err != nil {
			log.Fatalf("Failed to parse JSON from file: %v", err)
		}
		log.Printf("Loaded %d requests from file: %s", len(requests), *file)
	} else {
		requests = generateRequests(*count, *base, *spread)
		log.Printf("Generated %d requests", len(requests))
	}

	log.Printf("Sending requests to broker %s, topic %s, delay %v", *brokers, *topic, *delay)

	sent := 0
	for i, request := range requests {
		value, err := json.Marshal(request)
		if err != nil {
			log.Printf("Failed to marshal request %d: %v", i+1, err)
			continue
		}

		msg := kafka.Message{
			Key:   []byte(request.Side),
			Value: value,
			Time:  time.Now(),
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send request %d: %v", i+1, err)
			continue
		}
		sent++

		if (i+1)%100 == 0 || i == len(requests)-1 {
			log.Printf("Sent %d/%d: action=%s id=%d %s %s qty=%d ticks=%d",
				i+1, len(requests), request.Action, request.OrderID,
				request.Type, request.Side, request.Quantity, request.PriceTicks)
		}

		if i < len(requests)-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Done: sent %d/%d requests", sent, len(requests))
}
