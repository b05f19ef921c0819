package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	fillpublisherv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/fill-publisher/v1"
	orderreaderv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/order-reader/v1"
	orderbookv1 "github.com/SiddNan/Quant-Orderbook-Project/internal/domain/orderbook/v1"
	"github.com/SiddNan/Quant-Orderbook-Project/internal/usecase/orderbook"
	"github.com/SiddNan/Quant-Orderbook-Project/pkg/config"
	"github.com/SiddNan/Quant-Orderbook-Project/pkg/logger"
)

// Engine drives the order book from the order stream: it reads requests,
// applies them to the book, and publishes the resulting fills.
type Engine struct {
	book          *orderbook.Book
	orderReader   orderreaderv1.OrderReader
	fillPublisher fillpublisherv1.FillPublisher
	logger        *logger.Logger
	config        *config.Config

	mu          sync.RWMutex
	orderOffset int64
	totalFills  int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	statsInterval  time.Duration
	publishTimeout time.Duration
	statsDepth     int
}

// NewEngine creates a new Engine with the provided dependencies.
func NewEngine(
	book *orderbook.Book,
	orderReader orderreaderv1.OrderReader,
	fillPublisher fillpublisherv1.FillPublisher,
	log *logger.Logger,
	cfg *config.Config,
) *Engine {
	return NewEngineWithOptions(book, orderReader, fillPublisher, log, cfg, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	book *orderbook.Book,
	orderReader orderreaderv1.OrderReader,
	fillPublisher fillpublisherv1.FillPublisher,
	log *logger.Logger,
	cfg *config.Config,
	options *Options,
) *Engine {
	return &Engine{
		book:          book,
		orderReader:   orderReader,
		fillPublisher: fillPublisher,
		logger:        log,
		config:        cfg,

		statsInterval:  options.StatsInterval,
		publishTimeout: options.PublishTimeout,
		statsDepth:     options.StatsDepth,
		orderOffset:    -1,
	}
}

// Start launches the processing routines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runOrderProcessor()
	go e.runStatsReporter()

	e.logger.Info("Engine started", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	})

	return nil
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor reads and applies order requests in a single goroutine.
func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting order processor", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	})

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Order processor shutting down")
			e.orderReader.Close()
			return
		default:
			msg, request, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				if e.ctx.Err() != nil {
					continue
				}
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				// Simple backoff
				time.Sleep(100 * time.Millisecond)
				continue
			}

			if err := e.orderReader.CommitMessages(e.ctx, msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_order_message",
				})
			}

			if err := e.processRequest(request); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "process_order_request",
				}, logger.Field{
					Key:   "requestID",
					Value: request.RequestID,
				})
			}

			e.setOrderOffset(msg.Offset)
		}
	}
}

// processRequest applies a single order request to the book.
func (e *Engine) processRequest(request *orderreaderv1.OrderRequest) error {
	e.logger.Debug("Processing request",
		logger.Field{Key: "requestID", Value: request.RequestID},
		logger.Field{Key: "action", Value: request.Action},
		logger.Field{Key: "orderID", Value: request.OrderID},
	)

	switch request.Action {
	case orderreaderv1.ActionPlace:
		order, err := request.Order()
		if err != nil {
			return err
		}

		fills, err := e.book.Submit(order)
		if errors.Is(err, orderbookv1.ErrFOKNotFillable) {
			e.logger.Info("FOK order not fillable",
				logger.Field{Key: "orderID", Value: request.OrderID},
				logger.Field{Key: "quantity", Value: request.Quantity},
			)
			return nil
		}
		if err != nil {
			return err
		}
		e.publishFills(fills)

	case orderreaderv1.ActionCancel:
		if !e.book.Cancel(orderbookv1.OrderID(request.OrderID)) {
			e.logger.Debug("Cancel for unknown order",
				logger.Field{Key: "orderID", Value: request.OrderID},
			)
		}

	case orderreaderv1.ActionCancelAll:
		side, err := orderbookv1.ParseSide(request.Side)
		if err != nil {
			return err
		}
		e.book.CancelAll(side)

	case orderreaderv1.ActionModify:
		fills := e.book.Modify(
			orderbookv1.OrderID(request.OrderID),
			orderbookv1.PriceTick(request.NewPriceTicks),
			request.NewQuantity,
		)
		e.publishFills(fills)

	default:
		e.logger.Warn("Unknown request action",
			logger.Field{Key: "action", Value: request.Action},
			logger.Field{Key: "requestID", Value: request.RequestID},
		)
	}

	return nil
}

// publishFills publishes each fill to the fill topic and updates the fill
// counter. Publish failures are logged and do not affect the book, which
// has already been mutated.
func (e *Engine) publishFills(fills []orderbookv1.Fill) {
	if len(fills) == 0 {
		return
	}

	e.mu.Lock()
	e.totalFills += int64(len(fills))
	currentTotal := e.totalFills
	e.mu.Unlock()

	e.logger.Info("Fills executed",
		logger.Field{Key: "fillCount", Value: len(fills)},
		logger.Field{Key: "totalFills", Value: currentTotal},
	)

	for _, fill := range fills {
		event := fillpublisherv1.FromFill(e.config.Pair, fill)

		ctx, cancel := context.WithTimeout(e.ctx, e.publishTimeout)
		err := e.fillPublisher.PublishFillEvent(ctx, event)
		cancel()
		if err != nil {
			e.logger.ErrorContext(e.ctx, err, logger.Field{
				Key:   "action",
				Value: "publish_fill_event",
			}, logger.Field{
				Key:   "eventID",
				Value: event.EventID,
			})
		}
	}
}

// runStatsReporter periodically logs the book's counters and top of book.
func (e *Engine) runStatsReporter() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.statsInterval)
	defer ticker.Stop()

	e.logger.Info("Starting stats reporter")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Stats reporter shutting down")
			return
		case <-ticker.C:
			e.reportStats()
		}
	}
}

func (e *Engine) reportStats() {
	stats := e.book.Stats()

	e.logger.Info("Book stats",
		logger.Field{Key: "pair", Value: e.config.Pair},
		logger.Field{Key: "ordersProcessed", Value: stats.OrdersProcessed},
		logger.Field{Key: "fillsGenerated", Value: stats.FillsGenerated},
		logger.Field{Key: "lastProcessingTimeNs", Value: stats.LastProcessingTimeNs},
		logger.Field{Key: "restingOrders", Value: e.book.OrderCount()},
		logger.Field{Key: "bestBid", Value: e.book.BestBid()},
		logger.Field{Key: "bestAsk", Value: e.book.BestAsk()},
		logger.Field{Key: "weightedMid", Value: e.book.WeightedMidPrice()},
		logger.Field{Key: "bidDepth", Value: e.book.TopLevels(orderbookv1.SideBuy, e.statsDepth)},
		logger.Field{Key: "askDepth", Value: e.book.TopLevels(orderbookv1.SideSell, e.statsDepth)},
	)
}

// Thread-safe getters and setters
func (e *Engine) getOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

func (e *Engine) setOrderOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
}

// GetOrderOffset returns the offset of the last processed request.
func (e *Engine) GetOrderOffset() int64 {
	return e.getOrderOffset()
}

// GetTotalFills returns the total number of fills published.
func (e *Engine) GetTotalFills() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalFills
}
