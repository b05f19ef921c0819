package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/SiddNan/Quant-Orderbook-Project/internal/app/engine"
	fillpublisher "github.com/SiddNan/Quant-Orderbook-Project/internal/usecase/fill-publisher"
	orderreader "github.com/SiddNan/Quant-Orderbook-Project/internal/usecase/order-reader"
	"github.com/SiddNan/Quant-Orderbook-Project/internal/usecase/orderbook"
	"github.com/SiddNan/Quant-Orderbook-Project/pkg/config"
	"github.com/SiddNan/Quant-Orderbook-Project/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initialize components
	book := orderbook.New(cfg.MaxOrders)
	oReader := orderreader.NewReader(cfg.KafkaConfig, log)
	fPublisher := fillpublisher.NewPublisher(cfg.FillPublisherConfig, log)

	options := app.DefaultEngineOptions()
	options.StatsInterval = cfg.StatsInterval

	engine := app.NewEngineWithOptions(
		book,
		oReader,
		fPublisher,
		log,
		cfg,
		options,
	)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Matching engine started successfully", logger.Field{
		Key:   "pair",
		Value: cfg.Pair,
	})

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := fPublisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_fill_publisher",
		})
	}

	log.Info("Matching engine shutdown complete")
}
