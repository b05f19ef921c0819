package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	// A missing .env file is fine, the environment may already be populated.
	_ = godotenv.Load()

	return env.Parse(cfg)
}

// Config holds the configuration for the application
type Config struct {
	Pair                string               `env:"PAIR,required"` // Trading instrument, e.g. BTC-USD
	KafkaConfig         `envPrefix:"KAFKA_"` // Order stream configuration
	FillPublisherConfig `envPrefix:"FILL_PUBLISHER_"` // Fill event stream configuration
	EngineConfig        `envPrefix:"ENGINE_"`
}

// KafkaConfig holds the configuration for the Kafka order consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"default_group"`
	Brokers []string `env:"BROKER,required"`
}

// FillPublisherConfig holds the configuration for the Kafka fill publisher.
type FillPublisherConfig struct {
	Topic   string   `env:"TOPIC,required"`
	Brokers []string `env:"BROKER,required"`
}

// EngineConfig holds tunables for the matching engine service.
type EngineConfig struct {
	MaxOrders     int           `env:"MAX_ORDERS" envDefault:"100000"`
	StatsInterval time.Duration `env:"STATS_INTERVAL" envDefault:"30s"`
}
