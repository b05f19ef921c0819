package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	StatsInterval  time.Duration
	PublishTimeout time.Duration
	StatsDepth     int
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		StatsInterval:  30 * time.Second,
		PublishTimeout: 5 * time.Second,
		StatsDepth:     5,
	}
}
