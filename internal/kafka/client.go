// Package kafka wraps the kafka-go reader and writer with the small
// surface the engine needs: JSON payloads keyed by portfolio or
// symbol, no schema registry.
package kafka

import (
	"time"
)

// Config holds the broker-level Kafka settings shared by producers
// and consumers.
type Config struct {
	Brokers        []string
	GroupID        string
	SessionTimeout time.Duration
}

// TopicsConfig names the topics the engine touches.
type TopicsConfig struct {
	PriceBars   string
	RiskReports string
}
