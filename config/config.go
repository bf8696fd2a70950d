package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config for the whole application.
type Config struct {
	App     AppConfig
	API     APIConfig
	Kafka   KafkaConfig
	Risk    RiskConfig
	Metrics MetricsConfig
}

// General application configuration.
type AppConfig struct {
	Name        string
	Environment string
	LogLevel    string
}

// Configuration for the API server.
type APIConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Configuration for Kafka.
type KafkaConfig struct {
	Brokers        []string
	GroupID        string
	SessionTimeout time.Duration
	Topics         KafkaTopicsConfig
}

// Kafka topics configuration.
type KafkaTopicsConfig struct {
	PriceBars   string
	RiskReports string
}

// Defaults for risk evaluations and the periodic engine loop.
type RiskConfig struct {
	Confidence     float64
	Window         int
	PortfolioValue float64
	MaxConcurrent  int
	Interval       time.Duration
}

// Configuration for metrics exposure.
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// Load reads configuration from ./config/config.yaml and the
// VARENGINE_* environment, falling back to defaults when the file is
// absent.
func Load() (*Config, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("VARENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "var-engine")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.loglevel", "info")

	viper.SetDefault("api.host", "0.0.0.0")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.readtimeout", "10s")
	viper.SetDefault("api.writetimeout", "10s")
	viper.SetDefault("api.shutdowntimeout", "30s")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.groupid", "var-engine")
	viper.SetDefault("kafka.sessiontimeout", "30s")
	viper.SetDefault("kafka.topics.pricebars", "market.prices.bars")
	viper.SetDefault("kafka.topics.riskreports", "risk.reports")

	viper.SetDefault("risk.confidence", 95.0)
	viper.SetDefault("risk.window", 20)
	viper.SetDefault("risk.portfoliovalue", 100000.0)
	viper.SetDefault("risk.maxconcurrent", 4)
	viper.SetDefault("risk.interval", "5m")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9090)
}
