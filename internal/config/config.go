package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Kafka      KafkaConfig
	Redis      RedisConfig
	MarketData MarketDataConfig
	Engine     EngineConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka/Redpanda configuration
type KafkaConfig struct {
	Brokers        []string
	RebalanceTopic string
	BalancesTopic  string
	ConsumerGroup  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MarketDataConfig holds the external data provider endpoints
type MarketDataConfig struct {
	FearGreedURL   string
	PriceURL       string
	SocialURL      string
	NewsURL        string
	MacroURL       string
	LLMScoreURL    string
	ReferenceAsset string
	Timeout        time.Duration
	PriceCacheTTL  time.Duration
}

// EngineConfig holds sentiment engine and scheduler tunables
type EngineConfig struct {
	CacheTTL          time.Duration
	SignalTimeout     time.Duration
	RebalanceInterval time.Duration
	FeedbackInterval  time.Duration
	FeedbackBatchSize int
	FeedbackMinAge    time.Duration

	// Calibration thresholds; tuned by trial, kept configurable on purpose.
	BullishScoreFloor   int     // score above this predicts a rise
	BearishScoreCeiling int     // score below this predicts a fall
	BullishMovePct      float64 // realized move that confirms a bullish call
	BearishMovePct      float64 // realized move that confirms a bearish call
	NeutralBandPct      float64 // |move| below this confirms a neutral call
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8082"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "postgres"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "quantum"),
			Password: getEnv("DB_PASSWORD", "quantum5"),
			DBName:   getEnv("DB_NAME", "quantum_matrix"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:        parseBrokers(getEnv("KAFKA_BROKERS", "localhost:19092")),
			RebalanceTopic: getEnv("KAFKA_REBALANCE_TOPIC", "portfolio.rebalances"),
			BalancesTopic:  getEnv("KAFKA_BALANCES_TOPIC", "wallet.balances"),
			ConsumerGroup:  getEnv("KAFKA_CONSUMER_GROUP", "sentiment-engine"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		},
		MarketData: MarketDataConfig{
			FearGreedURL:   getEnv("FEAR_GREED_URL", "https://api.alternative.me"),
			PriceURL:       getEnv("PRICE_FEED_URL", "https://api.coingecko.com/api/v3"),
			SocialURL:      getEnv("SOCIAL_FEED_URL", "http://social-gateway:8090"),
			NewsURL:        getEnv("NEWS_FEED_URL", "http://news-gateway:8091"),
			MacroURL:       getEnv("MACRO_FEED_URL", "http://macro-gateway:8092"),
			LLMScoreURL:    getEnv("LLM_SCORE_URL", "http://llm-scorer:8093"),
			ReferenceAsset: getEnv("REFERENCE_ASSET", "ethereum"),
			Timeout:        getDuration("MARKET_DATA_TIMEOUT", 10*time.Second),
			PriceCacheTTL:  getDuration("PRICE_CACHE_TTL", time.Minute),
		},
		Engine: EngineConfig{
			CacheTTL:          getDuration("SENTIMENT_CACHE_TTL", 15*time.Minute),
			SignalTimeout:     getDuration("SIGNAL_TIMEOUT", 8*time.Second),
			RebalanceInterval: getDuration("REBALANCE_INTERVAL", 30*time.Minute),
			FeedbackInterval:  getDuration("FEEDBACK_INTERVAL", 4*time.Hour),
			FeedbackBatchSize: getInt("FEEDBACK_BATCH_SIZE", 50),
			FeedbackMinAge:    getDuration("FEEDBACK_MIN_AGE", 24*time.Hour),

			BullishScoreFloor:   getInt("FEEDBACK_BULLISH_FLOOR", 55),
			BearishScoreCeiling: getInt("FEEDBACK_BEARISH_CEILING", 45),
			BullishMovePct:      getFloat("FEEDBACK_BULLISH_MOVE_PCT", 0.5),
			BearishMovePct:      getFloat("FEEDBACK_BEARISH_MOVE_PCT", -0.5),
			NeutralBandPct:      getFloat("FEEDBACK_NEUTRAL_BAND_PCT", 1.5),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

// Address returns the Redis address in host:port format
func (r *RedisConfig) Address() string {
	return r.Host + ":" + r.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return defaultValue
}

// parseBrokers splits a comma-separated broker list
func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
