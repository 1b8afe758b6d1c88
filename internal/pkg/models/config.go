package models

import "time"

// Config represents application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Logger    LoggerConfig
	NewRelic  NewRelicConfig
	Redis     RedisConfig
	Realtime  RealtimeConfig
	Rides     RidesConfig
	Tracking  TrackingConfig
	Reconnect ReconnectConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
	Role        Role
	UserID      string
}

// ServerConfig contains the presentation bridge listener configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	// AuthToken guards the bridge API and stream when set
	AuthToken string
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level      string
	FilePath   string
	MaxSize    int64
	MaxAge     int
	MaxBackups int
	Compress   bool
	Type       string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	ForwardLogs bool
}

// RedisConfig contains Redis connection configuration. An empty Host
// keeps the active ride pointer in memory.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
	KeyTTL   time.Duration
}

// RealtimeConfig selects and configures the push channel
type RealtimeConfig struct {
	Transport     string // websocket or nats
	URL           string
	AuthToken     string
	AuthTokenFile string
	NATSSubject   string
}

// RidesConfig contains the rides REST API configuration
type RidesConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TrackingConfig tunes reconciliation and search timeout behaviour
type TrackingConfig struct {
	PollInterval         time.Duration
	PollInitialDelay     time.Duration
	CountdownSeconds     int
	PollFailureThreshold int
}

// ReconnectConfig bounds the transport reconnect loop
type ReconnectConfig struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
	Jitter      float64
}
