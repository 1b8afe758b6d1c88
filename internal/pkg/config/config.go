package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/spf13/viper"
)

var v = newViper()

func newViper() *viper.Viper {
	vp := viper.New()
	vp.AutomaticEnv()
	return vp
}

// InitConfig loads configuration from an optional dotenv file and the
// environment. Environment variables win over the file.
func InitConfig(configPath string) *models.Config {
	v = newViper()
	if _, err := os.Stat(configPath); configPath != "" && err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				log.Println("error loading config from file", err)
			}
		}
	}
	return loadConfig()
}

func loadConfig() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "ridetracker")
	configs.App.Environment = GetEnv("APP_ENV", "local")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", false)
	configs.App.Version = GetEnv("APP_VERSION", "dev")
	configs.App.Role = models.Role(strings.ToLower(GetEnv("APP_ROLE", string(models.RoleRider))))
	configs.App.UserID = GetEnv("APP_USER_ID", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "127.0.0.1")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 9980)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 10)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 10)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 5)
	configs.Server.AuthToken = GetEnv("SERVER_AUTH_TOKEN", "")

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")
	configs.Logger.MaxSize = GetEnvAsInt64("LOG_MAX_SIZE", 100)
	configs.Logger.MaxAge = GetEnvAsInt("LOG_MAX_AGE", 7)
	configs.Logger.MaxBackups = GetEnvAsInt("LOG_MAX_BACKUPS", 3)
	configs.Logger.Compress = GetEnvAsBool("LOG_COMPRESS", true)
	configs.Logger.Type = GetEnv("LOG_TYPE", "stdout")

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "ridetracker")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)
	configs.NewRelic.ForwardLogs = GetEnvAsBool("NEW_RELIC_FORWARD_LOGS", false)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 4)
	configs.Redis.KeyTTL = GetEnvAsDuration("REDIS_KEY_TTL", 24*time.Hour)

	// Realtime config
	configs.Realtime.Transport = strings.ToLower(GetEnv("REALTIME_TRANSPORT", "websocket"))
	configs.Realtime.URL = GetEnv("REALTIME_URL", "ws://localhost:9990/ws")
	configs.Realtime.AuthToken = GetEnv("REALTIME_AUTH_TOKEN", "")
	configs.Realtime.AuthTokenFile = GetEnv("REALTIME_AUTH_TOKEN_FILE", "")
	configs.Realtime.NATSSubject = GetEnv("REALTIME_NATS_SUBJECT", "ride.client")

	// Rides API config
	configs.Rides.BaseURL = GetEnv("RIDES_BASE_URL", "http://localhost:9992")
	configs.Rides.Timeout = GetEnvAsDuration("RIDES_TIMEOUT", 10*time.Second)

	// Tracking config
	configs.Tracking.PollInterval = GetEnvAsDuration("TRACKING_POLL_INTERVAL", 5*time.Second)
	configs.Tracking.PollInitialDelay = GetEnvAsDuration("TRACKING_POLL_INITIAL_DELAY", 1500*time.Millisecond)
	configs.Tracking.CountdownSeconds = GetEnvAsInt("TRACKING_COUNTDOWN_SECONDS", 30)
	configs.Tracking.PollFailureThreshold = GetEnvAsInt("TRACKING_POLL_FAILURE_THRESHOLD", 3)

	// Reconnect config
	configs.Reconnect.BaseDelay = GetEnvAsDuration("RECONNECT_BASE_DELAY", time.Second)
	configs.Reconnect.MaxDelay = GetEnvAsDuration("RECONNECT_MAX_DELAY", 30*time.Second)
	configs.Reconnect.MaxAttempts = GetEnvAsInt("RECONNECT_MAX_ATTEMPTS", 6)
	configs.Reconnect.Jitter = GetEnvAsFloat("RECONNECT_JITTER", 0.2)

	return configs
}

// Helper functions to get configuration values with different types

func GetEnv(key, defaultValue string) string {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	if GetEnv(key, "") == "" {
		return defaultValue
	}
	value, err := cast(key, v.GetInt)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	if GetEnv(key, "") == "" {
		return defaultValue
	}
	value, err := cast(key, v.GetInt64)
	if err != nil {
		log.Printf("Warning: Invalid int64 value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	raw := strings.ToLower(GetEnv(key, ""))
	switch raw {
	case "":
		return defaultValue
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	}
	log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
	return defaultValue
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	if GetEnv(key, "") == "" {
		return defaultValue
	}
	value, err := cast(key, v.GetFloat64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration accepts Go duration strings ("1500ms", "5s") or a plain
// number of seconds.
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	secs, err := cast(key, v.GetFloat64)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}
	return time.Duration(secs * float64(time.Second))
}

// cast runs a viper getter and reports values that silently collapsed to zero
func cast[T int | int64 | float64](key string, get func(string) T) (T, error) {
	value := get(key)
	if value == 0 && !isZeroLiteral(GetEnv(key, "")) {
		return 0, errInvalidValue
	}
	return value, nil
}

var errInvalidValue = errors.New("invalid value")

func isZeroLiteral(raw string) bool {
	raw = strings.TrimLeft(raw, "+-")
	raw = strings.TrimRight(strings.TrimLeft(raw, "0"), "0")
	return raw == "" || raw == "."
}
