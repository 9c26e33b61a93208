package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	AuthSecret     string        // HMAC secret for pre-issued identity tokens (empty = anonymous only)
	NoticeTTL      time.Duration // how long a user-facing notice stays visible (default: 3s)
	SeedFile       string        // path to the starter-links yaml file (optional, empty = disabled)
	SeedInterval   time.Duration // interval to reload the seed file (default: 24h)
	SessionIdleTTL time.Duration // idle sessions older than this are reaped (default: 30m)
	ReapInterval   time.Duration // interval between session reaper runs (default: 5m)

	// Rate limiting for mutation endpoints
	RateBurst     int // burst size per client IP
	RateRefillMin int // tokens refilled per IP per minute

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedCIDRS []string // optional, restrict operational endpoints to specific IPs
	AllowedHosts []string // optional, restrict operational endpoints to specific Host headers
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKRING_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKRING_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKRING_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKRING_PRETTY_LOG", true),

		// Board behavior
		AuthSecret:     getenv("LINKRING_AUTH_SECRET", ""),
		NoticeTTL:      mustDuration("LINKRING_NOTICE_TTL", 3*time.Second),
		SeedFile:       getenv("LINKRING_SEED_FILE", ""), // Optional, empty = seeding disabled
		SeedInterval:   mustDuration("LINKRING_SEED_INTERVAL", 24*time.Hour),
		SessionIdleTTL: mustDuration("LINKRING_SESSION_IDLE_TTL", 30*time.Minute),
		ReapInterval:   mustDuration("LINKRING_REAP_INTERVAL", 5*time.Minute),

		// Rate limiting
		RateBurst:     getenvInt("LINKRING_RATE_BURST", 10),
		RateRefillMin: getenvInt("LINKRING_RATE_REFILL_PER_MIN", 30),

		// Redis settings
		RedisAddr:             requireEnv("LINKRING_REDIS_ADDR"),
		RedisUser:             getenv("LINKRING_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LINKRING_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("LINKRING_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("LINKRING_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("LINKRING_ALLOWED_CIDRS", "")),
		AllowedHosts: splitAndTrim(getenv("LINKRING_ALLOWED_HOSTS", "")),
		TrustProxy:   mustBool("LINKRING_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: LINKRING_REDIS_PASSWORD is required when LINKRING_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		if cfg.AuthSecret != "" {
			cfgCopy.AuthSecret = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
