package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the server configuration, read from the environment so main stays lean.
type Config struct {
	Server    Server
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Auth      AuthConfig
	Lifespan  LifespanConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	RequestTimeout time.Duration
}

// DatabaseConfig selects postgres when URL is set.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig selects redis when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the kafka audit publisher when Brokers is non-empty.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration
	SecureCookie  bool
}

type LifespanConfig struct {
	LookupStrategy string
	CacheTTL       time.Duration
	// StatisticsFile overrides the embedded seed when set.
	StatisticsFile string
}

// RateLimitConfig sets per-IP budgets per minute. Zero disables a class.
type RateLimitConfig struct {
	Disabled      bool
	AuthPerMinute int
	ReadPerMinute int
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Config from environment variables.
func FromEnv() (Config, error) {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Config, error) {
	p := parser{getenv: getenv}

	cfg := Config{
		Server: Server{
			Addr:           p.str("LIFECLOCK_ADDR", ":8080"),
			RequestTimeout: p.duration("LIFECLOCK_REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:          getenv("DATABASE_URL"),
			MaxOpenConns: p.integer("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: p.integer("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          getenv("REDIS_URL"),
			PoolSize:     p.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    p.list("KAFKA_BROKERS"),
			AuditTopic: p.str("KAFKA_AUDIT_TOPIC", "lifeclock.audit"),
		},
		Auth: AuthConfig{
			// Use a default for development - should be overridden in production
			JWTSigningKey: p.str("JWT_SIGNING_KEY", devSigningKey),
			JWTIssuer:     p.str("JWT_ISSUER", "lifeclock"),
			JWTAudience:   p.str("JWT_AUDIENCE", "lifeclock-api"),
			TokenTTL:      p.duration("JWT_TTL", 24*time.Hour),
			SecureCookie:  getenv("COOKIE_SECURE") == "true",
		},
		Lifespan: LifespanConfig{
			LookupStrategy: p.str("LIFESPAN_LOOKUP_STRATEGY", "latest"),
			CacheTTL:       p.duration("LIFESPAN_CACHE_TTL", time.Hour),
			StatisticsFile: getenv("LIFESPAN_STATISTICS_FILE"),
		},
		RateLimit: RateLimitConfig{
			Disabled:      getenv("RATE_LIMIT_DISABLED") == "true",
			AuthPerMinute: p.integer("RATE_LIMIT_AUTH_PER_MINUTE", 10),
			ReadPerMinute: p.integer("RATE_LIMIT_READ_PER_MINUTE", 100),
		},
		LogLevel: p.str("LOG_LEVEL", "info"),
	}

	if len(p.errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(p.errs, "; "))
	}
	if cfg.Auth.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("invalid configuration: JWT_TTL must be positive")
	}
	return cfg, nil
}

// UsesDevSigningKey reports whether JWT_SIGNING_KEY was left unset.
func (c Config) UsesDevSigningKey() bool {
	return c.Auth.JWTSigningKey == devSigningKey
}

type parser struct {
	getenv func(string) string
	errs   []string
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return d
}

func (p *parser) list(key string) []string {
	var out []string
	for _, part := range strings.Split(p.getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
