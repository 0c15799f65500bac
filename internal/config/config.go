package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// StoreBackend selects where the most recent upload is held.
type StoreBackend string

const (
	StoreMemory StoreBackend = "memory"
	StoreRedis  StoreBackend = "redis"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment   string       `validate:"required,oneof=development staging production test"`
	HTTPBind      string       `validate:"omitempty,ip"`
	HTTPPort      int          `validate:"min=1,max=65535"`
	MaxUploadMB   int          `validate:"min=1,max=1024"`
	CORSOrigin    string       `validate:"required"`
	StoreBackend  StoreBackend `validate:"oneof=memory redis"`
	RedisAddr     string       `validate:"required_if=StoreBackend redis"`
	RedisPassword string
	RedisDB       int           `validate:"min=0,max=15"`
	BatchTTL      time.Duration `validate:"min=1m"`
}

var validate = validator.New()

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	var env envInts
	cfg := &Config{
		Environment:   getEnv("PAIRS_ENV", "development"),
		HTTPBind:      getEnv("PAIRS_HTTP_BIND", "0.0.0.0"),
		HTTPPort:      env.get([]string{"PAIRS_HTTP_PORT", "PORT"}, 8080),
		MaxUploadMB:   env.get([]string{"PAIRS_MAX_UPLOAD_MB"}, 10),
		CORSOrigin:    getEnv("PAIRS_CORS_ORIGIN", "*"),
		StoreBackend:  StoreBackend(strings.ToLower(getEnv("PAIRS_STORE_BACKEND", string(StoreMemory)))),
		RedisAddr:     getEnv("PAIRS_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("PAIRS_REDIS_PASSWORD", ""),
		RedisDB:       env.get([]string{"PAIRS_REDIS_DB"}, 0),
		BatchTTL:      time.Duration(env.get([]string{"PAIRS_BATCH_TTL_MINUTES"}, 60)) * time.Minute,
	}

	if len(env.errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(env.errs, "; "))
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, formatValidationError(err)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPBind, c.HTTPPort)
}

// MaxUploadBytes returns the configured upload limit in bytes.
func (c *Config) MaxUploadBytes() int {
	return c.MaxUploadMB * 1_000_000
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", e.Field(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// envInts reads integer keys and remembers every value that failed to parse.
type envInts struct {
	errs []string
}

// get returns the first set key's value. A malformed value is recorded and
// later keys are not consulted.
func (e *envInts) get(keys []string, fallback int) int {
	for _, key := range keys {
		v := getEnv(key, "")
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Sprintf("%s=%q is not an integer", key, v))
			return fallback
		}
		return n
	}
	return fallback
}
