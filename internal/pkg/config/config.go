package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Auth modes selectable per deployment.
const (
	ModeNone    = "none"
	ModeBasic   = "basic"
	ModeSession = "session"
	ModeBearer  = "bearer"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	Mode           string        `env:"AUTH_MODE,       default=session"`
	SessionName    string        `env:"SESSION_NAME,    default=_identity_session"`
	SessionTTL     time.Duration `env:"SESSION_TTL,     default=24h"`
	SessionBackend string        `env:"SESSION_BACKEND, default=memory"`
	TokenTTL       time.Duration `env:"TOKEN_TTL,       default=1h"`
	BcryptCost     int           `env:"BCRYPT_COST,     default=10"`

	// ExcludedPaths is fixed per deployment, not user-configurable at
	// runtime. Set in code because path lists contain commas, which collide
	// with envconfig's tag syntax.
	ExcludedPaths []string
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=identity_service"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

// DefaultExcludedPaths lists the routes reachable without credentials:
// health probes, metrics, and the auth endpoints themselves.
var DefaultExcludedPaths = []string{
	"/health*",
	"/metrics",
	"/api/v1/auth/*",
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if len(cfg.Auth.ExcludedPaths) == 0 {
		cfg.Auth.ExcludedPaths = DefaultExcludedPaths
	}
	return &cfg
}
