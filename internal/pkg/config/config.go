package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	// SessionTTL bounds the session token lifetime; absence or expiry forces
	// a fresh login.
	SessionTTL time.Duration `env:"SESSION_TTL, default=1h"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`

	Registry RegistryConfig
	Redis    RedisConfig
	Mongo    MongoConfig
}

// RegistryConfig locates the registry file on the remote store and tunes the
// load policy. The token is the server-side write credential; it never
// reaches clients.
type RegistryConfig struct {
	Owner  string `env:"REGISTRY_OWNER"`
	Repo   string `env:"REGISTRY_REPO"`
	Path   string `env:"REGISTRY_PATH,   default=registry.json"`
	Branch string `env:"REGISTRY_BRANCH, default=main"`
	Token  string `env:"REGISTRY_TOKEN"`

	MaxRetries    int           `env:"REGISTRY_MAX_RETRIES,    default=3"`
	RetryDelay    time.Duration `env:"REGISTRY_RETRY_DELAY,    default=1s"`
	MirrorWorkers int           `env:"REGISTRY_MIRROR_WORKERS, default=4"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=atelier_registry"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
