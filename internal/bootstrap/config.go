package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	errs "team_achievements/internal/errors"
)

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	ServerPort     string        `mapstructure:"SERVER_PORT"`
	GrpcPort       string        `mapstructure:"GRPC_PORT"`
	StorageBackend string        `mapstructure:"STORAGE_BACKEND"`
	DataDir        string        `mapstructure:"DATA_DIR"`
	RedisUrl       string        `mapstructure:"REDIS_URL"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int           `mapstructure:"REDIS_DB"`
	RedisPrefix    string        `mapstructure:"REDIS_PREFIX"`
	MongoUri       string        `mapstructure:"MONGO_URI"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE"`
	IsLocalCors    bool          `mapstructure:"LOCAL_CORS"`
	CorsOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	AdminUsername  string        `mapstructure:"ADMIN_USERNAME"`
	RecentDays     int           `mapstructure:"RECENT_DAYS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	TrustProxy     bool          `mapstructure:"TRUST_PROXY"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"SERVER_PORT":      "8000",
	"GRPC_PORT":        "",
	"STORAGE_BACKEND":  BackendFile,
	"DATA_DIR":         ".",
	"REDIS_URL":        "localhost:6379",
	"REDIS_PASSWORD":   "",
	"REDIS_DB":         0,
	"REDIS_PREFIX":     "achievements:",
	"MONGO_URI":        "mongodb://localhost:27017",
	"MONGO_DATABASE":   "achievements",
	"LOCAL_CORS":       true,
	"CORS_ORIGINS":     "http://localhost:3000",
	"ADMIN_USERNAME":   "admin",
	"RECENT_DAYS":      30,
	"REQUEST_TIMEOUT":  "5s",
	"RATE_LIMIT_RPS":   10,
	"RATE_LIMIT_BURST": 30,
	"TRUST_PROXY":      false,
	"LOG_LEVEL":        "info",
}

// Setup loads the optional env file at cfgPath into the process environment
// and resolves Config from the environment on top of the defaults.
func Setup(cfgPath string) (*Config, error) {
	if cfgPath != "" {
		if err := godotenv.Load(cfgPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", cfgPath, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("%w: %q", errs.ErrUnknownStorageBackend, c.StorageBackend)
	}
	if c.AdminUsername == "" {
		return errors.New("ADMIN_USERNAME must not be empty")
	}
	if c.RecentDays <= 0 {
		return fmt.Errorf("RECENT_DAYS must be positive, got %d", c.RecentDays)
	}
	return nil
}

func (c *Config) RecentWindow() time.Duration {
	return time.Duration(c.RecentDays) * 24 * time.Hour
}
