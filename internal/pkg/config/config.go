package config

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"

	GuardMemory = "memory"
	GuardRedis  = "redis"

	IdentificationMatch         = "match"
	IdentificationFirstEnrolled = "first_enrolled"
	IdentificationRoundRobin    = "round_robin"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	// Timezone is the location used for calendar dates in the shift mirror
	// and in justification timestamps.
	Timezone string        `env:"TIMEZONE,  default=America/Fortaleza"`
	TokenTTL time.Duration `env:"TOKEN_TTL, default=12h"`

	Store          StoreConfig
	Identification string `env:"IDENTIFICATION_MODE, default=match"`
	Scan           ScanConfig
	SiteCache      SiteCacheConfig
	Seed           SeedConfig

	Mongo MongoConfig
	Redis RedisConfig

	location *time.Location
}

type StoreConfig struct {
	Backend        string `env:"STORE_BACKEND,   default=memory"`
	DataFile       string `env:"DATA_FILE,       default=data/ponto.json"`
	AuditRetention int    `env:"AUDIT_RETENTION, default=100"`
}

type ScanConfig struct {
	Guard    string        `env:"SCAN_GUARD,     default=memory"`
	GuardTTL time.Duration `env:"SCAN_GUARD_TTL, default=10m"`
	Workers  int           `env:"SCAN_WORKERS,   default=4"`
}

type SiteCacheConfig struct {
	Size int           `env:"SITE_CACHE_SIZE, default=128"`
	TTL  time.Duration `env:"SITE_CACHE_TTL,  default=5m"`
}

type SeedConfig struct {
	OnStart       bool   `env:"SEED_ON_START,       default=true"`
	AdminUser     string `env:"SEED_ADMIN_USER,     default=admin"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD, default=admin"`
	UserPassword  string `env:"SEED_USER_PASSWORD,  default=123"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ponto"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendMongo:
	default:
		return fmt.Errorf("STORE_BACKEND must be memory, file or mongo, got %q", c.Store.Backend)
	}
	switch c.Scan.Guard {
	case GuardMemory, GuardRedis:
	default:
		return fmt.Errorf("SCAN_GUARD must be memory or redis, got %q", c.Scan.Guard)
	}
	switch c.Identification {
	case IdentificationMatch, IdentificationFirstEnrolled, IdentificationRoundRobin:
	default:
		return fmt.Errorf("IDENTIFICATION_MODE must be match, first_enrolled or round_robin, got %q", c.Identification)
	}
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET is required when ENV=%s", c.Env)
		}
		c.JWTSecret = "dev-secret"
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	c.location = loc
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location returns the configured time zone.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
