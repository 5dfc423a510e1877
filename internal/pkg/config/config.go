package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Login   LoginConfig
	Admin   AdminConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	JWTSecret    string        `env:"JWT_SECRET, required"`
	Issuer       string        `env:"JWT_ISSUER,    default=user-admin-dashboard"`
	TTL          time.Duration `env:"SESSION_TTL,   default=24h"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
}

type LoginConfig struct {
	MaxFailures int           `env:"LOGIN_MAX_FAILURES, default=5"`
	Lockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
	Rate        float64       `env:"LOGIN_RATE,         default=1"`
	Burst       int           `env:"LOGIN_BURST,        default=5"`
	BcryptCost  int           `env:"BCRYPT_COST,        default=10"`
}

// AdminConfig describes the account seeded at startup. Seeding is skipped
// when Email or Password is empty.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME,     default=Administrator"`
	Email    string `env:"ADMIN_EMAIL"`
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Password string `env:"ADMIN_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_admin_dashboard_db"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// SeedAdmin reports whether an admin account should be seeded.
func (c *Config) SeedAdmin() bool {
	return c.Admin.Email != "" && c.Admin.Password != ""
}

// Load reads a .env file when present, then the environment, using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
