package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/bioisac/admindesk/internal/admin/service"
	"github.com/bioisac/admindesk/pkg/cryptox"
)

// Session backends.
const (
	SessionBackendDatabase = "database"
	SessionBackendRedis    = "redis"
)

// Config is layered: defaults, then the TOML file named by --config or
// ADMINDESK_CONFIG, then environment variables, then flags.
type Config struct {
	Env       string `toml:"env"`        // dev, staging, prod (default: dev)
	LogLevel  string `toml:"log_level"`  // debug, info, warn, error (default: info)
	LogFormat string `toml:"log_format"` // json, text (default: json)
	Port      int    `toml:"port"`       // HTTP server port (default: 8080)

	DatabaseURL string `toml:"database_url"` // sqlite://path, bare path or postgres://... (default: admindesk.db)

	SessionBackend string        `toml:"session_backend"` // database or redis (default: database)
	RedisAddr      string        `toml:"redis_addr"`      // required for the redis backend
	RedisPassword  string        `toml:"redis_password"`
	RedisDB        int           `toml:"redis_db"`
	SessionTTL     time.Duration `toml:"session_ttl"` // default: 24h

	TOTPIssuer      string `toml:"totp_issuer"`       // default: BioIsac
	TwoFactorPolicy string `toml:"two_factor_policy"` // strict or accept-any (default: strict)
	PasswordScheme  string `toml:"password_scheme"`   // argon2id or sha256 (default: argon2id)
	PepperFile      string `toml:"pepper_file"`       // empty disables the pepper

	DefaultAdminUsername string `toml:"default_admin_username"`
	DefaultAdminPassword string `toml:"default_admin_password"`

	CORSAllowedOrigins []string `toml:"cors_allowed_origins"` // default: ["*"]

	ShutdownGracePeriod  time.Duration `toml:"shutdown_grace_period"` // default: 10s
	HousekeepingInterval time.Duration `toml:"housekeeping_interval"` // default: 1h
}

func DefaultConfig() Config {
	return Config{
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		DatabaseURL:          "admindesk.db",
		SessionBackend:       SessionBackendDatabase,
		SessionTTL:           service.DefaultSessionTTL,
		TOTPIssuer:           service.DefaultIssuer,
		TwoFactorPolicy:      service.PolicyStrict,
		PasswordScheme:       cryptox.SchemeArgon2id,
		DefaultAdminUsername: service.DefaultAdminUsername,
		DefaultAdminPassword: service.DefaultAdminPassword,
		CORSAllowedOrigins:   []string{"*"},
		ShutdownGracePeriod:  10 * time.Second,
		HousekeepingInterval: time.Hour,
	}
}

// LoadConfig builds the configuration from args (without the program name)
// and the process environment. It returns pflag.ErrHelp when --help was
// given.
func LoadConfig(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := pflag.NewFlagSet("admindesk", pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to a TOML config file (env: ADMINDESK_CONFIG)")
	port := fs.Int("port", cfg.Port, "HTTP server port (env: PORT)")
	databaseURL := fs.String("database-url", "", "database connection descriptor (env: DATABASE_URL)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("ADMINDESK_CONFIG")
	}
	if path != "" {
		if err := loadTOML(&cfg, path); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	if fs.Changed("port") {
		cfg.Port = *port
	}
	if fs.Changed("database-url") {
		cfg.DatabaseURL = *databaseURL
	}

	return cfg, cfg.Validate()
}

func loadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.DatabaseURL = getEnvOrDefault("DATABASE_URL", cfg.DatabaseURL)

	cfg.SessionBackend = getEnvOrDefault("SESSION_BACKEND", cfg.SessionBackend)
	cfg.RedisAddr = getEnvOrDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvIntOrDefault("REDIS_DB", cfg.RedisDB)
	cfg.SessionTTL = getEnvDurationOrDefault("SESSION_TTL", cfg.SessionTTL)

	cfg.TOTPIssuer = getEnvOrDefault("TOTP_ISSUER", cfg.TOTPIssuer)
	cfg.TwoFactorPolicy = getEnvOrDefault("TWO_FACTOR_POLICY", cfg.TwoFactorPolicy)
	cfg.PasswordScheme = getEnvOrDefault("PASSWORD_SCHEME", cfg.PasswordScheme)
	cfg.PepperFile = getEnvOrDefault("PEPPER_FILE", cfg.PepperFile)

	cfg.DefaultAdminUsername = getEnvOrDefault("DEFAULT_ADMIN_USERNAME", cfg.DefaultAdminUsername)
	cfg.DefaultAdminPassword = getEnvOrDefault("DEFAULT_ADMIN_PASSWORD", cfg.DefaultAdminPassword)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = splitList(origins)
	}

	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)
	cfg.HousekeepingInterval = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", cfg.HousekeepingInterval)
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if _, err := ParseDatabaseURL(c.DatabaseURL); err != nil {
		errs = append(errs, err)
	}
	switch c.SessionBackend {
	case SessionBackendDatabase:
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", c.SessionBackend))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if _, err := service.NewCodeVerifier(c.TwoFactorPolicy, &service.Authenticator{}); err != nil {
		errs = append(errs, err)
	}
	if _, err := cryptox.NewHasher(c.PasswordScheme, ""); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.DefaultAdminUsername) == "" || c.DefaultAdminPassword == "" {
		errs = append(errs, errors.New("default admin username and password must not be empty"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
