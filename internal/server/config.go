package server

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Sreyas-J-S/CutStack/pkg/cache"
	"github.com/Sreyas-J-S/CutStack/pkg/errors"
	"github.com/Sreyas-J-S/CutStack/pkg/pdf"
)

// Cache backend names accepted by Config.CacheBackend.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config holds the HTTP service configuration. Values come from defaults,
// then an optional TOML file, then CUTSTACK_* environment variables; each
// layer overrides the previous one.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	// WaitingRoom is the number of processing requests admitted at once.
	// Requests beyond this are rejected immediately with 503.
	WaitingRoom int `toml:"waiting_room"`

	// MaxUploadBytes caps the size of an incoming request body.
	MaxUploadBytes int64 `toml:"max_upload_bytes"`

	// MaxDensity caps the n_up form value. Guards against grids so large
	// that planning them becomes its own denial of service.
	MaxDensity int `toml:"max_density"`

	// SheetWidth and SheetHeight are the output sheet dimensions in points.
	// Zero means A4 portrait.
	SheetWidth  float64 `toml:"sheet_width"`
	SheetHeight float64 `toml:"sheet_height"`

	// RetryAfterSeconds is the Retry-After hint on 503 responses.
	RetryAfterSeconds int `toml:"retry_after_seconds"`

	// ShutdownGraceSeconds bounds how long a shutdown waits for in-flight
	// requests.
	ShutdownGraceSeconds int `toml:"shutdown_grace_seconds"`

	// CacheBackend selects the artifact cache: "file", "redis" or "none".
	CacheBackend string `toml:"cache_backend"`

	// CacheDir is the file cache directory. Empty means the user cache dir.
	CacheDir string `toml:"cache_dir"`

	// Redis connection settings, used when CacheBackend is "redis".
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Addr:                 ":8080",
		WaitingRoom:          10,
		MaxUploadBytes:       50 << 20, // 50 MiB
		MaxDensity:           64,
		SheetWidth:           pdf.A4Width,
		SheetHeight:          pdf.A4Height,
		RetryAfterSeconds:    10,
		ShutdownGraceSeconds: 10,
		CacheBackend:         CacheBackendFile,
	}
}

// LoadConfig builds the effective configuration: defaults, then the TOML
// file at path (when non-empty), then environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from CUTSTACK_* environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("CUTSTACK_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("CUTSTACK_CACHE_BACKEND"); v != "" {
		c.CacheBackend = v
	}
	if v := os.Getenv("CUTSTACK_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("CUTSTACK_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("CUTSTACK_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}

	for _, e := range []struct {
		name string
		dst  *int
	}{
		{"CUTSTACK_WAITING_ROOM", &c.WaitingRoom},
		{"CUTSTACK_MAX_DENSITY", &c.MaxDensity},
		{"CUTSTACK_RETRY_AFTER_SECONDS", &c.RetryAfterSeconds},
		{"CUTSTACK_SHUTDOWN_GRACE_SECONDS", &c.ShutdownGraceSeconds},
		{"CUTSTACK_REDIS_DB", &c.RedisDB},
	} {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s: invalid integer %q", e.name, v)
		}
		*e.dst = n
	}

	if v := os.Getenv("CUTSTACK_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "CUTSTACK_MAX_UPLOAD_BYTES: invalid integer %q", v)
		}
		c.MaxUploadBytes = n
	}

	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "addr must not be empty")
	}
	if c.WaitingRoom < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "waiting_room must be >= 1, got %d", c.WaitingRoom)
	}
	if c.MaxUploadBytes < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max_upload_bytes must be >= 1, got %d", c.MaxUploadBytes)
	}
	if c.MaxDensity < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max_density must be >= 1, got %d", c.MaxDensity)
	}
	if c.SheetWidth == 0 && c.SheetHeight == 0 {
		c.SheetWidth = pdf.A4Width
		c.SheetHeight = pdf.A4Height
	}
	if c.SheetWidth <= 0 || c.SheetHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidSheet, "sheet dimensions must be positive, got %gx%g", c.SheetWidth, c.SheetHeight)
	}
	if c.RetryAfterSeconds < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "retry_after_seconds must be >= 1, got %d", c.RetryAfterSeconds)
	}
	if c.ShutdownGraceSeconds < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "shutdown_grace_seconds must be >= 1, got %d", c.ShutdownGraceSeconds)
	}

	switch c.CacheBackend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache_backend must be file, redis or none, got %q", c.CacheBackend)
	}
	if c.CacheBackend == CacheBackendRedis && c.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "redis_addr is required for the redis cache backend")
	}

	return nil
}

// ShutdownGrace returns the shutdown grace period as a duration.
func (c *Config) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownGraceSeconds) * time.Second
}

// OpenCache builds the configured cache backend.
func (c *Config) OpenCache() (cache.Cache, error) {
	switch c.CacheBackend {
	case CacheBackendRedis:
		return cache.NewRedisCache(c.RedisAddr, c.RedisPassword, c.RedisDB)
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	default:
		dir := c.CacheDir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolve cache directory")
			}
			dir = filepath.Join(base, "cutstack")
		}
		return cache.NewFileCache(dir)
	}
}
