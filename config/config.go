package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultPath is where Load looks for the JSON config when no path is given.
var DefaultPath = filepath.Join("config", "config.json")

// AppConfig holds file and environment driven configuration values.
// It is loaded once at boot and passed explicitly to the components that need it.
type AppConfig struct {
	AppPort            string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Databases: items/entries live in the petitions schema, page visits in the homelab schema.
	DBHost               string
	DBPort               string
	DBUser               string
	DBPassword           string
	PetitionsDBName      string
	HomelabDBName        string
	PetitionsDatabaseURI string
	HomelabDatabaseURI   string
	// Redis for the item catalog cache
	RedisEnabled    bool
	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	CacheTTLSeconds int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// CacheTTL returns the configured cache lifetime.
func (c AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load builds the configuration.
// Precedence: JSON file -> defaults -> environment variable overrides.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	if path == "" {
		path = DefaultPath
	}

	if err := loadJSONConfig(path, &cfg); err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// fileConfig mirrors the grouped sections of config.json. Keys match the
// field names case-insensitively.
type fileConfig struct {
	App struct {
		AppPort            string
		RateLimitPerMinute int
		AllowedOrigins     []string
	} `json:"app"`
	Gin struct {
		Mode    string
		LogPath string
	} `json:"gin"`
	Database struct {
		DBHost               string
		DBPort               string
		DBUser               string
		DBPassword           string
		PetitionsDBName      string
		HomelabDBName        string
		PetitionsDatabaseURI string
		HomelabDatabaseURI   string
	} `json:"database"`
	Redis struct {
		RedisEnabled    bool
		RedisHost       string
		RedisPort       int
		RedisDB         int
		RedisPassword   string
		CacheTTLSeconds int
	} `json:"redis"`
	Log struct {
		Level      string
		Path       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	} `json:"log"`
}

// loadJSONConfig reads path into out. A missing file is not an error.
func loadJSONConfig(path string, out *AppConfig) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return err
	}

	*out = AppConfig{
		AppPort:              fc.App.AppPort,
		RateLimitPerMinute:   fc.App.RateLimitPerMinute,
		AllowedOrigins:       fc.App.AllowedOrigins,
		GinMode:              fc.Gin.Mode,
		GinPath:              fc.Gin.LogPath,
		DBHost:               fc.Database.DBHost,
		DBPort:               fc.Database.DBPort,
		DBUser:               fc.Database.DBUser,
		DBPassword:           fc.Database.DBPassword,
		PetitionsDBName:      fc.Database.PetitionsDBName,
		HomelabDBName:        fc.Database.HomelabDBName,
		PetitionsDatabaseURI: fc.Database.PetitionsDatabaseURI,
		HomelabDatabaseURI:   fc.Database.HomelabDatabaseURI,
		RedisEnabled:         fc.Redis.RedisEnabled,
		RedisHost:            fc.Redis.RedisHost,
		RedisPort:            fc.Redis.RedisPort,
		RedisDB:              fc.Redis.RedisDB,
		RedisPassword:        fc.Redis.RedisPassword,
		CacheTTLSeconds:      fc.Redis.CacheTTLSeconds,
		LogLevel:             fc.Log.Level,
		LogPath:              fc.Log.Path,
		LogMaxSizeMB:         fc.Log.MaxSizeMB,
		LogMaxBackups:        fc.Log.MaxBackups,
		LogMaxAgeDays:        fc.Log.MaxAgeDays,
		LogCompress:          fc.Log.Compress,
	}
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8000"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 120
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.PetitionsDBName == "" {
		c.PetitionsDBName = "petitions"
	}
	if c.HomelabDBName == "" {
		c.HomelabDBName = "homelab"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 3600
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"APP_PORT", &c.AppPort},
		{"GIN_MODE", &c.GinMode},
		{"GIN_PATH", &c.GinPath},
		{"DB_HOST", &c.DBHost},
		{"DB_PORT", &c.DBPort},
		{"DB_USER", &c.DBUser},
		{"DB_PASSWORD", &c.DBPassword},
		{"PETITIONS_DB_NAME", &c.PetitionsDBName},
		{"HOMELAB_DB_NAME", &c.HomelabDBName},
		{"PETITIONS_DATABASE_URI", &c.PetitionsDatabaseURI},
		{"HOMELAB_DATABASE_URI", &c.HomelabDatabaseURI},
		{"REDIS_HOST", &c.RedisHost},
		{"REDIS_PASSWORD", &c.RedisPassword},
		{"LOG_LEVEL", &c.LogLevel},
		{"LOG_PATH", &c.LogPath},
	}
	for _, it := range strs {
		if v := os.Getenv(it.key); v != "" {
			*it.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"REDIS_ENABLED", &c.RedisEnabled},
		{"LOG_COMPRESS", &c.LogCompress},
	}
	for _, it := range bools {
		if v := os.Getenv(it.key); v != "" {
			*it.dst = v == "true"
		}
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute},
		{"REDIS_PORT", &c.RedisPort},
		{"REDIS_DB", &c.RedisDB},
		{"CACHE_TTL_SECONDS", &c.CacheTTLSeconds},
		{"LOG_MAX_SIZE_MB", &c.LogMaxSizeMB},
		{"LOG_MAX_BACKUPS", &c.LogMaxBackups},
		{"LOG_MAX_AGE_DAYS", &c.LogMaxAgeDays},
	}
	for _, it := range ints {
		v := os.Getenv(it.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer value %s=%q: %w", it.key, v, err)
		}
		*it.dst = n
	}
	return nil
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
