package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config - application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	OSMDB    DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Auth     AuthConfig
	Login    LoginConfig
	Spots    SpotsConfig
	Overpass OverpassConfig
}

// ServerConfig - HTTP server settings
type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

// StoreConfig - selects the persistence backend
type StoreConfig struct {
	Driver string
}

// DatabaseConfig - PostgreSQL connection and pool settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// MongoConfig - MongoDB connection settings
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig - Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig - cache TTLs
type CacheConfig struct {
	NearbyTTL time.Duration
}

// LogConfig - logger settings
type LogConfig struct {
	Level string
}

// AuthConfig - JWT settings
type AuthConfig struct {
	JWTSecret string
	JWTTTL    time.Duration
}

// LoginConfig - login attempt guard settings
type LoginConfig struct {
	MaxAttempts   int
	BlockWindow   time.Duration
	RecordTTL     time.Duration
	SweepInterval time.Duration
}

// SpotsConfig - nearby search settings
type SpotsConfig struct {
	NearbyRadiusMeters float64
}

// OverpassConfig - Overpass API client settings
type OverpassConfig struct {
	URL     string
	Timeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 5000)
	v.SetDefault("API_ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("STORE_DRIVER", StoreMemory)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "foodspot")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("OSM_DB_HOST", "localhost")
	v.SetDefault("OSM_DB_PORT", 5435)
	v.SetDefault("OSM_DB_USER", "osmuser")
	v.SetDefault("OSM_DB_NAME", "osm")
	v.SetDefault("OSM_DB_SSLMODE", "disable")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "foodspot")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_NEARBY_TTL", 5*time.Minute)

	v.SetDefault("JWT_TTL", 5*24*time.Hour)

	v.SetDefault("LOGIN_MAX_ATTEMPTS", 2)
	v.SetDefault("LOGIN_BLOCK_WINDOW", 5*time.Minute)
	v.SetDefault("LOGIN_RECORD_TTL", time.Hour)
	v.SetDefault("LOGIN_SWEEP_INTERVAL", time.Minute)

	v.SetDefault("NEARBY_RADIUS_METERS", 5000)

	v.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	v.SetDefault("OVERPASS_TIMEOUT", 60*time.Second)
}

// Load reads configuration from the environment, after applying an optional
// .env file from the working directory.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error; variables already set in the environment win over the file.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         strings.ToLower(v.GetString("API_ENV")),
			CORSOrigins: v.GetString("CORS_ORIGINS"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		OSMDB: DatabaseConfig{
			Host:            v.GetString("OSM_DB_HOST"),
			Port:            v.GetInt("OSM_DB_PORT"),
			User:            v.GetString("OSM_DB_USER"),
			Password:        v.GetString("OSM_DB_PASSWORD"),
			DBName:          v.GetString("OSM_DB_NAME"),
			SSLMode:         v.GetString("OSM_DB_SSLMODE"),
			MaxConns:        4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: time.Minute,
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DB"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			NearbyTTL: v.GetDuration("CACHE_NEARBY_TTL"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			JWTTTL:    v.GetDuration("JWT_TTL"),
		},
		Login: LoginConfig{
			MaxAttempts:   v.GetInt("LOGIN_MAX_ATTEMPTS"),
			BlockWindow:   v.GetDuration("LOGIN_BLOCK_WINDOW"),
			RecordTTL:     v.GetDuration("LOGIN_RECORD_TTL"),
			SweepInterval: v.GetDuration("LOGIN_SWEEP_INTERVAL"),
		},
		Spots: SpotsConfig{
			NearbyRadiusMeters: v.GetFloat64("NEARBY_RADIUS_METERS"),
		},
		Overpass: OverpassConfig{
			URL:     v.GetString("OVERPASS_URL"),
			Timeout: v.GetDuration("OVERPASS_TIMEOUT"),
		},
	}

	if cfg.Auth.JWTSecret == "" && !cfg.IsProduction() {
		cfg.Auth.JWTSecret = "dev-secret-change-me"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StorePostgres, StoreMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.Spots.NearbyRadiusMeters <= 0 {
		return errors.New("NEARBY_RADIUS_METERS must be positive")
	}
	if c.Login.MaxAttempts <= 0 {
		return errors.New("LOGIN_MAX_ATTEMPTS must be positive")
	}
	if c.Login.BlockWindow <= 0 {
		return errors.New("LOGIN_BLOCK_WINDOW must be positive")
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction || c.Server.Env == "prod"
}

// CORSOriginList splits CORS_ORIGINS on commas.
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.Server.CORSOrigins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseDSN returns the application database connection string
func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN - libpq keyword/value connection string for pgx
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
