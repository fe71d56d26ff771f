package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Log          LogConfig
	Tile         TileConfig
	Details      DetailsConfig
	Availability AvailabilityConfig
	Worker       WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	TilesCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// TileConfig - настройки тайлового бэкенда POI
type TileConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	MaxConcurrent  int
	DefaultZoom    int
}

// DetailsConfig - настройки point-lookup эндпоинта станций
type DetailsConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

// AvailabilityConfig - настройки фида доступности connected fueling
type AvailabilityConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	CacheRadius    float64 // meters
	CacheMaxAge    time.Duration
}

type WorkerConfig struct {
	Enabled         bool
	RefreshInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			TilesCacheTTL: time.Duration(viper.GetInt("TILES_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Tile: TileConfig{
			BaseURL:        viper.GetString("TILE_BASE_URL"),
			APIKey:         viper.GetString("TILE_API_KEY"),
			RequestTimeout: time.Duration(viper.GetInt("TILE_REQUEST_TIMEOUT")) * time.Second,
			MaxConcurrent:  viper.GetInt("TILE_MAX_CONCURRENT"),
			DefaultZoom:    viper.GetInt("TILE_DEFAULT_ZOOM"),
		},
		Details: DetailsConfig{
			BaseURL:        viper.GetString("DETAILS_BASE_URL"),
			APIKey:         viper.GetString("DETAILS_API_KEY"),
			RequestTimeout: time.Duration(viper.GetInt("DETAILS_REQUEST_TIMEOUT")) * time.Second,
		},
		Availability: AvailabilityConfig{
			BaseURL:        viper.GetString("COFU_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("COFU_REQUEST_TIMEOUT")) * time.Second,
			CacheRadius:    viper.GetFloat64("COFU_CACHE_RADIUS_M"),
			CacheMaxAge:    time.Duration(viper.GetInt("COFU_CACHE_MAX_AGE")) * time.Second,
		},
		Worker: WorkerConfig{
			Enabled:         viper.GetBool("WORKER_ENABLED"),
			RefreshInterval: time.Duration(viper.GetInt("WORKER_REFRESH_INTERVAL")) * time.Second,
		},
	}

	// Set default values if not provided
	if cfg.Cache.TilesCacheTTL == 0 {
		cfg.Cache.TilesCacheTTL = 5 * time.Minute
	}
	if cfg.Tile.RequestTimeout == 0 {
		cfg.Tile.RequestTimeout = 30 * time.Second
	}
	if cfg.Tile.MaxConcurrent == 0 {
		cfg.Tile.MaxConcurrent = 4
	}
	if cfg.Tile.DefaultZoom == 0 {
		cfg.Tile.DefaultZoom = 14
	}
	if cfg.Details.RequestTimeout == 0 {
		cfg.Details.RequestTimeout = 15 * time.Second
	}
	if cfg.Availability.RequestTimeout == 0 {
		cfg.Availability.RequestTimeout = 15 * time.Second
	}
	if cfg.Availability.CacheRadius == 0 {
		cfg.Availability.CacheRadius = 30000
	}
	if cfg.Availability.CacheMaxAge == 0 {
		cfg.Availability.CacheMaxAge = time.Hour
	}
	if cfg.Worker.RefreshInterval == 0 {
		cfg.Worker.RefreshInterval = 10 * time.Minute
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
