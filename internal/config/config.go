package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Auth      AuthConfig
	Directory DirectoryConfig
	Explorer  ExplorerConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

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

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	CountriesCacheTTL time.Duration
	GeometryCacheTTL  time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type DirectoryConfig struct {
	BaseURL        string
	GeometryURL    string
	RequestTimeout time.Duration
}

type ExplorerConfig struct {
	APIBaseURL string
	StateDir   string
}

type LogConfig struct {
	Level string
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
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			CountriesCacheTTL: time.Duration(viper.GetInt("COUNTRIES_CACHE_TTL")) * time.Second,
			GeometryCacheTTL:  time.Duration(viper.GetInt("GEOMETRY_CACHE_TTL")) * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
			TokenTTL:  time.Duration(viper.GetInt("JWT_TTL")) * time.Second,
		},
		Directory: DirectoryConfig{
			BaseURL:        viper.GetString("DIRECTORY_BASE_URL"),
			GeometryURL:    viper.GetString("DIRECTORY_GEOMETRY_URL"),
			RequestTimeout: time.Duration(viper.GetInt("DIRECTORY_REQUEST_TIMEOUT")) * time.Second,
		},
		Explorer: ExplorerConfig{
			APIBaseURL: viper.GetString("EXPLORER_API_BASE_URL"),
			StateDir:   viper.GetString("EXPLORER_STATE_DIR"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:         viper.GetBool("WORKER_ENABLED"),
			RefreshInterval: time.Duration(viper.GetInt("WORKER_REFRESH_INTERVAL")) * time.Second,
		},
	}

	// Set default values if not provided
	if cfg.Directory.BaseURL == "" {
		cfg.Directory.BaseURL = "https://restcountries.com/v3.1"
	}
	if cfg.Directory.GeometryURL == "" {
		cfg.Directory.GeometryURL = "https://raw.githubusercontent.com/datasets/geo-countries/master/data/countries.geojson"
	}
	if cfg.Directory.RequestTimeout == 0 {
		cfg.Directory.RequestTimeout = 30 * time.Second
	}
	if cfg.Cache.CountriesCacheTTL == 0 {
		cfg.Cache.CountriesCacheTTL = 6 * time.Hour
	}
	if cfg.Cache.GeometryCacheTTL == 0 {
		cfg.Cache.GeometryCacheTTL = 24 * time.Hour
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Explorer.APIBaseURL == "" {
		cfg.Explorer.APIBaseURL = "http://localhost:5001"
	}
	if cfg.Worker.RefreshInterval == 0 {
		cfg.Worker.RefreshInterval = time.Hour
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
