package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/voltscout/supplier-scraper/internal/browser"
	"github.com/voltscout/supplier-scraper/internal/database"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Browser  BrowserConfig
	Scraper  ScraperConfig
	Relay    RelayConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BrowserConfig struct {
	Headless       bool
	TimeoutSeconds int
	NavRetries     int
	ProxyServer    string
}

type ScraperConfig struct {
	MinDelaySeconds int
	MaxDelaySeconds int
	WaitSeconds     int
	Workers         int
	SnapshotFile    string
}

type RelayConfig struct {
	PollSeconds int
	BatchSize   int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("PORT", 8086),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "voltscout"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 20)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Browser: BrowserConfig{
			Headless:       getEnvBool("BROWSER_HEADLESS", true),
			TimeoutSeconds: getEnvInt("BROWSER_TIMEOUT", 30),
			NavRetries:     getEnvInt("BROWSER_NAV_RETRIES", 3),
			ProxyServer:    getEnv("BROWSER_PROXY", ""),
		},
		Scraper: ScraperConfig{
			MinDelaySeconds: getEnvInt("SCRAPER_MIN_DELAY", 2),
			MaxDelaySeconds: getEnvInt("SCRAPER_MAX_DELAY", 5),
			WaitSeconds:     getEnvInt("SCRAPER_WAIT", 10),
			Workers:         getEnvInt("SCRAPER_WORKERS", 1),
			SnapshotFile:    getEnv("SCRAPER_SNAPSHOT_FILE", "scraped_data.json"),
		},
		Relay: RelayConfig{
			PollSeconds: getEnvInt("RELAY_POLL_SECONDS", 5),
			BatchSize:   getEnvInt("RELAY_BATCH_SIZE", 100),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Scraper.MinDelaySeconds > c.Scraper.MaxDelaySeconds {
		return fmt.Errorf("scraper min delay %ds exceeds max delay %ds",
			c.Scraper.MinDelaySeconds, c.Scraper.MaxDelaySeconds)
	}

	if c.Scraper.Workers < 1 {
		return fmt.Errorf("at least 1 scraper worker is required")
	}

	return nil
}

// BrowserOptions converts the browser section into launch options.
func (c *Config) BrowserOptions() *browser.Options {
	opts := browser.DefaultOptions()
	opts.Headless = c.Browser.Headless
	opts.Timeout = time.Duration(c.Browser.TimeoutSeconds) * time.Second
	opts.NavRetries = c.Browser.NavRetries
	opts.ProxyServer = c.Browser.ProxyServer
	return opts
}

// DatabasePool converts the database section into pool settings.
func (c *Config) DatabasePool() database.Config {
	return database.Config{
		Host:        c.Database.Host,
		Port:        c.Database.Port,
		User:        c.Database.User,
		Password:    c.Database.Password,
		Database:    c.Database.Name,
		SSLMode:     c.Database.SSLMode,
		MaxConns:    c.Database.MaxConns,
		MinConns:    c.Database.MinConns,
		MaxConnLife: time.Hour,
		MaxConnIdle: 30 * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
