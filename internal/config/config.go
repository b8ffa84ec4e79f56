package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Media     MediaConfig     `yaml:"media"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Redis     RedisConfig     `yaml:"redis"`
	LogLevel  string          `yaml:"log_level"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// OpenAIConfig is the static fallback used when no LLM config rows exist.
// It also drives product image generation.
type OpenAIConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	ImageModel string `yaml:"image_model"`
	ImageSize  string `yaml:"image_size"`
}

// MediaConfig points at the asset storage service that turns rendered
// image bytes into a public URL.
type MediaConfig struct {
	UploadURL string `yaml:"upload_url"`
	Token     string `yaml:"token"`
}

// SchedulerConfig controls the deployment scheduler: the cron cadence,
// the bearer token guarding the HTTP trigger, and the lock TTL.
// LockTTLMinutes = 0 means lock rows never expire on their own.
type SchedulerConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Cron           string `yaml:"cron"`
	Token          string `yaml:"token"`
	LockTTLMinutes int    `yaml:"lock_ttl_minutes"`
}

// RedisConfig for the optional async per-account task queue
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "postpilot.db",
		},
		JWT: JWTConfig{
			Secret:     "postpilot-secret-key-change-in-production",
			ExpireHour: 24,
		},
		OpenAI: OpenAIConfig{
			BaseURL:    "https://api.openai.com/v1",
			Model:      "gpt-4o",
			ImageModel: "dall-e-3",
			ImageSize:  "1024x1024",
		},
		Media: MediaConfig{},
		Scheduler: SchedulerConfig{
			Enabled: true,
			Cron:    "*/5 * * * *",
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
		},
		LogLevel: "info",
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		c.OpenAI.BaseURL = baseURL
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		c.OpenAI.APIKey = apiKey
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		c.OpenAI.Model = model
	}
	if model := os.Getenv("OPENAI_IMAGE_MODEL"); model != "" {
		c.OpenAI.ImageModel = model
	}
	if uploadURL := os.Getenv("MEDIA_UPLOAD_URL"); uploadURL != "" {
		c.Media.UploadURL = uploadURL
	}
	if token := os.Getenv("MEDIA_TOKEN"); token != "" {
		c.Media.Token = token
	}
	if token := os.Getenv("SCHEDULER_TOKEN"); token != "" {
		c.Scheduler.Token = token
	}
	if spec := os.Getenv("SCHEDULER_CRON"); spec != "" {
		c.Scheduler.Cron = spec
	}
	if ttl := os.Getenv("SCHEDULER_LOCK_TTL_MINUTES"); ttl != "" {
		if n, err := strconv.Atoi(ttl); err == nil {
			c.Scheduler.LockTTLMinutes = n
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	// Redis URL override (format: redis://:password@host:port/db)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
}

// parseRedisURL parses a Redis URL and sets config values
// Format: redis://:password@host:port/db
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	c.Redis.Addr = url
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
