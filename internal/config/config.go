package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        int               `yaml:"port"`
		APIKeys     map[string]string `yaml:"apiKeys"` // client name -> key; empty disables auth
		CORSOrigins []string          `yaml:"corsOrigins"`
		RateLimit   struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refillRate"` // tokens per second
		} `yaml:"rateLimit"`
		ShutdownSeconds int `yaml:"shutdownSeconds"`
	} `yaml:"server"`

	LLM struct {
		Provider       string  `yaml:"provider"` // openai | gemini
		Model          string  `yaml:"model"`
		APIKey         string  `yaml:"apiKey"`
		BaseURL        string  `yaml:"baseURL"`
		MaxTokens      int     `yaml:"maxTokens"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeoutSeconds"`
	} `yaml:"llm"`

	Storage struct {
		Driver string `yaml:"driver"` // sqlite | mysql | postgres
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
	} `yaml:"storage"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Enabled        bool   `yaml:"enabled"`
		Endpoint       string `yaml:"endpoint"`
		AccessKey      string `yaml:"accessKey"`
		SecretKey      string `yaml:"secretKey"`
		BucketName     string `yaml:"bucketName"`
		Region         string `yaml:"region"`
		UseSSL         bool   `yaml:"useSSL"`
		PresignMinutes int    `yaml:"presignMinutes"`
	} `yaml:"minio"`

	Analysis struct {
		HistoryLimit   int    `yaml:"historyLimit"`
		RootCauseLimit int    `yaml:"rootCauseLimit"`
		RecentLimit    int    `yaml:"recentLimit"`
		MaxUploadBytes int64  `yaml:"maxUploadBytes"`
		AnchorID       string `yaml:"anchorID"`
	} `yaml:"analysis"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document, expands ${VAR} references and fills defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with every default applied, used when no file exists.
func Default() *Config {
	var cfg Config
	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)
	return &cfg
}

// Path resolves the config file: explicit flag, then CONFIG_PATH, then config.yaml.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "config.yaml"
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

func (c *Config) PresignTTL() time.Duration {
	return time.Duration(c.Minio.PresignMinutes) * time.Minute
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownSeconds) * time.Second
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimit.Capacity == 0 {
		cfg.Server.RateLimit.Capacity = 60
	}
	if cfg.Server.RateLimit.RefillRate == 0 {
		cfg.Server.RateLimit.RefillRate = 1
	}
	if cfg.Server.ShutdownSeconds == 0 {
		cfg.Server.ShutdownSeconds = 5
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.Model = "gemini-2.0-flash"
		default:
			cfg.LLM.Model = "gpt-4o-mini"
		}
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 120
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "sowise.db"
	}
	if cfg.Database.Port == 0 {
		switch cfg.Storage.Driver {
		case "postgres":
			cfg.Database.Port = 5432
		default:
			cfg.Database.Port = 3306
		}
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	if cfg.Minio.PresignMinutes == 0 {
		cfg.Minio.PresignMinutes = 60
	}

	if cfg.Analysis.HistoryLimit == 0 {
		cfg.Analysis.HistoryLimit = 20
	}
	if cfg.Analysis.RootCauseLimit == 0 {
		cfg.Analysis.RootCauseLimit = 10
	}
	if cfg.Analysis.RecentLimit == 0 {
		cfg.Analysis.RecentLimit = 5
	}
	if cfg.Analysis.MaxUploadBytes == 0 {
		cfg.Analysis.MaxUploadBytes = 20 << 20
	}
	if cfg.Analysis.AnchorID == "" {
		cfg.Analysis.AnchorID = "highlight-span"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
