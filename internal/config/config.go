package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	DB               DatabaseConfig   `json:"db"`
	Port             int              `json:"port"`
	LogConfig        logger.LogConfig `json:"log_config"`
	Embedding        EmbeddingConfig  `json:"embedding"`
	Transcript       ProviderConfig   `json:"transcript"`
	Archive          ArchiveConfig    `json:"archive"`
	Index            IndexConfig      `json:"index"`
	Search           SearchConfig     `json:"search"`
	Cleanup          CleanupConfig    `json:"cleanup"`
	CORSAllowlist    []string         `json:"cors_allowlist"`
	RateLimitSeconds int              `json:"rate_limit_seconds"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type EmbeddingConfig struct {
	Provider        string      `json:"provider"`
	Model           string      `json:"model"`
	Dimension       int         `json:"dimension"`
	TimeoutSeconds  int         `json:"timeout_seconds"`
	MaxRetries      int         `json:"max_retries"`
	CacheSize       int         `json:"cache_size"`
	CacheTTLMinutes int         `json:"cache_ttl_minutes"`
	Data            interface{} `json:"data"`
}

type ProviderConfig struct {
	Provider string      `json:"provider"`
	Data     interface{} `json:"data"`
}

type ArchiveConfig struct {
	Enable bool        `json:"enable"`
	Type   string      `json:"type"`
	Data   interface{} `json:"data"`
}

type IndexConfig struct {
	ChunkSize int `json:"chunk_size"`
	Workers   int `json:"workers"`
}

type SearchConfig struct {
	DefaultTopK int `json:"default_top_k"`
}

type CleanupConfig struct {
	Enable   bool   `json:"enable"`
	Schedule string `json:"schedule"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DB.DSN == "" && cfg.DB.Host == "" {
		return nil, fmt.Errorf("db.dsn or db.host is required")
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "gemini"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-004"
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = 768
	}
	if cfg.Embedding.TimeoutSeconds == 0 {
		cfg.Embedding.TimeoutSeconds = 10
	}
	if cfg.Embedding.MaxRetries == 0 {
		cfg.Embedding.MaxRetries = 3
	}
	if cfg.Transcript.Provider == "" {
		cfg.Transcript.Provider = "youtube"
	}
	if cfg.Index.ChunkSize == 0 {
		cfg.Index.ChunkSize = 3
	}
	if cfg.Index.ChunkSize < 0 {
		return nil, fmt.Errorf("index.chunk_size must be positive")
	}
	if cfg.Index.Workers == 0 {
		cfg.Index.Workers = 4
	}
	if cfg.Search.DefaultTopK == 0 {
		cfg.Search.DefaultTopK = 5
	}
	if cfg.Cleanup.Enable && cfg.Cleanup.Schedule == "" {
		cfg.Cleanup.Schedule = "0 3 * * *"
	}
	if cfg.Archive.Enable && cfg.Archive.Type == "" {
		return nil, fmt.Errorf("archive.type is required when archive is enabled")
	}
	return &cfg, nil
}
