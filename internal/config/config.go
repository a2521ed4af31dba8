package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const geminiHost = "generativelanguage.googleapis.com"

type Config struct {
	Server struct {
		Port           int           `yaml:"port"`
		ReadTimeout    time.Duration `yaml:"readTimeout"`
		WriteTimeout   time.Duration `yaml:"writeTimeout"`
		AllowedOrigins []string      `yaml:"allowedOrigins"`
	} `yaml:"server"`

	AI struct {
		APIKey  string        `yaml:"apiKey"`
		BaseURL string        `yaml:"baseURL"`
		Timeout time.Duration `yaml:"timeout"`
		Models  struct {
			Diagnosis     string `yaml:"diagnosis"`
			Summary       string `yaml:"summary"`
			Insight       string `yaml:"insight"`
			Scribe        string `yaml:"scribe"`
			Transcription string `yaml:"transcription"`
		} `yaml:"models"`
		// Whisper endpoint. Gemini's OpenAI layer has no /audio/transcriptions,
		// so speech goes to its own OpenAI-compatible host. Empty apiKey disables it.
		Transcription struct {
			APIKey  string `yaml:"apiKey"`
			BaseURL string `yaml:"baseURL"`
		} `yaml:"transcription"`
	} `yaml:"ai"`

	Session struct {
		HistoryBound int           `yaml:"historyBound"`
		IdleTTL      time.Duration `yaml:"idleTTL"`
		Timezone     string        `yaml:"timezone"`
	} `yaml:"session"`

	// Audit kosong = tidak ada pencatatan ke database
	Audit struct {
		Driver   string `yaml:"driver"` // mysql | postgres | sqlite | ""
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		Path     string `yaml:"path"` // sqlite file
	} `yaml:"audit"`

	Archive struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"archive"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rateLimit"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json | text
	} `yaml:"log"`
}

// Default returns a config that runs without any external service except the AI gateway.
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 60 * time.Second
	c.Server.AllowedOrigins = []string{"*"}
	c.AI.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	c.AI.Timeout = 30 * time.Second
	c.AI.Models.Diagnosis = "gemini-3-flash-preview"
	c.AI.Models.Summary = "gemini-3-flash-preview"
	c.AI.Models.Insight = "gemini-3-flash-preview"
	c.AI.Models.Scribe = "gemini-3-flash-preview"
	c.AI.Models.Transcription = "whisper-1"
	c.AI.Transcription.BaseURL = "https://api.openai.com/v1"
	c.Session.HistoryBound = 10
	c.Session.IdleTTL = 30 * time.Minute
	c.Session.Timezone = "Local"
	c.Audit.Path = "./data/audit.db"
	c.Archive.BucketName = "vital360-voice"
	c.Archive.Region = "us-east-1"
	c.RateLimit.RPS = 5
	c.RateLimit.Burst = 10
	c.Log.Level = "info"
	c.Log.Format = "json"
	return &c
}

// Load baca .env lalu file config.yaml (kalau ada), terus override dari environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env opsional

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// jalan dengan default + env saja
	default:
		return nil, err
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			c.AI.APIKey = v
			break
		}
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		c.AI.Transcription.APIKey = v
	}
	if v, ok := os.LookupEnv("PORT"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("AUDIT_DRIVER"); v != "" {
		c.Audit.Driver = v
	}
	if v := os.Getenv("AUDIT_PASSWORD"); v != "" {
		c.Audit.Password = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		c.Archive.SecretKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if strings.TrimSpace(c.AI.APIKey) == "" {
		return errors.New("ai.apiKey (or GEMINI_API_KEY) is required")
	}
	if c.AI.Timeout <= 0 {
		return errors.New("ai.timeout must be > 0")
	}
	if c.TranscriptionEnabled() {
		if strings.TrimSpace(c.AI.Transcription.BaseURL) == "" {
			return errors.New("ai.transcription.baseURL is required when ai.transcription.apiKey is set")
		}
		if strings.Contains(c.AI.Transcription.BaseURL, geminiHost) {
			return fmt.Errorf("ai.transcription.baseURL: %s has no audio transcription endpoint", geminiHost)
		}
	}
	if c.Session.HistoryBound <= 0 {
		return errors.New("session.historyBound must be > 0")
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("session.idleTTL must be > 0")
	}
	if _, err := time.LoadLocation(c.Session.Timezone); err != nil {
		return fmt.Errorf("session.timezone: %w", err)
	}
	switch c.Audit.Driver {
	case "":
	case "sqlite":
		if c.Audit.Path == "" {
			return errors.New("audit.path is required for sqlite")
		}
	case "mysql", "postgres":
		if c.Audit.Host == "" || c.Audit.Name == "" {
			return fmt.Errorf("audit.host and audit.name are required for %s", c.Audit.Driver)
		}
	default:
		return fmt.Errorf("unknown audit.driver %q", c.Audit.Driver)
	}
	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.BucketName == "") {
		return errors.New("archive.endpoint and archive.bucketName are required when archive is enabled")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rateLimit values must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// TranscriptionEnabled reports whether the voice log has a transcription endpoint.
func (c *Config) TranscriptionEnabled() bool {
	return strings.TrimSpace(c.AI.Transcription.APIKey) != ""
}

// Location zona waktu untuk timestamp riwayat scan
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Session.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Audit.User,
		c.Audit.Password,
		c.Audit.Host,
		c.Audit.Port,
		c.Audit.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Audit.Host,
		c.Audit.Port,
		c.Audit.User,
		c.Audit.Password,
		c.Audit.Name,
	)
}
